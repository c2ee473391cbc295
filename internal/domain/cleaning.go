package domain

// CleaningDuty представляет дежурство по уборке двух участников на диапазон дат
type CleaningDuty struct {
	ID        *int64 `json:"id"`
	Name1     string `json:"name1"`
	Name2     string `json:"name2"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// CleaningDutyInput представляет тело POST/PATCH /cleaning_duties
type CleaningDutyInput struct {
	Name1     *string `json:"name1"`
	Name2     *string `json:"name2"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}
