package domain

import "time"

// User представляет участника портала (только чтение)
type User struct {
	TName       string  `json:"t_name"`
	Name        string  `json:"name"`
	Birthday    *Date   `json:"birthday,omitempty"`
	ReleaseDate *Date   `json:"release_date,omitempty"`
	JoinedDate  *Date   `json:"joined_date,omitempty"`
	TeamName    *string `json:"team_name,omitempty"`
}

// UserUpdate представляет статус-обновление пользователя на период времени
type UserUpdate struct {
	ID            int64     `json:"id"`
	UserTName     string    `json:"user_t_name"`
	Update        string    `json:"update"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
}

// UserUpdateCreate представляет тело POST /user_updates
type UserUpdateCreate struct {
	UserTName     string    `json:"user_t_name"`
	Update        string    `json:"update"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
}

// UserEvent представляет событие в календаре пользователя
type UserEvent struct {
	ID            int64     `json:"id"`
	UserTName     string    `json:"user_t_name"`
	Event         string    `json:"event"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
}
