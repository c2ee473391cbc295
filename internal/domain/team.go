package domain

// Team представляет команду
type Team struct {
	Name string `json:"name"`
}

// TeamLink представляет именованную ссылку команды
type TeamLink struct {
	ID       *int64 `json:"id"`
	Link     string `json:"link"`
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
}

// TeamLinkInput представляет тело POST/PATCH /team_links
type TeamLinkInput struct {
	Link     *string `json:"link,omitempty"`
	Name     *string `json:"name,omitempty"`
	TeamName *string `json:"team_name,omitempty"`
}
