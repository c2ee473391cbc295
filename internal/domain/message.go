package domain

import "time"

// Message представляет сообщение на доске объявлений
type Message struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	UserTName string    `json:"user_t_name"`
	DateTime  time.Time `json:"date_time"`
}

// MessageCreate представляет тело POST /messages
type MessageCreate struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	UserTName string    `json:"user_t_name"`
	DateTime  time.Time `json:"date_time"`
}
