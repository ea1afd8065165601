package model

import (
	"time"
)

type Message struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	SessionID string    `db:"session_id" json:"sessionId"`
	Content   string    `db:"content" json:"content"`
	IsBot     bool      `db:"is_bot" json:"isBot"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
