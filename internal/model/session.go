package model

import (
	"time"
)

// ChatSession partitions a user's messages into one conversation lane.
// Rows are created lazily on first access to a lane and never deleted;
// clearing a lane removes its messages only.
type ChatSession struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	SessionKey string    `db:"session_key" json:"sessionKey"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
