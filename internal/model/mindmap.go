package model

import (
	"time"
)

// MindMap stores an LLM-generated node/edge document as raw JSON.
type MindMap struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Topic     string    `db:"topic" json:"topic"`
	Data      string    `db:"data" json:"data"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
