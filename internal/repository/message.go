package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

type MessageRepository interface {
	Create(userID, sessionID, content string, isBot bool) (*model.Message, error)
	BySession(userID, sessionID string) ([]*model.Message, error)
	DeleteBySession(userID, sessionID string) (int64, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(userID, sessionID, content string, isBot bool) (*model.Message, error) {
	msg := &model.Message{
		ID:        uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		Content:   content,
		IsBot:     isBot,
		CreatedAt: time.Now(),
	}

	query := `INSERT INTO messages (id, user_id, session_id, content, is_bot, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, msg.ID, msg.UserID, msg.SessionID, msg.Content, msg.IsBot, msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// BySession returns the session's messages in ascending timestamp
// order. Each call re-queries; there is no cursor state.
func (r *messageRepository) BySession(userID, sessionID string) ([]*model.Message, error) {
	var messages []*model.Message
	query := `SELECT * FROM messages WHERE user_id = $1 AND session_id = $2 ORDER BY created_at ASC, id ASC`

	err := r.db.Select(&messages, query, userID, sessionID)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) DeleteBySession(userID, sessionID string) (int64, error) {
	query := `DELETE FROM messages WHERE user_id = $1 AND session_id = $2`

	result, err := r.db.Exec(query, userID, sessionID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
