package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

var (
	ErrSessionNotFound     = errors.New("chat session not found")
	ErrDuplicateSessionKey = errors.New("session key already exists")
)

type SessionRepository interface {
	Create(userID, sessionKey string) (*model.ChatSession, error)
	ByKey(userID, sessionKey string) (*model.ChatSession, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(userID, sessionKey string) (*model.ChatSession, error) {
	session := &model.ChatSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		SessionKey: sessionKey,
		CreatedAt:  time.Now(),
	}

	query := `INSERT INTO chat_sessions (id, user_id, session_key, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, session.ID, session.UserID, session.SessionKey, session.CreatedAt)
	if err != nil {
		// session_key is unique; two concurrent creates for the same
		// lane mean someone else won the race. The caller re-reads.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSessionKey
		}
		return nil, err
	}

	return session, nil
}

func (r *sessionRepository) ByKey(userID, sessionKey string) (*model.ChatSession, error) {
	session := &model.ChatSession{}
	query := `SELECT * FROM chat_sessions WHERE user_id = $1 AND session_key = $2`

	err := r.db.Get(session, query, userID, sessionKey)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}

	return session, err
}
