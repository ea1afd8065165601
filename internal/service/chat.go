package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fayaebeb/mirai-app-sub001/internal/lane"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

// Replier produces the assistant's reply for a chat turn.
type Replier interface {
	Reply(ctx context.Context, laneName string, history []*model.Message, userMessage string) (string, error)
}

// ChatService adapts the session and message stores to the lane model:
// every operation takes a (user, lane) pair, resolves the deterministic
// session key, and guarantees the session row exists before any write.
type ChatService struct {
	sessions repository.SessionRepository
	messages repository.MessageRepository
	replier  Replier
}

func NewChatService(sessions repository.SessionRepository, messages repository.MessageRepository, replier Replier) *ChatService {
	return &ChatService{
		sessions: sessions,
		messages: messages,
		replier:  replier,
	}
}

// EnsureSession returns the user's session for a lane, creating it on
// first access. Concurrent creates for the same lane are resolved by
// the unique constraint on the session key: the loser of the race
// re-reads the winner's row.
func (s *ChatService) EnsureSession(userID string, l lane.Lane) (*model.ChatSession, error) {
	key := lane.Key(userID, l)

	session, err := s.sessions.ByKey(userID, key)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session, err = s.sessions.Create(userID, key)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSessionKey) {
			// Lost a create race; the row exists now.
			return s.sessions.ByKey(userID, key)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Messages returns the lane's history in ascending timestamp order.
func (s *ChatService) Messages(userID string, l lane.Lane) ([]*model.Message, error) {
	session, err := s.EnsureSession(userID, l)
	if err != nil {
		return nil, err
	}

	return s.messages.BySession(userID, session.ID)
}

// Send runs one chat turn: the user message and the assistant's reply
// are appended as a pair, in that order.
func (s *ChatService) Send(ctx context.Context, userID string, l lane.Lane, content string) (userMsg, botMsg *model.Message, err error) {
	session, err := s.EnsureSession(userID, l)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.messages.BySession(userID, session.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	userMsg, err = s.messages.Create(userID, session.ID, content, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store message: %w", err)
	}

	reply, err := s.replier.Reply(ctx, string(l), history, content)
	if err != nil {
		return nil, nil, fmt.Errorf("assistant reply failed: %w", err)
	}

	botMsg, err = s.messages.Create(userID, session.ID, reply, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store reply: %w", err)
	}

	return userMsg, botMsg, nil
}

// Clear deletes the lane's messages. The session row persists so the
// lane can restart without re-deriving its key.
func (s *ChatService) Clear(userID string, l lane.Lane) (int64, error) {
	session, err := s.EnsureSession(userID, l)
	if err != nil {
		return 0, err
	}

	return s.messages.DeleteBySession(userID, session.ID)
}

// Append stores a single message without producing a reply. Used by
// system-generated entries, e.g. the goal assistant noting a completed
// goal.
func (s *ChatService) Append(userID string, l lane.Lane, content string, isBot bool) (*model.Message, error) {
	session, err := s.EnsureSession(userID, l)
	if err != nil {
		return nil, err
	}

	return s.messages.Create(userID, session.ID, content, isBot)
}
