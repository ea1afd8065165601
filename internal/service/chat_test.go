package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fayaebeb/mirai-app-sub001/internal/lane"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

type fakeSessionRepo struct {
	sessions   map[string]*model.ChatSession // key: sessionKey
	nextID     int
	createErr  error
	createHook func() // runs before Create, simulates a racing writer
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.ChatSession{}}
}

func (f *fakeSessionRepo) Create(userID, sessionKey string) (*model.ChatSession, error) {
	if f.createHook != nil {
		f.createHook()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.sessions[sessionKey]; ok {
		return nil, repository.ErrDuplicateSessionKey
	}
	f.nextID++
	s := &model.ChatSession{
		ID:         fmt.Sprintf("session-%d", f.nextID),
		UserID:     userID,
		SessionKey: sessionKey,
	}
	f.sessions[sessionKey] = s
	return s, nil
}

func (f *fakeSessionRepo) ByKey(userID, sessionKey string) (*model.ChatSession, error) {
	s, ok := f.sessions[sessionKey]
	if !ok || s.UserID != userID {
		return nil, repository.ErrSessionNotFound
	}
	return s, nil
}

type fakeMessageRepo struct {
	messages []*model.Message
	nextID   int
}

func (f *fakeMessageRepo) Create(userID, sessionID, content string, isBot bool) (*model.Message, error) {
	f.nextID++
	m := &model.Message{
		ID:        fmt.Sprintf("msg-%d", f.nextID),
		UserID:    userID,
		SessionID: sessionID,
		Content:   content,
		IsBot:     isBot,
	}
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeMessageRepo) BySession(userID, sessionID string) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range f.messages {
		if m.UserID == userID && m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) DeleteBySession(userID, sessionID string) (int64, error) {
	var kept []*model.Message
	var deleted int64
	for _, m := range f.messages {
		if m.UserID == userID && m.SessionID == sessionID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return deleted, nil
}

type echoReplier struct{}

func (echoReplier) Reply(_ context.Context, laneName string, _ []*model.Message, userMessage string) (string, error) {
	return laneName + ": " + userMessage, nil
}

func newChatFixture() (*ChatService, *fakeSessionRepo, *fakeMessageRepo) {
	sessions := newFakeSessionRepo()
	messages := &fakeMessageRepo{}
	return NewChatService(sessions, messages, echoReplier{}), sessions, messages
}

func TestEnsureSessionIdempotent(t *testing.T) {
	svc, sessions, _ := newChatFixture()

	first, err := svc.EnsureSession("user-1", lane.Goal)
	require.NoError(t, err)

	second, err := svc.EnsureSession("user-1", lane.Goal)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, sessions.sessions, 1)
}

func TestEnsureSessionRecoversFromCreateRace(t *testing.T) {
	svc, sessions, _ := newChatFixture()

	// A second writer wins the insert between our read and create.
	key := lane.Key("user-1", lane.General)
	sessions.createHook = func() {
		sessions.createHook = nil
		sessions.sessions[key] = &model.ChatSession{
			ID:         "session-raced",
			UserID:     "user-1",
			SessionKey: key,
		}
	}

	got, err := svc.EnsureSession("user-1", lane.General)
	require.NoError(t, err)
	assert.Equal(t, "session-raced", got.ID)
}

func TestSendAppendsUserThenBot(t *testing.T) {
	svc, _, messages := newChatFixture()

	userMsg, botMsg, err := svc.Send(context.Background(), "user-1", lane.General, "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", userMsg.Content)
	assert.False(t, userMsg.IsBot)
	assert.Equal(t, "general: hello", botMsg.Content)
	assert.True(t, botMsg.IsBot)

	require.Len(t, messages.messages, 2)
	assert.Equal(t, userMsg.ID, messages.messages[0].ID)
	assert.Equal(t, botMsg.ID, messages.messages[1].ID)
}

func TestLanesAreIsolated(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "user-1", lane.Goal, "goal talk")
	require.NoError(t, err)
	_, _, err = svc.Send(ctx, "user-1", lane.Notes, "note talk")
	require.NoError(t, err)

	goalMsgs, err := svc.Messages("user-1", lane.Goal)
	require.NoError(t, err)
	noteMsgs, err := svc.Messages("user-1", lane.Notes)
	require.NoError(t, err)

	require.Len(t, goalMsgs, 2)
	require.Len(t, noteMsgs, 2)
	assert.Equal(t, "goal talk", goalMsgs[0].Content)
	assert.Equal(t, "note talk", noteMsgs[0].Content)
}

func TestLanesAreIsolatedAcrossUsers(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "user-1", lane.General, "mine")
	require.NoError(t, err)

	otherMsgs, err := svc.Messages("user-2", lane.General)
	require.NoError(t, err)
	assert.Empty(t, otherMsgs)
}

func TestClearKeepsSession(t *testing.T) {
	svc, sessions, _ := newChatFixture()
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "user-1", lane.Notes, "first")
	require.NoError(t, err)

	before, err := svc.EnsureSession("user-1", lane.Notes)
	require.NoError(t, err)

	deleted, err := svc.Clear("user-1", lane.Notes)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	msgs, err := svc.Messages("user-1", lane.Notes)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	after, err := svc.EnsureSession("user-1", lane.Notes)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Len(t, sessions.sessions, 1)
}

func TestClearOnlyAffectsOneLane(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "user-1", lane.General, "keep me")
	require.NoError(t, err)
	_, _, err = svc.Send(ctx, "user-1", lane.Goal, "delete me")
	require.NoError(t, err)

	_, err = svc.Clear("user-1", lane.Goal)
	require.NoError(t, err)

	generalMsgs, err := svc.Messages("user-1", lane.General)
	require.NoError(t, err)
	assert.Len(t, generalMsgs, 2)
}

func TestAppendStoresSingleMessage(t *testing.T) {
	svc, _, messages := newChatFixture()

	m, err := svc.Append("user-1", lane.Goal, "goal completed: ship it", true)
	require.NoError(t, err)
	assert.True(t, m.IsBot)
	assert.Len(t, messages.messages, 1)
}
