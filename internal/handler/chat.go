package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/lane"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// laneFromRequest resolves the {lane} path segment, defaulting to general
func laneFromRequest(r *http.Request) (lane.Lane, error) {
	raw := r.PathValue("lane")
	if raw == "" {
		return lane.General, nil
	}
	return lane.Parse(raw)
}

// Messages returns the full history for the requested lane. The lane's
// session is created on first access.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	l, err := laneFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown chat lane")
		return
	}

	messages, err := h.chatService.Messages(user.ID, l)
	if err != nil {
		slog.Error("failed to load messages", "error", err, "user_id", user.ID, "lane", l)
		writeError(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type sendMessageResponse struct {
	UserMessage *model.Message `json:"userMessage"`
	BotMessage  *model.Message `json:"botMessage"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	l, err := laneFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown chat lane")
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Message content is required")
		return
	}

	userMsg, botMsg, err := h.chatService.Send(r.Context(), user.ID, l, req.Content)
	if err != nil {
		slog.Error("failed to send message", "error", err, "user_id", user.ID, "lane", l)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage: userMsg,
		BotMessage:  botMsg,
	})
}

// Clear deletes the lane's history but keeps the session so the lane key
// stays stable.
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	l, err := laneFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown chat lane")
		return
	}

	deleted, err := h.chatService.Clear(user.ID, l)
	if err != nil {
		slog.Error("failed to clear chat", "error", err, "user_id", user.ID, "lane", l)
		writeError(w, http.StatusInternalServerError, "Failed to clear chat")
		return
	}

	slog.Info("chat cleared", "user_id", user.ID, "lane", l, "deleted", deleted)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
