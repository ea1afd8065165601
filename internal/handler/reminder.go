package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/reminder"
)

type ReminderHandler struct {
	reminders *reminder.Manager
}

func NewReminderHandler(reminders *reminder.Manager) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
	}
}

type currentReminderResponse struct {
	Goal *model.Goal `json:"goal"`
}

// Current returns the goal whose notification is showing, or null.
// Requesting it also starts the caller's background reminder polling.
func (h *ReminderHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	ctrl := h.reminders.Controller(user.ID)
	writeJSON(w, http.StatusOK, currentReminderResponse{Goal: ctrl.Current()})
}

func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	ctrl := h.reminders.Controller(user.ID)
	if err := ctrl.Complete(goalID); err != nil {
		h.writeActionError(w, err, user.ID, goalID, "complete")
		return
	}

	writeJSON(w, http.StatusOK, currentReminderResponse{Goal: ctrl.Current()})
}

type snoozeReminderRequest struct {
	Minutes int `json:"minutes"`
}

func (h *ReminderHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	req := snoozeReminderRequest{Minutes: 10}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "Snooze minutes must be positive")
		return
	}

	ctrl := h.reminders.Controller(user.ID)
	if err := ctrl.Snooze(goalID, time.Duration(req.Minutes)*time.Minute); err != nil {
		h.writeActionError(w, err, user.ID, goalID, "snooze")
		return
	}

	writeJSON(w, http.StatusOK, currentReminderResponse{Goal: ctrl.Current()})
}

func (h *ReminderHandler) SnoozeTomorrow(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	ctrl := h.reminders.Controller(user.ID)
	if err := ctrl.SnoozeTomorrow(goalID); err != nil {
		h.writeActionError(w, err, user.ID, goalID, "snooze tomorrow")
		return
	}

	writeJSON(w, http.StatusOK, currentReminderResponse{Goal: ctrl.Current()})
}

func (h *ReminderHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	ctrl := h.reminders.Controller(user.ID)
	if err := ctrl.Dismiss(goalID); err != nil {
		h.writeActionError(w, err, user.ID, goalID, "dismiss")
		return
	}

	writeJSON(w, http.StatusOK, currentReminderResponse{Goal: ctrl.Current()})
}

func (h *ReminderHandler) writeActionError(w http.ResponseWriter, err error, userID, goalID, action string) {
	if errors.Is(err, reminder.ErrNotShowing) {
		writeError(w, http.StatusConflict, "That reminder is no longer showing")
		return
	}
	slog.Error("reminder action failed", "error", err, "action", action, "user_id", userID, "goal_id", goalID)
	writeError(w, http.StatusInternalServerError, "Reminder action failed")
}
