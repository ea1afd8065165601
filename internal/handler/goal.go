package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/reminder"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
	reminders   *reminder.Manager
}

func NewGoalHandler(goalService *service.GoalService, reminders *reminder.Manager) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		reminders:   reminders,
	}
}

type goalRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	DueDate           *time.Time `json:"dueDate"`
	Priority          string     `json:"priority"`
	Category          string     `json:"category"`
	Tags              []string   `json:"tags"`
	ReminderTime      *time.Time `json:"reminderTime"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurringType     string     `json:"recurringType"`
	RecurringInterval int        `json:"recurringInterval"`
	RecurringEndDate  *time.Time `json:"recurringEndDate"`
}

func (req *goalRequest) input() service.GoalInput {
	return service.GoalInput{
		Title:             req.Title,
		Description:       req.Description,
		DueDate:           req.DueDate,
		Priority:          req.Priority,
		Category:          req.Category,
		Tags:              req.Tags,
		ReminderTime:      req.ReminderTime,
		IsRecurring:       req.IsRecurring,
		RecurringType:     req.RecurringType,
		RecurringInterval: req.RecurringInterval,
		RecurringEndDate:  req.RecurringEndDate,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(user.ID)
	if err != nil {
		slog.Error("failed to get goals", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load goals")
		return
	}
	if goals == nil {
		goals = []*model.Goal{}
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.ByID(user.ID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		slog.Error("failed to get goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to load goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.goalService.Create(user.ID, req.input())
	if err != nil {
		if isGoalInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create goal", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.goalService.Update(user.ID, goalID, req.input())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "Goal not found")
		case isGoalInputError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to update goal", "error", err, "user_id", user.ID, "goal_id", goalID)
			writeError(w, http.StatusInternalServerError, "Failed to update goal")
		}
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// Complete marks a goal done. Recurring goals advance to their next
// occurrence instead of completing.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.Complete(user.ID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		slog.Error("failed to complete goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to complete goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.Toggle(user.ID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		slog.Error("failed to toggle goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

type snoozeRequest struct {
	Until time.Time `json:"until"`
}

func (h *GoalHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var req snoozeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Until.IsZero() {
		writeError(w, http.StatusBadRequest, "Snooze time is required")
		return
	}

	goal, err := h.goalService.Snooze(user.ID, goalID, req.Until)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		slog.Error("failed to snooze goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to snooze goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	if err := h.goalService.Delete(user.ID, goalID); err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		slog.Error("failed to delete goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	// Retract any reminder showing for the deleted goal.
	h.reminders.Forget(user.ID, goalID)

	w.WriteHeader(http.StatusNoContent)
}

func isGoalInputError(err error) bool {
	return errors.Is(err, service.ErrTitleRequired) ||
		errors.Is(err, service.ErrInvalidPriority) ||
		errors.Is(err, service.ErrInvalidRecurrence)
}
