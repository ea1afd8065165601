package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/reminder"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
)

const maxAvatarUpload = 6 << 20 // multipart cap, service enforces the 5 MB limit

type AccountHandler struct {
	userService *service.UserService
	fileService *service.FileService
	authService *service.AuthService
	reminders   *reminder.Manager
}

func NewAccountHandler(
	userService *service.UserService,
	fileService *service.FileService,
	authService *service.AuthService,
	reminders *reminder.Manager,
) *AccountHandler {
	return &AccountHandler{
		userService: userService,
		fileService: fileService,
		authService: authService,
		reminders:   reminders,
	}
}

// CompleteOnboarding stamps the user's onboarding time. Calling it again
// is a no-op.
func (h *AccountHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	updated, err := h.userService.CompleteOnboarding(user.ID)
	if err != nil {
		slog.Error("failed to complete onboarding", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AccountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := r.ParseMultipartForm(maxAvatarUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing avatar file")
		return
	}
	defer file.Close()

	saved, err := h.fileService.UploadAvatar(user.ID, file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStorageUnavailable):
			writeError(w, http.StatusServiceUnavailable, "File storage is not available")
		default:
			slog.Error("failed to upload avatar", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "Failed to upload avatar")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":  saved.ID,
		"url": h.fileService.AvatarURL(user.ID),
	})
}

func (h *AccountHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.fileService.DeleteAvatar(user.ID); err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "File storage is not available")
			return
		}
		slog.Error("failed to delete avatar", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to delete avatar")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the account and all its data, then ends the session
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.userService.Delete(user.ID); err != nil {
		slog.Error("failed to delete account", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	h.reminders.Drop(user.ID)
	h.authService.ClearJWTCookie(w)

	slog.Info("account deleted", "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
