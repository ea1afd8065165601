package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/reminder"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	reminders   *reminder.Manager
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, reminders *reminder.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		reminders:   reminders,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			writeError(w, http.StatusConflict, "An account with this email already exists")
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "Invalid email address")
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("registration failed", "error", err, "email", req.Email)
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))

	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := ctxkeys.User(r.Context()); user != nil {
		h.reminders.Drop(user.ID)
	}
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fresh, err := h.userService.ByID(user.ID)
	if err != nil {
		slog.Error("failed to load user", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, fresh)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.VerifyEmail(req.Token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, "Invalid or expired verification link")
			return
		}
		slog.Error("email verification failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	slog.Info("email verified", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		slog.Error("forgot password failed", "error", err)
	}

	// Always respond the same way so callers cannot enumerate accounts
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "If an account exists for that email, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, "Invalid or expired reset link")
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("password reset failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Password reset failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func isValidationError(err error) bool {
	var ve *service.ValidationError
	return errors.As(err, &ve)
}
