package routes

import (
	"net/http"

	"github.com/fayaebeb/mirai-app-sub001/internal/app"
	"github.com/fayaebeb/mirai-app-sub001/internal/handler"
	"github.com/fayaebeb/mirai-app-sub001/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.ReminderManager)
	account := handler.NewAccountHandler(app.UserService, app.FileService, app.AuthService, app.ReminderManager)
	chat := handler.NewChatHandler(app.ChatService)
	goal := handler.NewGoalHandler(app.GoalService, app.ReminderManager)
	note := handler.NewNoteHandler(app.NoteService)
	mindMap := handler.NewMindMapHandler(app.MindMapService)
	rem := handler.NewReminderHandler(app.ReminderManager)

	mux := http.NewServeMux()

	// Auth (rate limited)
	authLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", authLimiter(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /api/auth/login", authLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("POST /api/auth/verify-email", auth.VerifyEmail)
	mux.HandleFunc("POST /api/auth/forgot-password", authLimiter(middleware.RequireGuest(auth.ForgotPassword)))
	mux.HandleFunc("POST /api/auth/reset-password", authLimiter(middleware.RequireGuest(auth.ResetPassword)))

	// Account
	mux.HandleFunc("POST /api/account/onboarding", middleware.RequireAuth(account.CompleteOnboarding))
	mux.HandleFunc("POST /api/account/avatar", middleware.RequireAuth(account.UploadAvatar))
	mux.HandleFunc("DELETE /api/account/avatar", middleware.RequireAuth(account.DeleteAvatar))
	mux.HandleFunc("DELETE /api/account", middleware.RequireAuth(account.Delete))

	// Chat (LLM calls are rate limited per IP)
	chatLimiter := middleware.RateLimitChat()

	mux.HandleFunc("GET /api/chat/{lane}/messages", middleware.RequireAuth(chat.Messages))
	mux.HandleFunc("POST /api/chat/{lane}/messages", chatLimiter(middleware.RequireAuth(chat.Send)))
	mux.HandleFunc("DELETE /api/chat/{lane}/messages", middleware.RequireAuth(chat.Clear))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("POST /api/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("POST /api/goals/{id}/toggle", middleware.RequireAuth(goal.Toggle))
	mux.HandleFunc("POST /api/goals/{id}/snooze", middleware.RequireAuth(goal.Snooze))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Notes
	mux.HandleFunc("GET /api/notes", middleware.RequireAuth(note.List))
	mux.HandleFunc("POST /api/notes", middleware.RequireAuth(note.Create))
	mux.HandleFunc("POST /api/notes/import", middleware.RequireAuth(note.Import))
	mux.HandleFunc("GET /api/notes/{id}", middleware.RequireAuth(note.Get))
	mux.HandleFunc("GET /api/notes/{id}/html", middleware.RequireAuth(note.Render))
	mux.HandleFunc("PUT /api/notes/{id}", middleware.RequireAuth(note.Update))
	mux.HandleFunc("DELETE /api/notes/{id}", middleware.RequireAuth(note.Delete))

	// Mind maps
	mux.HandleFunc("GET /api/mindmaps", middleware.RequireAuth(mindMap.List))
	mux.HandleFunc("POST /api/mindmaps", chatLimiter(middleware.RequireAuth(mindMap.Generate)))
	mux.HandleFunc("DELETE /api/mindmaps/{id}", middleware.RequireAuth(mindMap.Delete))

	// Reminders
	mux.HandleFunc("GET /api/reminders/current", middleware.RequireAuth(rem.Current))
	mux.HandleFunc("POST /api/reminders/{id}/complete", middleware.RequireAuth(rem.Complete))
	mux.HandleFunc("POST /api/reminders/{id}/snooze", middleware.RequireAuth(rem.Snooze))
	mux.HandleFunc("POST /api/reminders/{id}/snooze-tomorrow", middleware.RequireAuth(rem.SnoozeTomorrow))
	mux.HandleFunc("POST /api/reminders/{id}/dismiss", middleware.RequireAuth(rem.Dismiss))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return h
}
