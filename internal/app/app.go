package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/fayaebeb/mirai-app-sub001/internal/config"
	"github.com/fayaebeb/mirai-app-sub001/internal/db"
	"github.com/fayaebeb/mirai-app-sub001/internal/llm"
	"github.com/fayaebeb/mirai-app-sub001/internal/reminder"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
	"github.com/fayaebeb/mirai-app-sub001/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	EmailService    *service.EmailService
	FileService     *service.FileService
	ChatService     *service.ChatService
	GoalService     *service.GoalService
	NoteService     *service.NoteService
	MindMapService  *service.MindMapService
	ReminderManager *reminder.Manager
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	messageRepository := repository.NewMessageRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	mindMapRepository := repository.NewMindMapRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Storage is optional; avatar uploads are rejected without it
	var fileStorage storage.Storage
	if cfg.S3Configured() {
		fileStorage, err = storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
	} else {
		slog.Warn("S3 storage not configured, avatar uploads disabled")
	}

	// LLM client runs in canned-response mode without an API key
	llmClient := llm.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, fileStorage)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenEmailVerifyExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	userService := service.NewUserService(userRepository, fileService)
	chatService := service.NewChatService(sessionRepository, messageRepository, llmClient)
	goalService := service.NewGoalService(goalRepository)
	noteService := service.NewNoteService(noteRepository)
	mindMapService := service.NewMindMapService(mindMapRepository, llmClient)

	// One controller per signed-in user, polling goals in the background
	reminderManager := reminder.NewManager(goalService, goalService, cfg.ReminderPollInterval)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     userService,
		EmailService:    emailService,
		FileService:     fileService,
		ChatService:     chatService,
		GoalService:     goalService,
		NoteService:     noteService,
		MindMapService:  mindMapService,
		ReminderManager: reminderManager,
	}, nil
}

func (a *App) Close() error {
	if a.ReminderManager != nil {
		a.ReminderManager.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
