// Package main runs the voice form builder HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Akshayn8055/VoxForms/config"
	"github.com/Akshayn8055/VoxForms/internal/auth"
	"github.com/Akshayn8055/VoxForms/internal/contacts"
	"github.com/Akshayn8055/VoxForms/internal/forms"
	"github.com/Akshayn8055/VoxForms/internal/middleware"
	"github.com/Akshayn8055/VoxForms/internal/sessions"
	"github.com/Akshayn8055/VoxForms/internal/speech"
	"github.com/Akshayn8055/VoxForms/internal/worker"
	"github.com/Akshayn8055/VoxForms/pkg/database"
	"github.com/Akshayn8055/VoxForms/pkg/queue"
	"github.com/Akshayn8055/VoxForms/pkg/redis"
	"github.com/Akshayn8055/VoxForms/pkg/response"
	"github.com/Akshayn8055/VoxForms/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			AudioBucket:          cfg.AWS.AudioBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Speech providers: ElevenLabs primary, self-hosted whisper fallback.
	elevenLabs := speech.NewElevenLabs(speech.ElevenLabsConfig{
		APIKey:  cfg.Speech.ElevenLabsAPIKey,
		VoiceID: cfg.Speech.VoiceID,
	}, logger)
	whisper := speech.NewWhisperServer(cfg.Speech.WhisperURL, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Forms and voice builder sessions
	formRepo := forms.NewRepository(pool)
	registry := forms.NewRegistry(formRepo, cfg.App.BaseURL, elevenLabs, whisper, elevenLabs, logger)
	publicCache := forms.NewPublicCache(rdb.Client, logger)
	formHandler := forms.NewHandler(registry, formRepo, publicCache, logger)

	// Voice sessions (transcription history, audio archival)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	sessionRepo := sessions.NewRepository(pool)
	sessionHandler := sessions.NewHandler(registry, sessionRepo, jobQueue, s3Client, cfg.App.VoiceAudioDir, logger)
	audioArchiver := worker.NewAudioArchiver(sessionRepo, s3Client, jobQueue, logger)

	// Contact submissions
	contactRepo := contacts.NewRepository(pool)
	contactHandler := contacts.NewHandler(contactRepo, logger)

	jwtValidate := func(token string) (uuid.UUID, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, err
		}
		return claims.UserID, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: contact form and shared (published) forms
	router.POST("/contact", contactHandler.Submit)
	router.GET("/shared/:id", formHandler.GetShared)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/auth/me", authHandler.Me)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Forms
		api.POST("/forms", formHandler.Create)
		api.GET("/forms", formHandler.List)
		api.GET("/forms/:id", formHandler.GetByID)
		api.PATCH("/forms/:id", formHandler.UpdateMeta)
		api.DELETE("/forms/:id", formHandler.Delete)
		api.POST("/forms/:id/fields", formHandler.AddField)
		api.PATCH("/forms/:id/fields/:fieldId", formHandler.UpdateField)
		api.DELETE("/forms/:id/fields/:fieldId", formHandler.DeleteField)
		api.POST("/forms/:id/save", formHandler.Save)
		api.POST("/forms/:id/close", formHandler.CloseBuilder)

		// Voice sessions
		api.POST("/forms/:id/voice/start", sessionHandler.Start)
		api.POST("/forms/:id/voice/complete", sessionHandler.Complete)
		api.POST("/forms/:id/voice/cancel", sessionHandler.Cancel)
		api.GET("/forms/:id/voice/sessions", sessionHandler.History)
		api.GET("/forms/:id/voice/audio", sessionHandler.AudioURL)

		// Contact submissions dashboard (admin only)
		api.GET("/admin/contacts", middleware.RequireRole("admin"), contactHandler.List)
		api.GET("/admin/contacts/:id", middleware.RequireRole("admin"), contactHandler.GetByID)
		api.PATCH("/admin/contacts/:id/status", middleware.RequireRole("admin"), contactHandler.UpdateStatus)
		api.DELETE("/admin/contacts/:id", middleware.RequireRole("admin"), contactHandler.Delete)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws/builder", sessions.ServeWs(registry, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (voice audio archival to S3)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if s3Client != nil {
		go audioArchiver.Run(workerCtx)
		logger.Info("audio archival worker started")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
