// Package main runs the HerdUp HTTP server: the relational API and the search API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/herdup/herdup/config"
	"github.com/herdup/herdup/internal/announcements"
	"github.com/herdup/herdup/internal/auth"
	"github.com/herdup/herdup/internal/emaillogs"
	"github.com/herdup/herdup/internal/events"
	"github.com/herdup/herdup/internal/interests"
	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/internal/organizations"
	"github.com/herdup/herdup/internal/profiles"
	"github.com/herdup/herdup/internal/rsvps"
	"github.com/herdup/herdup/internal/search"
	"github.com/herdup/herdup/internal/tags"
	"github.com/herdup/herdup/pkg/database"
	"github.com/herdup/herdup/pkg/queue"
	"github.com/herdup/herdup/pkg/redis"
	"github.com/herdup/herdup/pkg/response"
	"github.com/herdup/herdup/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	maxWait := time.Duration(cfg.Database.ConnectMaxWaitSecs) * time.Second
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), maxWait, logger)
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

	// Logo hosting is optional; without a region the logo routes answer 503.
	var logos organizations.LogoStorage
	if cfg.AWS.Region != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			LogosBucket:          cfg.AWS.LogosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			logos = s3Client
		}
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	revocations := auth.NewRedisRevocations(rdb.Client)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, revocations, jobQueue, cfg.Server.BaseURL, logger)

	// Directory
	orgHandler := organizations.NewHandler(organizations.NewRepository(pool), logos, logger)
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, logger)
	announcementHandler := announcements.NewHandler(announcements.NewRepository(pool), logger)
	tagHandler := tags.NewHandler(tags.NewRepository(pool), logger)

	// Per-user data
	interestHandler := interests.NewHandler(interests.NewRepository(pool), logger)
	profileHandler := profiles.NewHandler(profiles.NewRepository(pool), logger)
	rsvpHandler := rsvps.NewHandler(rsvps.NewRepository(pool), eventRepo, jobQueue, logger)
	emailLogHandler := emaillogs.NewHandler(emaillogs.NewRepository(pool), logger)

	// Search
	searchService := search.NewService(
		search.NewRepository(pool),
		time.Duration(cfg.Search.CacheTTLSec)*time.Second,
		cfg.Search.MaxFeatures,
		logger,
	)
	searchHandler := search.NewHandler(searchService, logger)
	indexer := search.NewIndexer(searchService, cfg.Search.ReindexIntervalSec, logger)
	orgHandler.OnLogoChange(indexer.Reload)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Search API (no envelope)
	searchHandler.Register(router)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/password-reset", authHandler.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	}

	// Public directory
	router.GET("/organizations", orgHandler.List)
	router.GET("/organizations/logos", orgHandler.Logos)
	router.GET("/organizations/:id", orgHandler.Get)
	router.GET("/events", eventHandler.List)
	router.GET("/events/:id", eventHandler.Get)
	router.GET("/announcements", announcementHandler.List)
	router.GET("/tags", tagHandler.List)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService, revocations, logger))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/session", authHandler.Session)

		api.GET("/me/organizations", orgHandler.MyOrganizations)
		api.POST("/organizations/:id/members", orgHandler.Join)
		api.DELETE("/organizations/:id/members", orgHandler.Leave)

		api.GET("/me/interests", interestHandler.Get)
		api.PUT("/me/interests", interestHandler.Replace)
		api.GET("/me/profile", profileHandler.Get)
		api.PATCH("/me/profile", profileHandler.Update)

		api.POST("/events/:id/rsvp", rsvpHandler.Create)
		api.DELETE("/events/:id/rsvp", rsvpHandler.Cancel)
		api.GET("/me/rsvps", rsvpHandler.Mine)

		// Admin
		api.PUT("/organizations/:id/logo", middleware.RequireRole(models.RoleAdmin), orgHandler.UploadLogo)
		api.POST("/organizations/:id/logo/upload-url", middleware.RequireRole(models.RoleAdmin), orgHandler.LogoUploadURL)
		api.GET("/admin/email-logs", middleware.RequireRole(models.RoleAdmin), emailLogHandler.List)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	indexer.Start()
	defer indexer.Stop()

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

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
