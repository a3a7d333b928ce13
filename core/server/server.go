package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"forum-api/core/cache"
	"forum-api/core/config"
	"forum-api/core/constants"
	"forum-api/core/database"
	"forum-api/core/logger"
	"forum-api/core/middleware"
	"forum-api/core/storage"
	"forum-api/modules/auth"
	"forum-api/modules/company"
	"forum-api/modules/interview"
	"forum-api/modules/notification"
	"forum-api/modules/room"
	"forum-api/modules/settings"
	userentity "forum-api/modules/user/entity"
	userRepository "forum-api/modules/user/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

// Run is the composition root: it wires config, storage backends, the task
// queue and every module, then serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel, os.Getenv("LOG_FORMAT"))

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	// Object storage is optional; without it logo uploads are disabled.
	var st *storage.Storage
	if cfg.S3.Bucket != "" {
		s, err := storage.NewStorage(cfg.S3)
		if err != nil {
			return err
		}
		st = &s
	} else {
		logger.Warn("No S3 bucket configured, logo uploads disabled")
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.TimeoutWithConfig(echoMiddleware.TimeoutConfig{
		Timeout: constants.DefaultRequestTimeout,
	}))

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(c)
	api := e.Group("/api/v1")

	userRepo := userRepository.NewUserRepository(db)
	settingsSvc := settings.Init(api, db, mw)
	auth.Init(api, userRepo, settingsSvc, &c, mw)

	companyModule := company.Init(api, db, st, mw)
	roomModule := room.Init(api, db, companyModule.Repository, mw)
	interviewModule := interview.Init(api, db, &c, userRepo, companyModule.Repository, roomModule.Service, mw)

	notificationSvc := notification.Init(api, db, interviewModule.Repository, companyModule.Repository, asynqClient, mw)
	interviewModule.Queue.SetNotifier(notificationSvc)

	if err := bootstrapAdmin(context.Background(), cfg, userRepo); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	// Background worker for queue position alerts.
	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskTypeQueueNotification, notificationSvc.HandleQueuePositionTask)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:AsynqWorker", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// bootstrapAdmin creates the initial admin account from config when no admin
// exists yet. Idempotent across restarts.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, userRepo userRepository.UserRepositoryInterface) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	count, err := userRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := cfg.Admin.Name
	if name == "" {
		name = "Administrator"
	}
	created, err := userRepo.Create(ctx, &userentity.User{
		Name:         name,
		Email:        cfg.Admin.Email,
		PasswordHash: string(hash),
		Role:         userentity.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	logger.Info("Bootstrapped admin account", "user_id", created.ID, "email", created.Email)
	return nil
}
