package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-itsm/atlas/internal/app"
	"github.com/atlas-itsm/atlas/internal/assets"
	"github.com/atlas-itsm/atlas/internal/audit"
	"github.com/atlas-itsm/atlas/internal/auth"
	"github.com/atlas-itsm/atlas/internal/employees"
	"github.com/atlas-itsm/atlas/internal/notifications"
	"github.com/atlas-itsm/atlas/internal/platform/cache"
	"github.com/atlas-itsm/atlas/internal/platform/db"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
	"github.com/atlas-itsm/atlas/internal/tickets"
	"github.com/atlas-itsm/atlas/internal/users"
	"github.com/atlas-itsm/atlas/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "atlas_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	usersRepo := users.NewRepository(pool)
	directory := users.NewDirectory(usersRepo)
	rbacMiddleware := rbac.Middleware{
		Directory:               directory,
		Logger:                  logger,
		FailClosedOnLookupError: cfg.AuthFailClosedOnLookupError,
	}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, rbacMiddleware)

	usersService := users.NewService(usersRepo, auditLogger)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo, auditLogger)
	employeesHandler := employees.NewHandler(logger, employeesService, rbacMiddleware)

	notificationsRepo := notifications.NewRepository(pool)
	notificationsService := notifications.NewService(logger, notificationsRepo, jobClient)
	notificationsHandler := notifications.NewHandler(logger, notificationsService, rbacMiddleware)

	assetsRepo := assets.NewRepository(pool)
	assetsService := assets.NewService(assetsRepo, auditLogger, notificationsService)
	assetsHandler := assets.NewHandler(logger, assetsService, rbacMiddleware)

	ticketsRepo := tickets.NewRepository(pool)
	ticketsService := tickets.NewService(ticketsRepo, auditLogger, notificationsService)
	ticketsHandler := tickets.NewHandler(logger, ticketsService, rbacMiddleware)

	auditRepo := audit.NewRepository(pool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audit.NewHandler(logger, auditService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		RBACMiddleware:       rbacMiddleware,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		EmployeesHandler:     employeesHandler,
		AssetsHandler:        assetsHandler,
		TicketsHandler:       ticketsHandler,
		AuditHandler:         auditHandler,
		NotificationsHandler: notificationsHandler,
		JobHandler:           jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server starting", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
