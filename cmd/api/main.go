package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/site-safety-service/internal/api/http"
	"github.com/spec-kit/site-safety-service/internal/api/http/handlers"
	"github.com/spec-kit/site-safety-service/internal/audittrail"
	"github.com/spec-kit/site-safety-service/internal/auth"
	"github.com/spec-kit/site-safety-service/internal/config"
	"github.com/spec-kit/site-safety-service/internal/events"
	"github.com/spec-kit/site-safety-service/internal/observability"
	"github.com/spec-kit/site-safety-service/internal/persistence"
	"github.com/spec-kit/site-safety-service/internal/repository"
	"github.com/spec-kit/site-safety-service/internal/service"
	"github.com/spec-kit/site-safety-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	recordRepo := repository.NewRecordRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	dismissalStore := repository.NewDismissalStore(redis.Client, cfg.SmartText.DismissalTTL())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	notificationService := service.NewNotificationService(cfg.Notification, logger)
	recordService := service.NewRecordService(service.RecordDependencies{
		RecordRepo: recordRepo,
		AuditRepo:  auditRepo,
		Notifier:   notificationService,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	templateService := service.NewTemplateService(templateRepo, dispatcher, logger)
	smartTextService := service.NewSmartTextService(dismissalStore, metrics, logger)
	trailReader := audittrail.NewReader(auditRepo, logger)

	worker.StartNotificationWorker(dispatcher, notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, notificationService),
		Records:        handlers.NewRecordsHandler(recordService, trailReader),
		Templates:      handlers.NewTemplatesHandler(templateService),
		SmartText:      handlers.NewSmartTextHandler(smartTextService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
