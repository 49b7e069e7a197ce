package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/petsafe/pettag-service/internal/api/http"
	"github.com/petsafe/pettag-service/internal/api/http/handlers"
	"github.com/petsafe/pettag-service/internal/auth"
	"github.com/petsafe/pettag-service/internal/config"
	"github.com/petsafe/pettag-service/internal/events"
	"github.com/petsafe/pettag-service/internal/observability"
	"github.com/petsafe/pettag-service/internal/persistence"
	"github.com/petsafe/pettag-service/internal/repository"
	"github.com/petsafe/pettag-service/internal/service"
	"github.com/petsafe/pettag-service/internal/storage"
	"github.com/petsafe/pettag-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	petRepo := repository.NewPetRepository(pool)
	publicCache := repository.NewPublicProfileCache(redis.Client, cfg.Redis.PublicCacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	photoStore := storage.NewPhotoStore(cfg.Uploads.Dir)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	petService := service.NewPetService(service.PetDependencies{
		PetRepo:       petRepo,
		Cache:         publicCache,
		Photos:        photoStore,
		Dispatcher:    dispatcher,
		PublicBaseURL: cfg.App.PublicBaseURL,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	usersHandler := handlers.NewUsersHandler(authService)
	petsHandler := handlers.NewPetsHandler(petService)
	publicHandler := handlers.NewPublicHandler(petService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Pets:           petsHandler,
		Public:         publicHandler,
		AuthMiddleware: authMiddleware,
		UploadsDir:     cfg.Uploads.Dir,
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
