package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-desk/internal/api/http"
	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/cache"
	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/persistence"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/internal/service"
	"github.com/spec-kit/complaint-desk/internal/worker"
)

// stores groups the repositories selected by STORE_BACKEND.
type stores struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	admins     repository.AdminRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open complaint store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer st.close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		snapshots cache.SnapshotCache  = cache.Noop{}
		revoked   cache.RevocationList = cache.NewMemoryRevocationList()
	)
	readiness := []handlers.Dependency{{Name: cfg.Store.Backend, Pinger: st.complaints}}
	if redis.Reachable() {
		snapshots = cache.NewRedisSnapshotCache(redis.Client, cfg.Cache.SnapshotTTL())
		revoked = cache.NewRedisRevocationList(redis.Client)
		readiness = append(readiness, handlers.Dependency{Name: "redis", Pinger: redis})
	} else {
		logger.Warn("snapshot cache disabled; token revocations kept in process memory")
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AdminRepo:  st.admins,
		Revocation: revoked,
		Logger:     logger,
	})
	if cfg.Auth.BootstrapWorkID != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapWorkID, cfg.Auth.BootstrapPassword); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), st.admins, revoked)

	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		ComplaintRepo: st.complaints,
		HistoryRepo:   st.history,
		Cache:         snapshots,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: st.complaints,
		HistoryRepo:   st.history,
		Cache:         snapshots,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	warmer, err := worker.NewCacheWarmer(cfg.Cache.WarmCron, dashboardService, logger)
	if err != nil {
		logger.Fatal("invalid CACHE_WARM_CRON", zap.String("spec", cfg.Cache.WarmCron), zap.Error(err))
	}
	warmer.Start()
	defer warmer.Stop()

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
		Immutable:             true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, readiness...),
		Auth:           handlers.NewAuthHandler(authService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, complaintService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &stores{
			complaints: repository.NewComplaintRepository(pool),
			history:    repository.NewComplaintHistoryRepository(pool),
			admins:     repository.NewAdminRepository(pool),
			close:      pg.Close,
		}, nil

	case config.StoreBackendMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		logger.Warn("mongo backend keeps admins and history in memory")
		return &stores{
			complaints: repository.NewMongoComplaintRepository(mg.Database),
			history:    repository.NewMemoryComplaintHistoryRepository(),
			admins:     repository.NewMemoryAdminRepository(),
			close:      func() { mg.Close(context.Background()) },
		}, nil

	default:
		logger.Warn("using in-memory complaint store; data is lost on restart")
		return &stores{
			complaints: repository.NewMemoryComplaintRepository(),
			history:    repository.NewMemoryComplaintHistoryRepository(),
			admins:     repository.NewMemoryAdminRepository(),
			close:      func() {},
		}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
