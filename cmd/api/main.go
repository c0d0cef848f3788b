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

	httptransport "github.com/spec-kit/dineware-service/internal/api/http"
	"github.com/spec-kit/dineware-service/internal/api/http/handlers"
	"github.com/spec-kit/dineware-service/internal/auth"
	"github.com/spec-kit/dineware-service/internal/config"
	"github.com/spec-kit/dineware-service/internal/events"
	"github.com/spec-kit/dineware-service/internal/observability"
	"github.com/spec-kit/dineware-service/internal/persistence"
	"github.com/spec-kit/dineware-service/internal/repository"
	"github.com/spec-kit/dineware-service/internal/service"
	"github.com/spec-kit/dineware-service/internal/worker"
)

// store holds the repositories of the selected backend and its shutdown hook.
type store struct {
	foods  repository.FoodRepository
	orders repository.OrderRepository
	pinger handlers.Pinger
	close  func()
}

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

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer st.close()

	dependencies := map[string]handlers.Pinger{cfg.Store.Driver: st.pinger}

	var revocations auth.RevocationStore = auth.NoopRevocationStore{}
	if cfg.Auth.RevocationEnabled {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		revocations = auth.NewRedisRevocationStore(redis.Client)
		dependencies["redis"] = redis
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartPurchaseWorker(service.NewPurchaseTracker(dispatcher, st.foods, logger))

	authService := service.NewAuthService(tokens, revocations)
	foodService := service.NewFoodService(st.foods)
	orderService := service.NewOrderService(st.orders, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService.Revocations())

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.IsProduction(),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:           handlers.NewAuthHandler(authService, auth.CookiePolicyFor(cfg.App.IsProduction())),
		Foods:          handlers.NewFoodsHandler(foodService),
		Orders:         handlers.NewOrdersHandler(orderService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		IssueLimiter:   httptransport.RateLimit(cfg.Auth.RateLimitPerSecond, cfg.Auth.RateLimitBurst),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &store{
			foods:  repository.NewPostgresFoodRepository(pg.PoolHandle()),
			orders: repository.NewPostgresOrderRepository(pg.PoolHandle()),
			pinger: pg,
			close:  pg.Close,
		}, nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &store{
			foods:  repository.NewMemoryFoodRepository(),
			orders: repository.NewMemoryOrderRepository(),
			pinger: alwaysReady{},
			close:  func() {},
		}, nil
	default:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			foods:  repository.NewMongoFoodRepository(mg.DB),
			orders: repository.NewMongoOrderRepository(mg.DB),
			pinger: mg,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mg.Close(closeCtx)
			},
		}, nil
	}
}

type alwaysReady struct{}

func (alwaysReady) Ping(context.Context) error { return nil }

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
