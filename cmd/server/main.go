package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/db"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	httpRouter "github.com/ignatzorin/gig-marketplace/internal/http/router"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/persistence"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/service"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/hire"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к хранилищу: %v", err)
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Log.Fatalf("main: redis недоступен: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Log.Warnf("main: ошибка закрытия redis: %v", err)
			}
		}()
	}

	authLimitStore, err := middleware.NewRateLimitStore(redisClient, "gig-marketplace:limit:auth")
	if err != nil {
		logger.Log.Fatalf("main: не удалось создать хранилище лимитов: %v", err)
	}
	bidLimitStore, err := middleware.NewRateLimitStore(redisClient, "gig-marketplace:limit:bids")
	if err != nil {
		logger.Log.Fatalf("main: не удалось создать хранилище лимитов: %v", err)
	}

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(store.Users(), tokenManager)
	openGigsCache := service.NewCacheService(ctx, cfg.OpenGigsCacheTTL)

	// HTTP хэндлеры.
	gigHandler := handler.NewGigHandler(
		gig.NewCreateGigUseCase(store.Gigs(), openGigsCache),
		gig.NewGetGigUseCase(store.Gigs()),
		gig.NewListOpenGigsUseCase(store.Gigs(), openGigsCache),
		gig.NewListMyGigsUseCase(store.Gigs()),
	)
	bidHandler := handler.NewBidHandler(
		bid.NewSubmitBidUseCase(store),
		bid.NewListBidsForGigUseCase(store.Gigs(), store.Bids()),
		bid.NewListBidsForFreelancerUseCase(store.Bids()),
		hire.NewHireUseCase(store, cfg.HireTimeout, openGigsCache),
	)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Deps{
		AuthHandler:    handler.NewAuthHandler(authService, cfg.CookieSecure),
		GigHandler:     gigHandler,
		BidHandler:     bidHandler,
		HealthHandler:  handler.NewHealthHandler(store),
		Authenticator:  authService,
		AuthLimitStore: authLimitStore,
		BidLimitStore:  bidLimitStore,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.Infof("main: HTTP сервер запущен на порту %s (хранилище: %s)", cfg.HTTPPort, cfg.StorageDriver)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// openStore открывает выбранное хранилище и возвращает функцию его закрытия.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Log.Warn("main: используется хранилище в памяти, данные не переживут перезапуск")
		return memory.New(), func() {}, nil
	}

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	closeConn := func() {
		if err := conn.Close(); err != nil {
			logger.Log.Errorf("main: ошибка закрытия базы: %v", err)
		}
	}

	if err := db.RunMigrations(ctx, conn); err != nil {
		closeConn()
		return nil, nil, err
	}

	return persistence.NewStore(conn), closeConn, nil
}
