package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/aidar/courtmatch/internal/config"
	"github.com/aidar/courtmatch/internal/events"
	"github.com/aidar/courtmatch/internal/handler"
	"github.com/aidar/courtmatch/internal/metrics"
	"github.com/aidar/courtmatch/internal/middleware"
	"github.com/aidar/courtmatch/internal/migrations"
	"github.com/aidar/courtmatch/internal/repository/postgres"
	"github.com/aidar/courtmatch/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config    *config.Config
	db        *pgxpool.Pool
	redis     *redis.Client
	publisher events.Publisher
	registry  *prometheus.Registry
	server    *http.Server
	logger    *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	app := &App{
		config:    cfg,
		logger:    logger,
		publisher: events.Noop{},
		registry:  prometheus.NewRegistry(),
	}

	return app, nil
}

// newLogger создает slog логгер поверх charmbracelet/log в JSON формате
func newLogger(level string) (*slog.Logger, error) {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handler := charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Formatter:       charmlog.JSONFormatter,
		Level:           lvl,
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	if a.config.Database.RunMigrations {
		if err := migrations.Up(a.config.Database.DSN()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		a.logger.Info("Database migrations applied")
	}

	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := a.connectRedis(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// connectRedis подключает публикацию событий; без REDIS_URL события не публикуются
func (a *App) connectRedis(ctx context.Context) error {
	if a.config.Redis.URL == "" {
		a.logger.Info("Redis URL not set, events are not published")
		return nil
	}

	client, err := events.Connect(ctx, a.config.Redis.URL)
	if err != nil {
		return err
	}

	a.redis = client
	a.publisher = events.NewRedisPublisher(client, a.config.Redis.Channel)
	a.logger.Info("Connected to redis", "channel", a.config.Redis.Channel)
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

func (a *App) router() http.Handler {
	// Слой хранения и общие зависимости сервисов
	store := postgres.NewStore(a.db)
	deps := service.Deps{
		Store:     store,
		Publisher: a.publisher,
		Metrics:   metrics.NewService(a.registry),
		Logger:    a.logger,
	}

	// Инициализируем слой сервисов (бизнес-логика)
	balancer := service.NewTeamBalancer(a.config.Matchmaking.PowerModel(), a.config.Matchmaking.ScopeCap)
	sessionService := service.NewSessionService(deps)
	queueService := service.NewQueueService(deps)
	poolService := service.NewPoolService(deps, balancer)
	matchService := service.NewMatchService(deps)
	authService := service.NewAuthService(
		store.Roster(),
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	queueHandler := handler.NewQueueHandler(queueService)
	poolHandler := handler.NewPoolHandler(poolService)
	matchHandler := handler.NewMatchHandler(matchService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Публичные эндпоинты (без авторизации)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	// Health check для мониторинга
	r.Get("/health", a.health)
	r.Handle("/metrics", metrics.NewMetricsHandler(a.registry))

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		// Сессии и очередь
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/end", sessionHandler.EndSession)
			r.Post("/courts", sessionHandler.AssignCourt)
			r.Post("/queue", queueHandler.Enqueue)
			r.Get("/queue", queueHandler.ListQueue)
			r.Post("/pools", poolHandler.GeneratePool)
		})
		r.Delete("/queue-entries/{entryID}", queueHandler.Dequeue)

		// Пулы матчей
		r.Route("/pools/{poolID}", func(r chi.Router) {
			r.Get("/", poolHandler.GetPool)
			r.Post("/participants", poolHandler.AddParticipant)
			r.Post("/promote", matchHandler.PromotePool)
		})
		r.Delete("/pool-participants/{participantID}", poolHandler.RemoveParticipant)

		// Матчи
		r.Post("/matches", matchHandler.CreateMatch)
		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.Post("/finish", matchHandler.FinishMatch)
			r.Post("/cancel", matchHandler.CancelMatch)
		})
	})

	return r
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Ping(r.Context()); err != nil {
		a.logger.Error("Health check failed", "error", err)
		handler.RespondWithError(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "database unavailable")
		return
	}
	handler.RespondWithJSON(w, r, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

// Handler возвращает корневой HTTP обработчик после Initialize
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
