package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/devinci/portal/internal/admin"
	"github.com/devinci/portal/internal/backend"
	"github.com/devinci/portal/internal/config"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/handler"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/repository"
	"github.com/devinci/portal/internal/repository/file"
	"github.com/devinci/portal/internal/repository/postgres"
	redisstore "github.com/devinci/portal/internal/repository/redis"
	"github.com/devinci/portal/internal/service"
	"github.com/devinci/portal/internal/session"
	"github.com/devinci/portal/internal/workspace"
)

// sessionSweepInterval задает, как часто из памяти вытесняются простаивающие
// сессии, а из PostgreSQL удаляются истекшие
const sessionSweepInterval = 10 * time.Minute

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	rdb    *redis.Client
	store  repository.SessionRepository
	pruner *postgres.SessionRepository
	server *http.Server
	logger *slog.Logger

	stopSweep context.CancelFunc
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаем хранилище сессий
	if err := a.connectStore(ctx); err != nil {
		return fmt.Errorf("failed to connect session store: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	if err := a.setupServer(); err != nil {
		return fmt.Errorf("failed to set up server: %w", err)
	}

	a.logger.Info("Application initialized successfully", "session_store", a.config.Storage.Driver)
	return nil
}

// connectStore выбирает хранилище сессий по SESSION_STORE
func (a *App) connectStore(ctx context.Context) error {
	switch a.config.Storage.Driver {
	case config.StorePostgres:
		if err := a.connectDB(ctx); err != nil {
			return err
		}
		store := postgres.NewSessionRepository(a.db)
		a.store = store
		a.pruner = store
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		a.rdb = rdb
		a.store = redisstore.NewSessionRepository(rdb)
		a.logger.Info("Connected to redis", "addr", a.config.Redis.Addr)
	default:
		a.store = file.NewSessionRepository(a.config.Storage.SessionFile)
		a.logger.Info("Using file session store", "path", a.config.Storage.SessionFile)
	}
	return nil
}

// connectDB применяет миграции и устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	dsn := a.config.Database.DSN()
	if err := postgres.Migrate(ctx, dsn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
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

// startSweeping периодически вытесняет простаивающие сессии из памяти
// и удаляет истекшие сессии из PostgreSQL
func (a *App) startSweeping(auth *service.AuthService) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopSweep = cancel

	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				auth.EvictIdle(now)
				a.pruneExpired(ctx)
			}
		}
	}()
}

func (a *App) pruneExpired(ctx context.Context) {
	if a.pruner == nil {
		return
	}
	n, err := a.pruner.DeleteExpired(ctx)
	if err != nil {
		a.logger.Warn("Failed to prune expired sessions", "error", err)
		return
	}
	if n > 0 {
		a.logger.Info("Pruned expired sessions", "count", n)
	}
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() error {
	// Клиент внешнего REST API
	client := backend.NewClient(a.config.Backend.BaseURL(), a.config.Backend.Timeout, a.logger)

	// Реестр сущностей админки: из YAML файла или из backend
	var registry *admin.Registry
	if path := a.config.Admin.RegistryPath; path != "" {
		loaded, err := admin.LoadRegistry(path)
		if err != nil {
			return fmt.Errorf("failed to load admin registry: %w", err)
		}
		registry = loaded
	}

	// Инициализируем слой сервисов
	sessions := session.NewManager(a.store, client, a.config.JWT.GetExpiration(), a.logger)
	authService := service.NewAuthService(sessions, a.config.JWT.Secret, a.config.JWT.GetExpiration(), a.logger)
	messages := service.NewMessageBoard(client)
	directory := service.NewDirectory(client)
	forum := service.NewForum(client)
	dashboard := service.NewDashboard(messages, forum, directory, a.logger)

	// Состояние страниц живет в рабочем пространстве сессии и сбрасывается
	// при выходе или вытеснении простаивающей сессии
	workspaces := workspace.NewRegistry(workspace.Deps{
		Messages:      messages,
		Directory:     directory,
		Cleaning:      client,
		Admin:         client,
		AdminPageSize: a.config.Admin.PageSize,
	})
	authService.OnSessionEnd(workspaces.Drop)
	a.startSweeping(authService)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	messagesHandler := handler.NewMessagesHandler(workspaces)
	userHandler := handler.NewUserHandler(directory)
	teamHandler := handler.NewTeamHandler(directory, workspaces)
	forumHandler := handler.NewForumHandler(forum)
	cleaningHandler := handler.NewCleaningHandler(workspaces)
	adminHandler := handler.NewAdminHandler(admin.NewBrowser(client, registry), workspaces)
	dashboardHandler := handler.NewDashboardHandler(dashboard)

	// Инициализируем middleware для авторизации по токену портала
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Публичные эндпоинты (без авторизации)
	r.Post("/auth/login", authHandler.Login)

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Защищенные эндпоинты (требуют токен портала в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)

		r.Get("/dashboard", dashboardHandler.GetDashboard)

		// Доска сообщений
		r.Mount("/messages", messagesHandler.Routes())

		// Люди и команды
		r.Get("/users", userHandler.ListUsers)
		r.Get("/updates", userHandler.ListUpdates)
		r.Post("/updates", userHandler.PostUpdate)
		r.Get("/teams", teamHandler.ListTeams)
		r.Mount("/teams/{team}/links", teamHandler.LinksRoutes())

		// Форум
		r.Route("/forum", func(r chi.Router) {
			r.Get("/ideas", forumHandler.ListIdeas)
			r.Post("/ideas", forumHandler.PostIdea)
			r.Get("/events", forumHandler.ListEvents)
			r.Post("/events", forumHandler.AddEvent)
			r.Get("/schedule", forumHandler.GetSchedule)
			r.Get("/settings", forumHandler.GetSettings)
		})

		// График дежурств
		r.Mount("/cleaning", cleaningHandler.Routes())

		// Админка доступна только администраторам
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Get("/entities", adminHandler.ListEntities)
			r.Mount("/{entity}", adminHandler.EntityRoutes())
		})
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr, "backend", a.config.Backend.BaseURL())
	return nil
}

// Handler возвращает корневой HTTP обработчик (используется в тестах)
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
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if a.stopSweep != nil {
		a.stopSweep()
	}

	// Закрываем подключения к хранилищам
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", "error", err)
		}
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
