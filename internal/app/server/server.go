package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkin/internal/domain/audit"
	"checkin/internal/domain/auth"
	"checkin/internal/domain/checkin"
	"checkin/internal/platform/config"
	"checkin/internal/platform/db"
	"checkin/internal/platform/metrics"
	"checkin/internal/transport/http/api"
	audithandler "checkin/internal/transport/http/handlers/audit"
	authhandler "checkin/internal/transport/http/handlers/auth"
	checkinhandler "checkin/internal/transport/http/handlers/checkin"
	"checkin/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// New connects to the database, applies migrations and seed data when
// enabled, and builds the HTTP router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	app := &App{Config: cfg, DB: pool, Metrics: collector}
	app.Router = app.routes()
	return app, nil
}

func (a *App) routes() http.Handler {
	perms := auth.StaticPermissions{}
	auditSvc := audit.New(a.DB)
	authSvc := auth.NewService(auth.NewStore(a.DB), a.Config.JWTSecret, a.Config.TokenTTL)
	checkinSvc := checkin.NewService(checkin.NewStore(a.DB))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	router.Use(middleware.Logger(a.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	router.Use(middleware.Auth(a.Config.JWTSecret))
	router.Use(middleware.SensitiveMutationRateLimit(a.Config.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authSvc)
		r.Post("/auth/login", authHandler.HandleLogin)

		checkinHandler := checkinhandler.NewHandler(checkinSvc, perms, auditSvc, middleware.NewIdempotencyStore(a.DB))
		checkinHandler.RegisterRoutes(r)

		auditHandler := audithandler.NewHandler(auditSvc, perms)
		auditHandler.RegisterRoutes(r)
	})

	return router
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("check-in server listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
