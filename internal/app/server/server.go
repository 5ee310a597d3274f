package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/attendance"
	"payday/internal/domain/employee"
	"payday/internal/platform/config"
	"payday/internal/platform/db"
	"payday/internal/platform/metrics"
	attendancehandler "payday/internal/transport/http/handlers/attendance"
	audithandler "payday/internal/transport/http/handlers/audit"
	authhandler "payday/internal/transport/http/handlers/auth"
	employeehandler "payday/internal/transport/http/handlers/employee"
	payrollhandler "payday/internal/transport/http/handlers/payroll"
	reportshandler "payday/internal/transport/http/handlers/reports"
	settingshandler "payday/internal/transport/http/handlers/settings"
	"payday/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// New connects to the database and assembles the router. Tests drive
// the returned App's Router directly; Run serves it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
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

	app := &App{Config: cfg, DB: pool, Metrics: metrics.New()}
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) buildRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Device-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	router.Use(middleware.Auth(a.Config.JWTSecret))

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

	router.Route("/api/v1", func(r chi.Router) {
		if a.Config.MetricsEnabled {
			r.With(middleware.RequireAdmin).Get("/metrics", a.handleMetrics)
		}

		authHandler := authhandler.NewHandler(a.DB, a.Config.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)

		attendanceService := attendance.NewService(attendance.NewStore(a.DB), employee.NewStore(a.DB))
		attendanceHandler := attendancehandler.NewHandler(a.DB, attendanceService)
		attendanceHandler.RegisterRoutes(r)
		attendanceHandler.RegisterDeviceRoutes(r, a.Config.DeviceKey)

		audithandler.NewHandler(a.DB).RegisterRoutes(r)
		employeehandler.NewHandler(a.DB).RegisterRoutes(r)
		settingshandler.NewHandler(a.DB).RegisterRoutes(r)
		payrollhandler.NewHandler(a.DB).RegisterRoutes(r)
		reportshandler.NewHandler(a.DB).RegisterRoutes(r)
	})

	return router
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.Metrics.Snapshot())
}

func Run() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.DB.Close()

	log.Printf("payday server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
