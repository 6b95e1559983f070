package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"customercare/internal/auth"
	"customercare/internal/domain/customer"
	"customercare/internal/domain/employee"
	"customercare/internal/domain/position"
	"customercare/internal/domain/role"
	"customercare/internal/domain/ticket"
	"customercare/internal/platform/config"
	"customercare/internal/platform/db"
	"customercare/internal/platform/logger"
	"customercare/internal/platform/storage"
	authhandler "customercare/internal/transport/http/handlers/auth"
	customerhandler "customercare/internal/transport/http/handlers/customer"
	employeehandler "customercare/internal/transport/http/handlers/employee"
	positionhandler "customercare/internal/transport/http/handlers/position"
	reportshandler "customercare/internal/transport/http/handlers/reports"
	rolehandler "customercare/internal/transport/http/handlers/role"
	tickethandler "customercare/internal/transport/http/handlers/ticket"
	"customercare/internal/transport/http/middleware"
)

func Run() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	photoDisk := storage.NewDisk(cfg.UploadDir)
	ticketDisk := storage.NewDisk(cfg.TicketFilesDir)

	roleService := role.NewService(role.NewStore(pool))
	positionService := position.NewService(position.NewStore(pool))
	employeeService := employee.NewService(employee.NewStore(pool), photoDisk)
	customerService := customer.NewService(customer.NewStore(pool))
	ticketService := ticket.NewService(ticket.NewStore(pool), ticketDisk)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.Auth(cfg.JWTSecret))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics)
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			employeehandler.NewHandler(employeeService, cfg.MaxUploadBytes).RegisterRoutes(r)
			positionhandler.NewHandler(positionService).RegisterRoutes(r)
			rolehandler.NewHandler(roleService).RegisterRoutes(r)
			customerhandler.NewHandler(customerService).RegisterRoutes(r)
			tickethandler.NewHandler(ticketService, cfg.MaxUploadBytes).RegisterRoutes(r)
			reportshandler.NewHandler(employeeService, ticketService).RegisterRoutes(r)
		})
	})

	log.Info("customer care server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}
