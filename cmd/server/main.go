package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"permits/internal/db"
	"permits/internal/domain/audit"
	"permits/internal/domain/auth"
	"permits/internal/domain/notify"
	"permits/internal/domain/requests"
	"permits/internal/platform/config"
	"permits/internal/platform/email"
	"permits/internal/platform/jobs"
	"permits/internal/platform/metrics"
	audithandler "permits/internal/transport/http/handlers/audit"
	authhandler "permits/internal/transport/http/handlers/auth"
	exportshandler "permits/internal/transport/http/handlers/exports"
	requestshandler "permits/internal/transport/http/handlers/requests"
	"permits/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	jobsSvc := jobs.New()
	jobsSvc.Start(ctx)

	collector := metrics.New()
	auditSvc := audit.New(pool)
	userStore := auth.NewStore(pool)

	requestStore := requests.NewStore(pool)
	requestSvc := requests.NewService(requestStore)
	requestSvc.Notify = notify.New(email.New(cfg), userStore, jobsSvc, cfg.EmailFrom)

	jobsSvc.ScheduleEvery(ctx, jobs.JobRetention, cfg.RetentionInterval, func(ctx context.Context) (any, error) {
		purged, err := requestSvc.PurgeDecidedBefore(ctx, time.Now().Add(-cfg.RetentionAge))
		if err != nil {
			return nil, err
		}
		return map[string]int64{"purged": purged}, nil
	})

	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

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
		router.With(middleware.RequireRole(auth.RoleAdmin)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(userStore, auditSvc, cfg.JWTSecret, cfg.SSOVerifySecret(), cfg.TokenTTL, cfg.SessionTTL, isProd)
		authHandler.RegisterRoutes(r)

		requestsHandler := requestshandler.NewHandler(requestSvc, auditSvc, collector, cfg.PageSize)
		requestsHandler.RegisterRoutes(r)

		exportsHandler := exportshandler.NewHandler(requestSvc)
		exportsHandler.RegisterRoutes(r)

		auditHandler := audithandler.NewHandler(auditSvc)
		auditHandler.RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	log.Printf("permit server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
