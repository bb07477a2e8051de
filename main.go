package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"sld-service/internal/audit"
	"sld-service/internal/auth"
	diagramapp "sld-service/internal/diagram/application"
	diagram "sld-service/internal/diagram/domain"
	diagrammemory "sld-service/internal/diagram/infrastructure/memory"
	diagramrepo "sld-service/internal/diagram/infrastructure/postgres"
	diagramhttp "sld-service/internal/diagram/interfaces/http"
	"sld-service/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	layoutCfg, err := diagramapp.LoadLayoutConfig()
	if err != nil {
		logger.Fatalf("layout config error: %v", err)
	}
	generator, err := diagram.NewGenerator(layoutCfg)
	if err != nil {
		logger.Fatalf("layout generator error: %v", err)
	}

	var (
		db          *sql.DB
		boardRepo   diagram.BoardRepository
		auditLogger audit.Logger
	)
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		boardRepo = diagramrepo.NewBoardRepository(db)
		auditLogger = audit.NewRepository(db)
	} else {
		logger.Printf("DATABASE_URL not set; boards and audit entries are kept in memory")
		boardRepo = diagrammemory.NewBoardRepository()
		auditLogger = audit.NewMemoryLogger()
	}

	metrics.Init(db, logger)

	diagramService, err := diagramapp.NewService(boardRepo, generator, cfg.TenantID, logger,
		diagramapp.WithStrictValidation(cfg.StrictValidation),
		diagramapp.WithBatchWorkers(cfg.BatchWorkers),
	)
	if err != nil {
		logger.Fatalf("diagram service error: %v", err)
	}
	diagramHandler, err := diagramhttp.NewHandler(diagramService, auditLogger, logger)
	if err != nil {
		logger.Fatalf("diagram handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/diagrams/", diagramHandler)
	mux.Handle("/api/v1/boards", diagramHandler)
	mux.Handle("/api/v1/boards/", diagramHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL      string
	HTTPAddr         string
	TenantID         string
	JWTSecret        string
	StrictValidation bool
	BatchWorkers     int
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		TenantID:         getenvDefault("TENANT_ID", "tenant-demo"),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		StrictValidation: getenvBoolDefault("DIAGRAM_STRICT_VALIDATION", false),
		BatchWorkers:     getenvIntDefault("DIAGRAM_BATCH_WORKERS", 4),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
