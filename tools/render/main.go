package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	diagramapp "sld-service/internal/diagram/application"
	diagram "sld-service/internal/diagram/domain"
	diagrammemory "sld-service/internal/diagram/infrastructure/memory"
	diagramrepo "sld-service/internal/diagram/infrastructure/postgres"
	"sld-service/internal/diagram/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type config struct {
	in               string
	out              string
	dsn              string
	boardID          string
	tenantID         string
	strict           bool
	workers          int
	enumerateConnect bool
}

type layoutPack struct {
	Board    *diagram.LayoutDocument   `json:"board"`
	Circuits []*diagram.LayoutDocument `json:"circuits"`
}

func main() {
	cfg := parseConfig()
	if cfg.out == "" {
		log.Fatal("-out is required")
	}
	if cfg.in == "" && cfg.boardID == "" {
		log.Fatal("one of -in or -board-id is required")
	}

	layoutCfg, err := diagramapp.LoadLayoutConfig()
	if err != nil {
		log.Fatalf("layout config: %v", err)
	}
	if cfg.enumerateConnect {
		layoutCfg.EnumerateConnections = true
	}
	generator, err := diagram.NewGenerator(layoutCfg)
	if err != nil {
		log.Fatalf("layout generator: %v", err)
	}

	ctx := context.Background()
	repo, boardID, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("load board: %v", err)
	}
	defer closeRepo()

	logger := log.New(os.Stderr, "render ", log.LstdFlags)
	service, err := diagramapp.NewService(repo, generator, cfg.tenantID, logger,
		diagramapp.WithStrictValidation(cfg.strict),
		diagramapp.WithBatchWorkers(cfg.workers),
	)
	if err != nil {
		log.Fatalf("diagram service: %v", err)
	}

	data, err := render(ctx, service, boardID, filepath.Ext(cfg.out))
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if err := os.WriteFile(cfg.out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", cfg.out, err)
	}
	log.Printf("wrote %s (%d bytes)", cfg.out, len(data))
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.in, "in", "", "board JSON file")
	flag.StringVar(&cfg.out, "out", "", "output file (.pdf, .xlsx or .json)")
	flag.StringVar(&cfg.dsn, "pg-dsn", envOrDefault("PG_DSN", envOrDefault("DATABASE_URL", "")), "Postgres DSN, used with -board-id")
	flag.StringVar(&cfg.boardID, "board-id", "", "stored board id to render")
	flag.StringVar(&cfg.tenantID, "tenant-id", envOrDefault("TENANT_ID", "tenant-demo"), "tenant owning the board")
	flag.BoolVar(&cfg.strict, "strict", envOrBool("DIAGRAM_STRICT_VALIDATION", false), "reject invalid circuit data")
	flag.IntVar(&cfg.workers, "workers", envOrInt("DIAGRAM_BATCH_WORKERS", 4), "circuits laid out concurrently")
	flag.BoolVar(&cfg.enumerateConnect, "connections", false, "emit every conductor in single-line layouts")
	flag.Parse()
	return cfg
}

// openRepository returns a repository holding the board to render and the board's id.
func openRepository(ctx context.Context, cfg config) (diagram.BoardRepository, string, func(), error) {
	if cfg.boardID != "" {
		if cfg.dsn == "" {
			return nil, "", nil, fmt.Errorf("-board-id needs -pg-dsn")
		}
		db, err := sql.Open("pgx", cfg.dsn)
		if err != nil {
			return nil, "", nil, err
		}
		return diagramrepo.NewBoardRepository(db), cfg.boardID, func() { _ = db.Close() }, nil
	}

	raw, err := os.ReadFile(cfg.in)
	if err != nil {
		return nil, "", nil, err
	}
	var board diagram.Board
	if err := json.Unmarshal(raw, &board); err != nil {
		return nil, "", nil, fmt.Errorf("decode %s: %w", cfg.in, err)
	}
	if board.ID == "" {
		board.ID = strings.TrimSuffix(filepath.Base(cfg.in), filepath.Ext(cfg.in))
	}
	if board.Name == "" {
		board.Name = board.ID
	}
	board.TenantID = cfg.tenantID
	repo := diagrammemory.NewBoardRepository()
	if err := repo.Save(ctx, &board); err != nil {
		return nil, "", nil, err
	}
	return repo, board.ID, func() {}, nil
}

func render(ctx context.Context, service *diagramapp.Service, boardID, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		_, docs, err := service.BoardPack(ctx, boardID)
		if err != nil {
			return nil, err
		}
		return interfaces.BuildLayoutPDF(docs...)
	case ".xlsx":
		board, err := service.GetBoard(ctx, boardID)
		if err != nil {
			return nil, err
		}
		return interfaces.BuildScheduleXLSX(board)
	case ".json":
		_, docs, err := service.BoardPack(ctx, boardID)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(layoutPack{Board: docs[0], Circuits: docs[1:]}, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
