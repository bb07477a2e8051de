package integration_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/jackc/pgx/v5/stdlib"

	"sld-service/internal/audit"
	"sld-service/internal/auth"
	diagramapp "sld-service/internal/diagram/application"
	diagram "sld-service/internal/diagram/domain"
	diagramrepo "sld-service/internal/diagram/infrastructure/postgres"
	diagramhttp "sld-service/internal/diagram/interfaces/http"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := applyMigrations(db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestBoardRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := diagramrepo.NewBoardRepository(db)

	boardID := "board-it-roundtrip"
	_, _ = db.ExecContext(ctx, "DELETE FROM boards WHERE id = $1", boardID)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	board := &diagram.Board{
		ID:               boardID,
		TenantID:         "tenant-it",
		Name:             "Integration",
		MainSwitchRating: 63,
		Author:           "ci",
		CreatedAt:        created,
		UpdatedAt:        created,
		Circuits: []diagram.CircuitData{
			{
				CircuitNumber:    3,
				Name:             "Immersion",
				Voltage:          230,
				CableLength:      8,
				CableSize:        2.5,
				CPCSize:          1.5,
				LoadType:         "immersion",
				LoadPower:        3000,
				ProtectionDevice: diagram.ProtectionDevice{Type: "RCBO", Rating: 16, Curve: "B", KaRating: 6},
				RCDProtected:     true,
				RCDRating:        diagram.RCDmA(30),
				RCDType:          "AC",
				Ze:               0.28,
			},
			{
				CircuitNumber:    1,
				Name:             "Lights",
				Voltage:          230,
				CableLength:      14,
				CableSize:        1.5,
				CPCSize:          1,
				LoadType:         "lighting",
				ProtectionDevice: diagram.ProtectionDevice{Type: "MCB", Rating: 6, KaRating: 6},
				RCDProtected:     true,
				Ze:               0.28,
			},
		},
	}
	if err := repo.Save(ctx, board); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Get(ctx, boardID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded == nil {
		t.Fatalf("board not found")
	}
	if diff := cmp.Diff(board, loaded, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
		t.Fatalf("round trip differs (-saved +loaded):\n%s", diff)
	}

	board.Circuits = board.Circuits[:1]
	if err := repo.Save(ctx, board); err != nil {
		t.Fatalf("resave: %v", err)
	}
	loaded, err = repo.Get(ctx, boardID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Circuits) != 1 {
		t.Fatalf("expected circuits replaced, got %d", len(loaded.Circuits))
	}

	list, err := repo.List(ctx, "tenant-it")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, b := range list {
		if b.ID == boardID {
			found = true
		}
	}
	if !found {
		t.Fatalf("board missing from tenant list")
	}
	count, err := repo.CountBoards(ctx)
	if err != nil || count < 1 {
		t.Fatalf("count boards: %d %v", count, err)
	}

	missing, err := repo.Get(ctx, "board-it-missing")
	if err != nil || missing != nil {
		t.Fatalf("expected nil board, got %+v %v", missing, err)
	}
}

func TestCrossTenantBoardForbidden(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := diagramrepo.NewBoardRepository(db)

	boardID := "board-it-tenant-a"
	_, _ = db.ExecContext(ctx, "DELETE FROM boards WHERE id = $1", boardID)
	if err := repo.Save(ctx, &diagram.Board{ID: boardID, TenantID: "tenant-a", Name: "A"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	service, err := diagramapp.NewService(repo, diagram.DefaultGenerator(), "tenant-demo", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := diagramhttp.NewHandler(service, audit.NewRepository(db), nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/api/v1/boards/", handler)

	secret := []byte("test-secret")
	mw := auth.NewMiddleware(secret, auth.NewDefaultPolicy(nil, nil))
	server := httptest.NewServer(mw.Wrap(mux))
	defer server.Close()

	for tenant, want := range map[string]int{"tenant-b": http.StatusForbidden, "tenant-a": http.StatusOK} {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/boards/"+boardID+"/diagram", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+mustToken(t, secret, tenant, "viewer"))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", tenant, want, resp.StatusCode)
		}
	}
}

func applyMigrations(db *sql.DB) error {
	content, err := os.ReadFile(filepath.Join(projectRoot(), "migrations", "001_boards.sql"))
	if err != nil {
		return err
	}
	_, err = db.Exec(string(content))
	return err
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(filepath.Join(dir, "..", "..", ".."))
}

func mustToken(t *testing.T, secret []byte, tenantID, role string) string {
	t.Helper()
	claims := auth.Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
