package audit

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMemoryLogger_FillsDefaults(t *testing.T) {
	logger := NewMemoryLogger()
	meta := json.RawMessage(`{"format":"pdf"}`)
	if err := logger.Log(context.Background(), Entry{TenantID: "tenant-a", Action: "board.export", Metadata: meta}); err != nil {
		t.Fatalf("log: %v", err)
	}
	entries := logger.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if !strings.HasPrefix(entry.ID, "audit-") {
		t.Fatalf("unexpected id %q", entry.ID)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("expected created_at")
	}
	if entry.PayloadDigest != DigestJSON(meta) {
		t.Fatalf("unexpected digest %q", entry.PayloadDigest)
	}
}

func TestDigestJSON_Empty(t *testing.T) {
	if DigestJSON(nil) != "" {
		t.Fatalf("expected empty digest")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Fatalf("expected forwarded ip, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:4567"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Fatalf("expected remote ip, got %q", got)
	}
}
