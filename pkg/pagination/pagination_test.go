package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(30); got != 30 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(30); got != 31 {
		t.Fatalf("expected buffered limit, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.UTC)
	id := uuid.New()

	encoded := EncodeCursor(Cursor{CreatedAt: created, ID: id})
	decoded, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if decoded == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !decoded.CreatedAt.Equal(created) {
		t.Fatalf("expected %v, got %v", created, decoded.CreatedAt)
	}
	if decoded.ID != id {
		t.Fatalf("expected %s, got %s", id, decoded.ID)
	}
}

func TestParseCursorEdgeCases(t *testing.T) {
	if cur, err := ParseCursor("  "); err != nil || cur != nil {
		t.Fatalf("blank cursor should be nil/nil, got %v %v", cur, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseCursor("bm8tcGlwZQ=="); err == nil {
		t.Fatal("expected error for missing separator")
	}
}
