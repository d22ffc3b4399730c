package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	gen := NewUUIDGenerator("")
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}
	second, _ := gen.NewID()
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestUUIDGenerator_Prefix(t *testing.T) {
	got, err := NewUUIDGenerator("game").NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if !strings.HasPrefix(got, "game-") {
		t.Fatalf("expected game- prefix, got %q", got)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(got, "game-")); err != nil {
		t.Fatalf("expected uuid after prefix: %v", err)
	}
}
