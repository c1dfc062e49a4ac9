package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/rex/internal/domain"
	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

func TestNew_Normalizes(t *testing.T) {
	r, err := New("  Italian food ", " u1 ", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "Italian food" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.UserID() != "u1" {
		t.Errorf("UserID() = %q", r.UserID())
	}
	if r.Mode() != mode.Assisted {
		t.Errorf("Mode() = %q, want assisted", r.Mode())
	}
	if r.MatchAll() {
		t.Error("MatchAll() = true for non-blank query")
	}
}

func TestNew_BlankQueryMatchesAll(t *testing.T) {
	r, err := New("   ", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.MatchAll() {
		t.Error("expected blank query to match all")
	}
	if r.Mode() != mode.Naive {
		t.Errorf("Mode() = %q, want naive", r.Mode())
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxQueryLength+1), "", false)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if _, err := New(strings.Repeat("é", MaxQueryLength), "", false); err != nil {
		t.Errorf("expected a query of exactly %d runes to pass, got %v", MaxQueryLength, err)
	}
}
