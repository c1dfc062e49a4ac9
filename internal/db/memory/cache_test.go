package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/rex/internal/db"
)

func TestCache_SetGet(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.SetWithTTL(ctx, "k", []byte("pizza,italian"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	c.Wait()

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "pizza,italian" {
		t.Errorf("Get = %q", got)
	}

	got[0] = 'X'
	again, _ := c.Get(ctx, "k")
	if string(again) != "pizza,italian" {
		t.Error("Get must return a copy")
	}
}

func TestCache_Miss(t *testing.T) {
	c, err := New(1 << 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.Get(context.Background(), "absent"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
