package rex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/rex/internal/db"
)

// memDocument implements the document consumer interface in memory.
type memDocument struct {
	mu       sync.Mutex
	data     []byte
	exists   bool
	backups  [][]byte
	writes   int
	writeErr error
	readErr  error
}

func (m *memDocument) Ping(_ context.Context) error { return nil }

func (m *memDocument) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if !m.exists {
		return nil, db.ErrNoDocument
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memDocument) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data = append([]byte(nil), data...)
	m.exists = true
	m.writes++
	return nil
}

func (m *memDocument) Backup(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups = append(m.backups, append([]byte(nil), m.data...))
	return "mem.bak", nil
}

func (m *memDocument) failWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *memDocument) snapshot() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

var errDiskFull = errors.New("disk full")

// sequentialIDs returns a generator producing id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}
