package db

import (
	"context"
	"time"
)

// Pinger checks backend availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations with expiry.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is the key-value facade used for the keyword cache backends.
type Cache interface {
	Pinger
	KVStore
	Close()
}

// Document is a single structured document read and replaced as one atomic unit.
type Document interface {
	Pinger
	// Read returns the current document bytes or ErrNoDocument when none was written yet.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the document. Readers observe either the old or the new bytes.
	Write(ctx context.Context, data []byte) error
	// Backup copies the current bytes aside and returns the backup location.
	Backup(ctx context.Context) (string, error)
}
