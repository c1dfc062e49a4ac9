package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrNoDocument  = errors.New("db: document does not exist")
)

// Op constants name backend operations for error context.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpPing   = "PING"
	OpRead   = "READ"
	OpWrite  = "WRITE"
	OpRename = "RENAME"
	OpSync   = "FSYNC"
	OpBackup = "BACKUP"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
