// Package file stores a single document on the local filesystem with
// write-to-temp, fsync and rename so a reader never sees a partial write.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/rex/internal/db"
)

// Compile-time check: Document implements db.Document.
var _ db.Document = (*Document)(nil)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Document is a file-backed db.Document.
type Document struct {
	path string
}

// New creates the parent directory of path and returns a Document for it.
func New(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), dirPerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Document{path: clean}, nil
}

// Path returns the document location.
func (d *Document) Path() string { return d.path }

// Ping checks that the data directory is still reachable.
func (d *Document) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(d.path))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if !info.IsDir() {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("%s is not a directory", filepath.Dir(d.path))}
	}
	return nil
}

// Read returns the document bytes.
func (d *Document) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, db.ErrNoDocument
		}
		return nil, &db.Error{Op: db.OpRead, Err: err}
	}
	return data, nil
}

// Write atomically replaces the document with data.
func (d *Document) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &db.Error{Op: db.OpSync, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return &db.Error{Op: db.OpRename, Err: err}
	}
	committed = true

	syncDir(dir)
	return nil
}

// Backup copies the current document to <path>.bak.
func (d *Document) Backup(ctx context.Context) (string, error) {
	data, err := d.Read(ctx)
	if err != nil {
		return "", err
	}
	backup := &Document{path: d.path + ".bak"}
	if err := backup.Write(ctx, data); err != nil {
		return "", &db.Error{Op: db.OpBackup, Err: err}
	}
	return backup.path, nil
}

// syncDir flushes the rename to disk. Not every platform supports fsync on
// directories, so failures are ignored.
func syncDir(dir string) {
	f, err := os.Open(filepath.Clean(dir))
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}
