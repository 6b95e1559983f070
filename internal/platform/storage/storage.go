// Package storage persists uploaded file bytes on local disk behind a small
// save-bytes-return-a-path contract.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"customercare/internal/platform/metrics"
)

// Upload is a file received from the HTTP layer. A nil Upload or one with no
// bytes is treated as "nothing submitted".
type Upload struct {
	Filename string
	Data     []byte
}

func (u *Upload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

// Stored describes a persisted file: the derived name and the full path.
type Stored struct {
	Name string
	Path string
}

type Disk struct {
	dir string
}

func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

// Save writes the bytes under a timestamp-prefixed variant of the suggested
// name so repeated uploads of the same filename never collide.
func (d *Disk) Save(suggestedName string, data []byte) (Stored, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("create storage dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeName(suggestedName))
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Stored{}, fmt.Errorf("write file %s: %w", path, err)
	}
	metrics.ObserveStoredFile()
	return Stored{Name: name, Path: path}, nil
}

// Delete removes a stored file. A path that is already gone is not an error.
func (d *Disk) Delete(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

// NewStaging starts a write set whose files are removed on Discard unless
// Keep was called. Callers stage every file written during a transaction and
// call Keep only after the transaction commits, so a rolled-back save leaves
// no orphaned files behind.
func (d *Disk) NewStaging() *Staging {
	return &Staging{disk: d}
}

type Staging struct {
	disk    *Disk
	written []string
	kept    bool
}

func (s *Staging) Save(suggestedName string, data []byte) (Stored, error) {
	stored, err := s.disk.Save(suggestedName, data)
	if err != nil {
		return Stored{}, err
	}
	s.written = append(s.written, stored.Path)
	return stored, nil
}

func (s *Staging) Keep() {
	s.kept = true
}

// Discard removes every staged file. Safe to defer unconditionally; it is a
// no-op after Keep.
func (s *Staging) Discard() {
	if s.kept {
		return
	}
	for _, path := range s.written {
		_ = s.disk.Delete(path)
	}
	s.written = nil
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
