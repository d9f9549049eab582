package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mohit83k/bngclients/internal/tabular"
	"github.com/mohit83k/bngclients/internal/validate"
)

// RejectSink stores the raw invalid rows of an upload for later retrieval.
type RejectSink interface {
	WriteRejects(rows []validate.RowError, at time.Time) (name string, err error)
}

// DirSink writes reject files into a directory.
type DirSink struct {
	Dir string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

// WriteRejects writes rows tab-delimited, in upload layout, and returns the file's base name.
func (s *DirSink) WriteRejects(rows []validate.RowError, at time.Time) (string, error) {
	name := fmt.Sprintf("invalid_data_%d_%s.csv", at.Unix(), uuid.NewString()[:8])
	path := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}

	raw := make([][]string, len(rows))
	for i, r := range rows {
		raw[i] = r.Raw
	}
	if err := tabular.WriteRows(f, raw); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Open resolves a reject file by base name. Names that try to leave Dir are refused.
func (s *DirSink) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.Dir, name))
}
