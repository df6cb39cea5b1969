// Package snapshot persists rendered HTML, one object per scenario step,
// to a local directory or an S3 bucket.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vango-dev/reconcile/internal/errors"
)

// Store persists snapshots under slash-separated names.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
}

// Name builds the object name for step i of a scenario:
// "<scenario>/<NN>-<step>.html".
func Name(scenario string, i int, step string) string {
	return path.Join(clean(scenario), fmt.Sprintf("%02d-%s.html", i+1, clean(step)))
}

// clean keeps names to a single path segment.
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, s)
	s = strings.Trim(s, ".-")
	if s == "" {
		return "unnamed"
	}
	return s
}

// FileStore writes snapshots below a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E302").WithDetail("Cannot create " + dir).Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Put writes data to dir/name, creating parent directories.
func (s *FileStore) Put(_ context.Context, name string, data []byte) error {
	p := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.New("E302").WithDetail("Cannot create " + filepath.Dir(p)).Wrap(err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return errors.New("E302").WithDetail("Cannot write " + p).Wrap(err)
	}
	return nil
}

// Open returns the store for target: "s3://bucket/prefix" selects S3 in the
// given region, anything else is a local directory.
func Open(target, region string) (Store, error) {
	if bucket, prefix, ok := ParseS3URL(target); ok {
		return NewS3Store(NewS3Client(region), bucket, prefix), nil
	}
	return NewFileStore(target)
}
