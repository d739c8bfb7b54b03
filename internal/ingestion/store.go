package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store persists uploaded files under flat names.
type Store interface {
	// Create writes data under name and fails with ErrExists when the name is taken.
	Create(ctx context.Context, name, contentType string, data []byte) error
	// Size reports the stored size of name.
	Size(ctx context.Context, name string) (int64, error)
	// Location returns a human-readable location of name for logs.
	Location(name string) string
}

// LocalStore keeps uploads in a directory of an afero filesystem.
type LocalStore struct {
	fs  afero.Fs
	dir string
}

// NewLocalStore returns a store rooted at dir. The directory is created on the first write.
func NewLocalStore(fsys afero.Fs, dir string) *LocalStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if dir == "" {
		dir = "uploads"
	}
	return &LocalStore{fs: fsys, dir: dir}
}

func (s *LocalStore) Create(_ context.Context, name, _ string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory %q: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, name)
	file, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("open %q: %w", path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		_ = s.fs.Remove(path)
		return fmt.Errorf("write %q: %w", path, err)
	}

	if err := file.Close(); err != nil {
		_ = s.fs.Remove(path)
		return fmt.Errorf("close %q: %w", path, err)
	}

	return nil
}

func (s *LocalStore) Size(_ context.Context, name string) (int64, error) {
	info, err := s.fs.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *LocalStore) Location(name string) string {
	return filepath.Join(s.dir, name)
}
