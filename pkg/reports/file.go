package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type fileStore struct {
	dir string
}

// NewFileStore writes reports under dir. The directory is created on first use.
func NewFileStore(dir string) *fileStore {
	return &fileStore{dir: dir}
}

func (f *fileStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	location := filepath.Join(f.dir, filepath.Base(name))
	if err := os.WriteFile(location, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", location, err)
	}
	return location, nil
}

func (f *fileStore) Get(ctx context.Context, location string) (io.ReadCloser, error) {
	file, err := os.Open(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return file, nil
}

func (f *fileStore) Type() string {
	return "file"
}
