package worker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DirStore is a FileStore over the regular files of one directory.
type DirStore struct {
	dir string
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) DirStore {
	return DirStore{dir: dir}
}

// Expired lists regular files last modified before olderThan. A missing directory is empty.
func (s DirStore) Expired(ctx context.Context, olderThan time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return names, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		if info.ModTime().Before(olderThan) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Remove deletes name from the directory. Already missing files are not an error.
func (s DirStore) Remove(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload %s: %w", name, err)
	}
	return nil
}
