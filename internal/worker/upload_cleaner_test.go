package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

type fileStoreStub struct {
	sync.Mutex
	files     map[string]time.Time
	listErr   error
	removeErr map[string]error
	cutoffs   []time.Time
}

func (s *fileStoreStub) Expired(_ context.Context, olderThan time.Time) ([]string, error) {
	s.Lock()
	defer s.Unlock()
	s.cutoffs = append(s.cutoffs, olderThan)
	if s.listErr != nil {
		return nil, s.listErr
	}
	var names []string
	for name, mod := range s.files {
		if mod.Before(olderThan) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *fileStoreStub) Remove(_ context.Context, name string) error {
	s.Lock()
	defer s.Unlock()
	if err := s.removeErr[name]; err != nil {
		return err
	}
	delete(s.files, name)
	return nil
}

func (s *fileStoreStub) remaining() int {
	s.Lock()
	defer s.Unlock()
	return len(s.files)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewUploadCleanerDefaults(t *testing.T) {
	cleaner := NewUploadCleaner(&fileStoreStub{}, time.Second, time.Hour, 0, discardLogger())
	if cleaner.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", cleaner.workers)
	}
}

func TestUploadCleanerRemovesExpiredFiles(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &fileStoreStub{files: map[string]time.Time{
		"old-a.png": now.Add(-48 * time.Hour),
		"old-b.png": now.Add(-25 * time.Hour),
		"fresh.png": now.Add(-time.Minute),
	}}
	cleaner := NewUploadCleaner(store, 5*time.Millisecond, 24*time.Hour, 2, discardLogger())
	cleaner.now = func() time.Time { return now }

	cleaner.Start(context.Background())
	waitFor(t, func() bool { return cleaner.Removed() >= 2 })
	cleaner.Stop()

	if store.remaining() != 1 {
		t.Fatalf("expected only the fresh file to remain, got %d files", store.remaining())
	}
	if _, ok := store.files["fresh.png"]; !ok {
		t.Fatal("fresh file must not be removed")
	}
	store.Lock()
	defer store.Unlock()
	if !store.cutoffs[0].Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected cutoff %v", store.cutoffs[0])
	}
}

func TestUploadCleanerKeepsRunningAfterErrors(t *testing.T) {
	now := time.Now()
	store := &fileStoreStub{
		files:     map[string]time.Time{"locked.tmp": now.Add(-time.Hour), "stale.tmp": now.Add(-time.Hour)},
		removeErr: map[string]error{"locked.tmp": errors.New("permission denied")},
	}
	cleaner := NewUploadCleaner(store, 5*time.Millisecond, time.Minute, 1, discardLogger())

	cleaner.Start(context.Background())
	waitFor(t, func() bool { return cleaner.Removed() >= 1 })
	cleaner.Stop()

	if store.remaining() != 1 {
		t.Fatalf("expected locked file to remain, got %d files", store.remaining())
	}
}

func TestUploadCleanerListFailure(t *testing.T) {
	store := &fileStoreStub{listErr: errors.New("io error")}
	cleaner := NewUploadCleaner(store, 5*time.Millisecond, time.Minute, 1, discardLogger())

	cleaner.Start(context.Background())
	waitFor(t, func() bool {
		store.Lock()
		defer store.Unlock()
		return len(store.cutoffs) >= 2
	})
	cleaner.Stop()

	if cleaner.Removed() != 0 {
		t.Fatalf("expected nothing removed, got %d", cleaner.Removed())
	}
}

func TestUploadCleanerStopWithoutStart(t *testing.T) {
	cleaner := NewUploadCleaner(&fileStoreStub{}, time.Second, time.Hour, 1, discardLogger())
	done := make(chan struct{})
	go func() {
		cleaner.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop must not block when the cleaner never started")
	}
}

func TestDirStoreExpiredAndRemove(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.jpg")
	fresh := filepath.Join(dir, "fresh.jpg")
	for _, path := range []string{old, fresh} {
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(filepath.Join(dir, "nested"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	store := NewDirStore(dir)
	names, err := store.Expired(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("expired: %v", err)
	}
	if len(names) != 1 || names[0] != "old.jpg" {
		t.Fatalf("expected only old.jpg, got %v", names)
	}

	if err := store.Remove(context.Background(), "old.jpg"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, got %v", err)
	}
	if err := store.Remove(context.Background(), "old.jpg"); err != nil {
		t.Fatalf("removing a missing file must succeed, got %v", err)
	}
}

func TestDirStoreRemoveStaysInsideDir(t *testing.T) {
	root := t.TempDir()
	uploads := filepath.Join(root, "uploads")
	if err := os.Mkdir(uploads, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	outside := filepath.Join(root, "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := NewDirStore(uploads).Remove(context.Background(), "../keep.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the directory must survive: %v", err)
	}
}

func TestDirStoreMissingDirectory(t *testing.T) {
	names, err := NewDirStore(filepath.Join(t.TempDir(), "absent")).Expired(context.Background(), time.Now())
	if err != nil || len(names) != 0 {
		t.Fatalf("expected empty result for missing dir, got %v %v", names, err)
	}
}
