package offsets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRepositoryLoadMissing(t *testing.T) {
	repo := NewFileRepository(t.TempDir())

	state, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if !state.IsEmpty() {
		t.Errorf("Load() on missing file = %+v, want empty state", state)
	}
}

func TestFileRepositorySaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	repo := NewFileRepository(dir)
	ctx := context.Background()

	var state State
	state.Advance("orders", 0, 41)
	state.Advance("orders", 3, 7)
	state.LastCommitAt = time.Now().UTC().Truncate(time.Second)

	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if off, ok := loaded.Lookup("orders", 0); !ok || off != 41 {
		t.Errorf("Lookup(orders, 0) = (%d, %v), want (41, true)", off, ok)
	}
	if off, ok := loaded.Lookup("orders", 3); !ok || off != 7 {
		t.Errorf("Lookup(orders, 3) = (%d, %v), want (7, true)", off, ok)
	}
	if !loaded.LastCommitAt.Equal(state.LastCommitAt) {
		t.Errorf("LastCommitAt = %v, want %v", loaded.LastCommitAt, state.LastCommitAt)
	}
}

func TestFileRepositorySaveOverwrites(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	var first State
	first.Advance("orders", 0, 1)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}

	var second State
	second.Advance("orders", 0, 2)
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if off, _ := loaded.Lookup("orders", 0); off != 2 {
		t.Errorf("offset = %d after overwrite, want 2", off)
	}

	// no temp file left behind
	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present after Save: %v", err)
	}
}

func TestFileRepositoryLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(dir)

	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("Load() on corrupt file should fail")
	}
}
