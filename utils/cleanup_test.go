package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/plabs/showwall/config"
	"github.com/plabs/showwall/repository"
)

func TestReapStagedUploads(t *testing.T) {
	if Sugar == nil {
		_ = InitLogger(config.AppConfig{LogLevel: "error"})
	}
	dir := t.TempDir()
	ledger := repository.NewMemoryUploadLedger()
	ctx := context.Background()

	orphanPath := filepath.Join(dir, "orphan.png")
	keptPath := filepath.Join(dir, "kept.png")
	for _, p := range []string{orphanPath, keptPath} {
		if err := os.WriteFile(p, []byte("img"), 0o644); err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}

	if _, err := ledger.Record(ctx, orphanPath, "http://x/uploads/orphan.png"); err != nil {
		t.Fatalf("record: %v", err)
	}
	keptID, _ := ledger.Record(ctx, keptPath, "http://x/uploads/kept.png")
	if err := ledger.Finalize(ctx, []uint{keptID}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// TTL zero: everything pending is already stale.
	removed, err := ReapStagedUploads(ledger, 0)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed: got %d want 1", removed)
	}
	if _, err := os.Stat(orphanPath); !os.IsNotExist(err) {
		t.Error("orphaned file still on disk")
	}
	if _, err := os.Stat(keptPath); err != nil {
		t.Error("finalized file was deleted")
	}
	if got := ledger.Pending(); got != 0 {
		t.Errorf("pending rows left: %d", got)
	}
}
