package utils

import (
	"context"
	"os"
	"time"

	"github.com/plabs/showwall/repository"
)

// StartStagedUploadReaper launches a background goroutine that periodically
// removes files whose ledger rows never got finalized, i.e. the request died
// between the file write and the submission write. Best-effort: failures are
// logged and retried on the next tick.
func StartStagedUploadReaper(ledger repository.UploadLedger, interval, stagingTTL time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			if n, err := ReapStagedUploads(ledger, stagingTTL); err != nil {
				Sugar.Warnf("upload reaper query failed: %v", err)
			} else if n > 0 {
				Sugar.Infof("upload reaper removed %d orphaned files", n)
			}
		}
	}()
}

// ReapStagedUploads performs one reap pass: delete files and rows for pending
// uploads older than the staging TTL. Returns how many rows were removed.
func ReapStagedUploads(ledger repository.UploadLedger, stagingTTL time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-stagingTTL)
	rows, err := ledger.StalePending(ctx, cutoff, 100)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, row := range rows {
		if row.FilePath != "" {
			_ = os.Remove(row.FilePath)
		}
		// Remove row regardless of file deletion outcome
		if err := ledger.Remove(ctx, row.ID); err != nil {
			Sugar.Warnf("upload reaper delete row failed: %v", err)
			continue
		}
		removed++
	}
	return removed, nil
}
