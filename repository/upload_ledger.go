package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/plabs/showwall/models"
)

// UploadLedger tracks files written to disk before their submission is
// persisted. Rows left pending (request failed mid-flight) are the orphans
// the reaper cleans up.
type UploadLedger interface {
	// Record registers a freshly stored file as pending and returns its row id.
	Record(ctx context.Context, filePath, url string) (uint, error)
	// Finalize marks rows as owned by a persisted submission.
	Finalize(ctx context.Context, ids []uint) error
	// StalePending returns pending rows created before the cutoff.
	StalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.StagedUpload, error)
	// Remove deletes a ledger row.
	Remove(ctx context.Context, id uint) error
}

type gormUploadLedger struct {
	db *gorm.DB
}

// NewUploadLedger returns a gorm-backed UploadLedger.
func NewUploadLedger(db *gorm.DB) UploadLedger {
	return &gormUploadLedger{db: db}
}

func (l *gormUploadLedger) Record(ctx context.Context, filePath, url string) (uint, error) {
	row := models.StagedUpload{FilePath: filePath, URL: url}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (l *gormUploadLedger) Finalize(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Model(&models.StagedUpload{}).
		Where("id IN ?", ids).Update("finalized", true).Error
}

func (l *gormUploadLedger) StalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.StagedUpload, error) {
	var rows []models.StagedUpload
	err := l.db.WithContext(ctx).
		Where("finalized = ? AND created_at <= ?", false, cutoff).
		Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *gormUploadLedger) Remove(ctx context.Context, id uint) error {
	return l.db.WithContext(ctx).Delete(&models.StagedUpload{}, id).Error
}
