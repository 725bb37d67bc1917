package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plabs/showwall/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("submission not found")
	// ErrDuplicateHandle is returned by Create when another record already
	// owns the handle. Callers resolve it by re-fetching and appending, which
	// makes find-or-create atomic despite concurrent first submissions.
	ErrDuplicateHandle = errors.New("social handle already exists")
)

// SubmissionRepository abstracts the submission store so ingestion and
// listing logic can run against a live database or an in-memory double.
type SubmissionRepository interface {
	FindByHandle(ctx context.Context, handle string) (*models.Submission, error)
	Create(ctx context.Context, sub *models.Submission) error
	// AppendImages grows the record's image list in order and leaves
	// CreatedAt untouched.
	AppendImages(ctx context.Context, id string, refs []models.ImageRef) (*models.Submission, error)
	// ListAll returns every record ordered by CreatedAt descending.
	ListAll(ctx context.Context) ([]models.Submission, error)
}

type gormSubmissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepository returns a gorm-backed SubmissionRepository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &gormSubmissionRepo{db: db}
}

func (r *gormSubmissionRepo) FindByHandle(ctx context.Context, handle string) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).Where("social_handle = ?", handle).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormSubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	err := r.db.WithContext(ctx).Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateHandle
	}
	return err
}

func (r *gormSubmissionRepo) AppendImages(ctx context.Context, id string, refs []models.ImageRef) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock so concurrent appends to one handle cannot drop images.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		sub.Images = append(sub.Images, refs...)
		// Single-column update keeps created_at frozen at first creation.
		return tx.Model(&sub).Update("images", sub.Images).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormSubmissionRepo) ListAll(ctx context.Context) ([]models.Submission, error) {
	var subs []models.Submission
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
