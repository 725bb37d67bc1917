package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plabs/showwall/models"
)

// MemorySubmissionRepository is an in-memory SubmissionRepository with the
// same contract as the gorm implementation. It backs handler tests and local
// development without a database.
type MemorySubmissionRepository struct {
	mu       sync.Mutex
	byID     map[string]*models.Submission
	byHandle map[string]string // handle -> id
}

// NewMemorySubmissionRepository returns an empty in-memory repository.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{
		byID:     map[string]*models.Submission{},
		byHandle: map[string]string{},
	}
}

func (m *MemorySubmissionRepository) FindByHandle(_ context.Context, handle string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byHandle[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSubmission(m.byID[id]), nil
}

func (m *MemorySubmissionRepository) Create(_ context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byHandle[sub.SocialHandle]; exists {
		return ErrDuplicateHandle
	}
	stored := cloneSubmission(sub)
	m.byID[stored.ID] = stored
	m.byHandle[stored.SocialHandle] = stored.ID
	return nil
}

func (m *MemorySubmissionRepository) AppendImages(_ context.Context, id string, refs []models.ImageRef) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored.Images = append(stored.Images, refs...)
	stored.UpdatedAt = time.Now()
	return cloneSubmission(stored), nil
}

func (m *MemorySubmissionRepository) ListAll(_ context.Context) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := make([]models.Submission, 0, len(m.byID))
	for _, s := range m.byID {
		subs = append(subs, *cloneSubmission(s))
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return subs, nil
}

func cloneSubmission(s *models.Submission) *models.Submission {
	out := *s
	out.Images = append(models.ImageList{}, s.Images...)
	return &out
}

// MemoryUploadLedger is the in-memory UploadLedger counterpart.
type MemoryUploadLedger struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.StagedUpload
}

// NewMemoryUploadLedger returns an empty in-memory ledger.
func NewMemoryUploadLedger() *MemoryUploadLedger {
	return &MemoryUploadLedger{rows: map[uint]models.StagedUpload{}}
}

func (m *MemoryUploadLedger) Record(_ context.Context, filePath, url string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rows[m.nextID] = models.StagedUpload{
		ID:        m.nextID,
		FilePath:  filePath,
		URL:       url,
		CreatedAt: time.Now(),
	}
	return m.nextID, nil
}

func (m *MemoryUploadLedger) Finalize(_ context.Context, ids []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if row, ok := m.rows[id]; ok {
			row.Finalized = true
			m.rows[id] = row
		}
	}
	return nil
}

func (m *MemoryUploadLedger) StalePending(_ context.Context, cutoff time.Time, limit int) ([]models.StagedUpload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StagedUpload
	for _, row := range m.rows {
		if !row.Finalized && !row.CreatedAt.After(cutoff) {
			out = append(out, row)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryUploadLedger) Remove(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// Pending reports how many rows are still unfinalized. Test helper.
func (m *MemoryUploadLedger) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.rows {
		if !row.Finalized {
			n++
		}
	}
	return n
}
