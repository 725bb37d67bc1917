package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plabs/showwall/gallery"
	"github.com/plabs/showwall/models"
	"github.com/plabs/showwall/repository"
	"github.com/plabs/showwall/utils"
)

const (
	listCacheKey    = "submissions:list"
	groupedCacheKey = "submissions:grouped"
)

// SubmissionOptions carries the ingestion limits and path/URL wiring.
type SubmissionOptions struct {
	UploadDir string
	BaseURL   string
	// MaxUploadSize caps each file in bytes.
	MaxUploadSize int64
	// MaxImages caps file parts per request.
	MaxImages int
	CacheTTL  time.Duration
}

// SubmissionController handles submission intake and listing.
type SubmissionController struct {
	repo   repository.SubmissionRepository
	ledger repository.UploadLedger
	opts   SubmissionOptions
}

// NewSubmissionController creates a SubmissionController.
func NewSubmissionController(repo repository.SubmissionRepository, ledger repository.UploadLedger, opts SubmissionOptions) *SubmissionController {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 5 << 20
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = 5
	}
	return &SubmissionController{repo: repo, ledger: ledger, opts: opts}
}

// CreateSubmission ingests a multipart form: name, socialHandle and up to
// MaxImages image files. First submission for a handle creates the record
// (201); later ones append images to it (200). A batch with any invalid file
// is rejected whole, so no partial record can appear.
func (s *SubmissionController) CreateSubmission(ctx *gin.Context) {
	name := utils.Sanitize(strings.TrimSpace(ctx.PostForm("name")))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, "name is required")
		return
	}
	handle := utils.Sanitize(strings.TrimSpace(ctx.PostForm("socialHandle")))
	if handle == "" {
		utils.Error(ctx, http.StatusBadRequest, "socialHandle is required")
		return
	}

	var files []*multipart.FileHeader
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}
	if len(files) > s.opts.MaxImages {
		utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("at most %d images per submission", s.opts.MaxImages))
		return
	}
	// Validate the whole batch before writing anything so a bad file cannot
	// leave a partial record behind.
	for _, fh := range files {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			utils.Error(ctx, http.StatusBadRequest, "only images are allowed")
			return
		}
		if fh.Size > s.opts.MaxUploadSize {
			utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("file %s exceeds %dMB limit", filepath.Base(fh.Filename), s.opts.MaxUploadSize>>20))
			return
		}
	}

	refs, ledgerIDs, err := s.storeFiles(ctx, files)
	if err != nil {
		utils.Sugar.Errorf("submission file store failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "failed to store images")
		return
	}

	rctx := ctx.Request.Context()
	existing, err := s.repo.FindByHandle(rctx, handle)
	switch {
	case err == nil:
		updated, appendErr := s.repo.AppendImages(rctx, existing.ID, refs)
		if appendErr != nil {
			utils.Sugar.Errorf("append images failed handle=%s: %v", handle, appendErr)
			utils.Error(ctx, http.StatusInternalServerError, "error creating submission")
			return
		}
		s.finish(ctx, http.StatusOK, updated, ledgerIDs)

	case errors.Is(err, repository.ErrNotFound):
		sub := &models.Submission{
			ID:           uuid.NewString(),
			Name:         name,
			SocialHandle: handle,
			Images:       refs,
			CreatedAt:    time.Now(),
		}
		createErr := s.repo.Create(rctx, sub)
		if errors.Is(createErr, repository.ErrDuplicateHandle) {
			// Lost the first-submission race; the winner owns the record now,
			// so take the append path against it.
			winner, findErr := s.repo.FindByHandle(rctx, handle)
			if findErr != nil {
				utils.Sugar.Errorf("post-race lookup failed handle=%s: %v", handle, findErr)
				utils.Error(ctx, http.StatusInternalServerError, "error creating submission")
				return
			}
			updated, appendErr := s.repo.AppendImages(rctx, winner.ID, refs)
			if appendErr != nil {
				utils.Sugar.Errorf("post-race append failed handle=%s: %v", handle, appendErr)
				utils.Error(ctx, http.StatusInternalServerError, "error creating submission")
				return
			}
			s.finish(ctx, http.StatusOK, updated, ledgerIDs)
			return
		}
		if createErr != nil {
			utils.Sugar.Errorf("create submission failed handle=%s: %v", handle, createErr)
			utils.Error(ctx, http.StatusInternalServerError, "error creating submission")
			return
		}
		s.finish(ctx, http.StatusCreated, sub, ledgerIDs)

	default:
		utils.Sugar.Errorf("find by handle failed handle=%s: %v", handle, err)
		utils.Error(ctx, http.StatusInternalServerError, "error creating submission")
	}
}

// finish finalizes the staged files, drops listing caches and writes the record.
func (s *SubmissionController) finish(ctx *gin.Context, status int, sub *models.Submission, ledgerIDs []uint) {
	if err := s.ledger.Finalize(ctx.Request.Context(), ledgerIDs); err != nil {
		// The submission is persisted; a stale-pending row only risks the
		// reaper deleting a referenced file, so this is worth a warning.
		utils.Sugar.Warnf("finalize staged uploads failed: %v", err)
	}
	utils.CacheDelete(listCacheKey)
	utils.CacheDelete(groupedCacheKey)
	ctx.JSON(status, sub)
}

// storeFiles writes each part to the upload directory under a collision-free
// name and records a pending ledger row per file. On any failure it removes
// what it already wrote and reports the error.
func (s *SubmissionController) storeFiles(ctx *gin.Context, files []*multipart.FileHeader) (models.ImageList, []uint, error) {
	if len(files) == 0 {
		return models.ImageList{}, nil, nil
	}
	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create upload dir: %w", err)
	}

	refs := make(models.ImageList, 0, len(files))
	ledgerIDs := make([]uint, 0, len(files))
	var written []string

	cleanup := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
		for _, id := range ledgerIDs {
			_ = s.ledger.Remove(ctx.Request.Context(), id)
		}
	}

	for _, fh := range files {
		base := filepath.Base(fh.Filename)
		if base == "." || base == "/" || base == "" {
			base = "image"
		}
		fname := fmt.Sprintf("%d-%09d-%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), base)
		dstPath := filepath.Join(s.opts.UploadDir, fname)

		if err := s.saveFile(fh, dstPath); err != nil {
			cleanup()
			return nil, nil, err
		}
		written = append(written, dstPath)

		url := strings.TrimRight(s.opts.BaseURL, "/") + "/uploads/" + fname
		id, err := s.ledger.Record(ctx.Request.Context(), dstPath, url)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("record staged upload: %w", err)
		}
		ledgerIDs = append(ledgerIDs, id)

		refs = append(refs, models.ImageRef{URL: url, Path: dstPath})
	}
	return refs, ledgerIDs, nil
}

// saveFile copies one part to disk, enforcing the size cap on the actual
// stream since the declared header size is client-controlled.
func (s *SubmissionController) saveFile(fh *multipart.FileHeader, dstPath string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dst.Close()

	lr := &io.LimitedReader{R: src, N: s.opts.MaxUploadSize + 1}
	written, err := io.Copy(dst, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("write %s: %w", dstPath, err)
	}
	if written > s.opts.MaxUploadSize {
		_ = os.Remove(dstPath)
		return fmt.Errorf("file %s exceeds %dMB limit", fh.Filename, s.opts.MaxUploadSize>>20)
	}
	return nil
}

// ListSubmissions returns every record ordered by creation time descending.
// Appends never refresh CreatedAt, so a handle keeps its original position.
func (s *SubmissionController) ListSubmissions(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(listCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	subs, err := s.repo.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list submissions failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "error fetching submissions")
		return
	}
	s.writeListing(ctx, listCacheKey, subs)
}

// ListGrouped returns the gallery view: records re-grouped by handle and
// sorted newest-first. Defensive against duplicate handles in the store.
func (s *SubmissionController) ListGrouped(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(groupedCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	subs, err := s.repo.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list grouped submissions failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "error fetching submissions")
		return
	}
	s.writeListing(ctx, groupedCacheKey, gallery.Group(subs))
}

func (s *SubmissionController) writeListing(ctx *gin.Context, cacheKey string, subs []models.Submission) {
	if subs == nil {
		subs = []models.Submission{}
	}
	b, err := json.Marshal(subs)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "error fetching submissions")
		return
	}
	utils.CacheSetBytes(cacheKey, b, s.opts.CacheTTL)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
}
