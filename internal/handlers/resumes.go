// internal/handlers/resumes.go
package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"
	"apptrack-backend/internal/parser"
	"apptrack-backend/internal/vector"

	"github.com/gin-gonic/gin"
)

// ResumeRepository is the persistence surface the resumes handler needs.
type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) (*models.Resume, error)
	FindByHash(ctx context.Context, userID, contentHash string) (*models.Resume, error)
	GetByID(ctx context.Context, userID, resumeID string) (*models.Resume, error)
	ListByUser(ctx context.Context, userID string) ([]models.Resume, error)
	Delete(ctx context.Context, userID, resumeID string) error
}

// Embedder produces an embedding vector for extracted resume text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingIndex is the vector-store surface the resumes handler needs.
type EmbeddingIndex interface {
	Upsert(ctx context.Context, doc *vector.Document) error
	Delete(ctx context.Context, resumeID string) error
	Search(ctx context.Context, userID string, embedding []float32, limit int) ([]vector.Match, error)
}

// ResumesHandler handles resume upload, parsing, dedup, indexing, and
// similarity matching against stored jobs.
type ResumesHandler struct {
	store    ResumeRepository
	jobs     JobRepository
	embedder Embedder
	index    EmbeddingIndex
	log      logger.Logger
}

func NewResumesHandler(store ResumeRepository, jobs JobRepository, embedder Embedder, index EmbeddingIndex, log logger.Logger) *ResumesHandler {
	return &ResumesHandler{store: store, jobs: jobs, embedder: embedder, index: index, log: log}
}

// Upload handles POST /api/resumes. The file is parsed, deduplicated by
// content hash, stored, and indexed for similarity search. Indexing is
// best effort; a vector-store outage does not fail the upload.
func (h *ResumesHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "multipart field 'file' is required"},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "could not open uploaded file"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, parser.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "could not read uploaded file"},
		})
		return
	}

	userID := currentUserID(c)
	contentHash := parser.Hash(data)

	if existing, err := h.store.FindByHash(c.Request.Context(), userID, contentHash); err == nil && existing != nil {
		c.JSON(http.StatusOK, gin.H{"resume": existing, "duplicate": true})
		return
	}

	text, err := parser.ExtractText(fileHeader.Filename, data)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	resume, err := h.store.Create(c.Request.Context(), &models.Resume{
		UserID:        userID,
		Filename:      fileHeader.Filename,
		ContentHash:   contentHash,
		ExtractedText: text,
	})
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	h.indexResume(c.Request.Context(), resume, text)

	h.log.Info("resume uploaded", map[string]interface{}{
		"resumeId": resume.ID,
		"userId":   userID,
		"filename": resume.Filename,
	})
	c.JSON(http.StatusCreated, gin.H{"resume": resume, "duplicate": false})
}

func (h *ResumesHandler) indexResume(ctx context.Context, resume *models.Resume, text string) {
	if h.embedder == nil || h.index == nil {
		return
	}

	embedding, err := h.embedder.Embed(ctx, text)
	if err != nil {
		h.log.Warn("resume embedding failed, skipping index", map[string]interface{}{
			"resumeId": resume.ID,
			"error":    err.Error(),
		})
		return
	}

	err = h.index.Upsert(ctx, &vector.Document{
		ResumeID:  resume.ID,
		UserID:    resume.UserID,
		Filename:  resume.Filename,
		Embedding: embedding,
	})
	if err != nil {
		h.log.Warn("resume index upsert failed", map[string]interface{}{
			"resumeId": resume.ID,
			"error":    err.Error(),
		})
	}
}

// List handles GET /api/resumes.
func (h *ResumesHandler) List(c *gin.Context) {
	resumes, err := h.store.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	if resumes == nil {
		resumes = []models.Resume{}
	}
	c.JSON(http.StatusOK, resumes)
}

// Get handles GET /api/resumes/:id.
func (h *ResumesHandler) Get(c *gin.Context) {
	resume, err := h.store.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resume)
}

// MatchJob handles GET /api/jobs/:id/matching-resumes. The stored job
// description is embedded and matched against the user's indexed resumes.
func (h *ResumesHandler) MatchJob(c *gin.Context) {
	if h.embedder == nil || h.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{"code": "SEARCH_UNAVAILABLE", "message": "Resume matching is not configured"},
		})
		return
	}

	userID := currentUserID(c)
	job, err := h.jobs.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	if job.JobDescription == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "job has no description to match against"},
		})
		return
	}

	embedding, err := h.embedder.Embed(c.Request.Context(), job.JobDescription)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	matches, err := h.index.Search(c.Request.Context(), userID, embedding, limit)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": job.ID, "matches": matches})
}

// Delete handles DELETE /api/resumes/:id. The embedding is removed best
// effort after the row is gone.
func (h *ResumesHandler) Delete(c *gin.Context) {
	resumeID := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), currentUserID(c), resumeID); err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	if h.index != nil {
		if err := h.index.Delete(c.Request.Context(), resumeID); err != nil {
			h.log.Warn("resume index delete failed", map[string]interface{}{
				"resumeId": resumeID,
				"error":    err.Error(),
			})
		}
	}
	c.Status(http.StatusNoContent)
}
