// internal/handlers/jobs.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/common/validation"
	"apptrack-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// JobRepository is the persistence surface the jobs handler needs.
type JobRepository interface {
	Create(ctx context.Context, job *models.JobApplication) (*models.JobApplication, error)
	GetByID(ctx context.Context, userID, jobID string) (*models.JobApplication, error)
	ListByUser(ctx context.Context, userID string) ([]models.JobApplication, error)
	Update(ctx context.Context, userID, jobID string, req *models.JobUpdateRequest) (*models.JobApplication, error)
	Delete(ctx context.Context, userID, jobID string) error
}

// JobsHandler exposes CRUD for job applications, always scoped to the
// authenticated user.
type JobsHandler struct {
	store JobRepository
	log   logger.Logger
}

func NewJobsHandler(store JobRepository, log logger.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// Create handles POST /api/jobs.
func (h *JobsHandler) Create(c *gin.Context) {
	raw, ok := bindValidated(c, validation.ValidateJobCreate)
	if !ok {
		return
	}

	var req models.JobCreateRequest
	if err := remarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": err.Error()},
		})
		return
	}

	job := &models.JobApplication{
		UserID:         currentUserID(c),
		Company:        req.Company,
		Position:       req.Position,
		Status:         models.JobStatus(req.Status),
		JobURL:         req.JobURL,
		Location:       req.Location,
		SalaryRange:    req.SalaryRange,
		JobDescription: req.JobDescription,
		Notes:          req.Notes,
	}

	var err error
	if job.Deadline, err = parseOptionalDate(req.Deadline); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "deadline must be YYYY-MM-DD"},
		})
		return
	}
	if job.AppliedDate, err = parseOptionalDate(req.AppliedDate); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "applied_date must be YYYY-MM-DD"},
		})
		return
	}

	created, err := h.store.Create(c.Request.Context(), job)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	h.log.Info("job application created", map[string]interface{}{
		"jobId":  created.ID,
		"userId": created.UserID,
	})
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/jobs.
func (h *JobsHandler) List(c *gin.Context) {
	jobs, err := h.store.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	if jobs == nil {
		jobs = []models.JobApplication{}
	}
	c.JSON(http.StatusOK, jobs)
}

// Get handles GET /api/jobs/:id.
func (h *JobsHandler) Get(c *gin.Context) {
	job, err := h.store.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Update handles PATCH /api/jobs/:id.
func (h *JobsHandler) Update(c *gin.Context) {
	raw, ok := bindValidated(c, validation.ValidateJobUpdate)
	if !ok {
		return
	}

	var req models.JobUpdateRequest
	if err := remarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": err.Error()},
		})
		return
	}

	job, err := h.store.Update(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/:id.
func (h *JobsHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindValidated decodes the body to a map and runs it through the JSON
// schema validator before the typed bind.
func bindValidated(c *gin.Context, validate func(map[string]interface{}) (*validation.ValidationResult, error)) (map[string]interface{}, bool) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "request body must be a JSON object"},
		})
		return nil, false
	}

	result, err := validate(raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "validation could not run"},
		})
		return nil, false
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "request payload validation failed",
				"details": result.GetErrorMessages(),
			},
		})
		return nil, false
	}
	return raw, true
}

func remarshal(raw map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func parseOptionalDate(val *string) (*time.Time, error) {
	if val == nil || *val == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
