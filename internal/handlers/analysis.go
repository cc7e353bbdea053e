// internal/handlers/analysis.go
package handlers

import (
	"context"
	"net/http"

	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Analyzer is the LLM surface the analysis handler needs.
type Analyzer interface {
	AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*models.ResumeAnalysis, error)
	GenerateInterviewQuestions(ctx context.Context, job *models.JobApplication, resumeText string) ([]models.InterviewQuestion, error)
}

// AnalysisCache is the read-through cache in front of resume analysis.
type AnalysisCache interface {
	Get(ctx context.Context, resumeText, jobDescription string) *models.ResumeAnalysis
	Set(ctx context.Context, resumeText, jobDescription string, analysis *models.ResumeAnalysis)
}

// AnalysisHandler exposes resume-vs-job analysis and interview prep.
type AnalysisHandler struct {
	analyzer Analyzer
	cache    AnalysisCache
	resumes  ResumeRepository
	jobs     JobRepository
	log      logger.Logger
}

func NewAnalysisHandler(analyzer Analyzer, cache AnalysisCache, resumes ResumeRepository, jobs JobRepository, log logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		cache:    cache,
		resumes:  resumes,
		jobs:     jobs,
		log:      log,
	}
}

type analyzeRequest struct {
	ResumeID       string `json:"resume_id" binding:"required"`
	JobID          string `json:"job_id"`
	JobDescription string `json:"job_description"`
}

// Analyze handles POST /api/analyze. The job description can come either
// from a stored job application or inline in the request.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	if h.analyzer == nil {
		status, body := errors.ToHTTP(errors.NewLLMUnavailableError("analysis is not configured"))
		c.JSON(status, body)
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": err.Error()},
		})
		return
	}

	userID := currentUserID(c)

	resume, err := h.resumes.GetByID(c.Request.Context(), userID, req.ResumeID)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" && req.JobID != "" {
		job, err := h.jobs.GetByID(c.Request.Context(), userID, req.JobID)
		if err != nil {
			status, body := errors.ToHTTP(err)
			c.JSON(status, body)
			return
		}
		jobDescription = job.JobDescription
	}
	if jobDescription == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": "a job description is required, inline or via job_id"},
		})
		return
	}

	if h.cache != nil {
		if cached := h.cache.Get(c.Request.Context(), resume.ExtractedText, jobDescription); cached != nil {
			c.JSON(http.StatusOK, gin.H{"analysis": cached, "cached": true})
			return
		}
	}

	analysis, err := h.analyzer.AnalyzeResume(c.Request.Context(), resume.ExtractedText, jobDescription)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	if h.cache != nil {
		h.cache.Set(c.Request.Context(), resume.ExtractedText, jobDescription, analysis)
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis, "cached": false})
}

// InterviewQuestions handles GET /api/jobs/:id/interview-questions.
// An optional resume_id query parameter tailors questions to a resume.
func (h *AnalysisHandler) InterviewQuestions(c *gin.Context) {
	if h.analyzer == nil {
		status, body := errors.ToHTTP(errors.NewLLMUnavailableError("interview preparation is not configured"))
		c.JSON(status, body)
		return
	}

	userID := currentUserID(c)

	job, err := h.jobs.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	resumeText := ""
	if resumeID := c.Query("resume_id"); resumeID != "" {
		resume, err := h.resumes.GetByID(c.Request.Context(), userID, resumeID)
		if err != nil {
			status, body := errors.ToHTTP(err)
			c.JSON(status, body)
			return
		}
		resumeText = resume.ExtractedText
	}

	questions, err := h.analyzer.GenerateInterviewQuestions(c.Request.Context(), job, resumeText)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, models.InterviewPrep{JobID: job.ID, Questions: questions})
}
