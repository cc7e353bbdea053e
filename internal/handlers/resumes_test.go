package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"
	"apptrack-backend/internal/parser"
	"apptrack-backend/internal/vector"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fullMockResumeRepo struct {
	FindByHashFunc func(ctx context.Context, userID, contentHash string) (*models.Resume, error)
	CreateFunc     func(ctx context.Context, resume *models.Resume) (*models.Resume, error)
	DeleteFunc     func(ctx context.Context, userID, resumeID string) error
	ListFunc       func(ctx context.Context, userID string) ([]models.Resume, error)
}

func (m *fullMockResumeRepo) Create(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	return m.CreateFunc(ctx, resume)
}
func (m *fullMockResumeRepo) FindByHash(ctx context.Context, userID, contentHash string) (*models.Resume, error) {
	return m.FindByHashFunc(ctx, userID, contentHash)
}
func (m *fullMockResumeRepo) GetByID(ctx context.Context, userID, resumeID string) (*models.Resume, error) {
	panic("not used")
}
func (m *fullMockResumeRepo) ListByUser(ctx context.Context, userID string) ([]models.Resume, error) {
	return m.ListFunc(ctx, userID)
}
func (m *fullMockResumeRepo) Delete(ctx context.Context, userID, resumeID string) error {
	return m.DeleteFunc(ctx, userID, resumeID)
}

type mockIndex struct {
	deleted []string
	matches []vector.Match
}

func (m *mockIndex) Upsert(ctx context.Context, doc *vector.Document) error { return nil }
func (m *mockIndex) Delete(ctx context.Context, resumeID string) error {
	m.deleted = append(m.deleted, resumeID)
	return nil
}
func (m *mockIndex) Search(ctx context.Context, userID string, embedding []float32, limit int) ([]vector.Match, error) {
	return m.matches, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func newResumesRouter(t *testing.T, repo ResumeRepository, jobs JobRepository, embedder Embedder, index EmbeddingIndex) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewTestLogger(t)
	h := NewResumesHandler(repo, jobs, embedder, index, log)

	r := gin.New()
	api := r.Group("/api")
	api.Use(AuthRequired(validUser(), log))
	api.POST("/resumes", h.Upload)
	api.GET("/resumes", h.List)
	api.DELETE("/resumes/:id", h.Delete)
	api.GET("/jobs/:id/matching-resumes", h.MatchJob)
	return r
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/resumes", &buf)
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestResumeUpload_DuplicateShortCircuits(t *testing.T) {
	content := []byte("resume bytes")
	repo := &fullMockResumeRepo{
		FindByHashFunc: func(ctx context.Context, userID, contentHash string) (*models.Resume, error) {
			assert.Equal(t, parser.Hash(content), contentHash)
			return &models.Resume{ID: "r1", UserID: userID, ContentHash: contentHash}, nil
		},
		CreateFunc: func(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
			t.Fatal("duplicate uploads must not create new rows")
			return nil, nil
		},
	}
	router := newResumesRouter(t, repo, &mockJobRepo{}, nil, &mockIndex{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "resume.pdf", content))

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
}

func TestResumeUpload_UnsupportedType(t *testing.T) {
	repo := &fullMockResumeRepo{
		FindByHashFunc: func(ctx context.Context, userID, contentHash string) (*models.Resume, error) {
			return nil, nil
		},
	}
	router := newResumesRouter(t, repo, &mockJobRepo{}, nil, &mockIndex{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "resume.txt", []byte("plain text")))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FILE_TYPE")
}

func TestResumeUpload_MissingFile(t *testing.T) {
	router := newResumesRouter(t, &fullMockResumeRepo{}, &mockJobRepo{}, nil, &mockIndex{})

	req := httptest.NewRequest("POST", "/api/resumes", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResumeList(t *testing.T) {
	repo := &fullMockResumeRepo{
		ListFunc: func(ctx context.Context, userID string) ([]models.Resume, error) {
			return []models.Resume{{ID: "r1", Filename: "cv.pdf"}}, nil
		},
	}
	router := newResumesRouter(t, repo, &mockJobRepo{}, nil, &mockIndex{})

	req := httptest.NewRequest("GET", "/api/resumes", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cv.pdf")
}

func TestResumeDelete_RemovesEmbedding(t *testing.T) {
	repo := &fullMockResumeRepo{
		DeleteFunc: func(ctx context.Context, userID, resumeID string) error { return nil },
	}
	index := &mockIndex{}
	router := newResumesRouter(t, repo, &mockJobRepo{}, nil, index)

	req := httptest.NewRequest("DELETE", "/api/resumes/r1", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"r1"}, index.deleted)
}

func TestMatchJob(t *testing.T) {
	jobs := &mockJobRepo{
		GetFunc: func(ctx context.Context, userID, jobID string) (*models.JobApplication, error) {
			return &models.JobApplication{ID: jobID, JobDescription: "build Go services"}, nil
		},
	}
	index := &mockIndex{matches: []vector.Match{{ResumeID: "r1", Filename: "cv.pdf", Score: 1.9}}}
	router := newResumesRouter(t, &fullMockResumeRepo{}, jobs, stubEmbedder{}, index)

	req := httptest.NewRequest("GET", "/api/jobs/j1/matching-resumes", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "cv.pdf")
}

func TestMatchJob_NoDescription(t *testing.T) {
	jobs := &mockJobRepo{
		GetFunc: func(ctx context.Context, userID, jobID string) (*models.JobApplication, error) {
			return &models.JobApplication{ID: jobID}, nil
		},
	}
	router := newResumesRouter(t, &fullMockResumeRepo{}, jobs, stubEmbedder{}, &mockIndex{})

	req := httptest.NewRequest("GET", "/api/jobs/j1/matching-resumes", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMatchJob_NotConfigured(t *testing.T) {
	router := newResumesRouter(t, &fullMockResumeRepo{}, &mockJobRepo{}, nil, &mockIndex{})

	req := httptest.NewRequest("GET", "/api/jobs/j1/matching-resumes", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "SEARCH_UNAVAILABLE")
}
