// internal/store/resumes.go
package store

import (
	"context"
	"database/sql"
	"time"

	"apptrack-backend/internal/common/database"
	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/models"

	"github.com/google/uuid"
)

// ResumeStore persists parsed resumes in PostgreSQL.
type ResumeStore struct {
	db *database.PostgresClient
}

func NewResumeStore(db *database.PostgresClient) *ResumeStore {
	return &ResumeStore{db: db}
}

// Create inserts a parsed resume record.
func (s *ResumeStore) Create(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}
	resume.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO resumes (id, user_id, filename, content_hash, extracted_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		resume.ID, resume.UserID, resume.Filename, resume.ContentHash,
		resume.ExtractedText, resume.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("insert resume", err)
	}
	return resume, nil
}

// FindByHash looks up an existing resume by owner and content hash.
// Returns (nil, nil) when no duplicate exists.
func (s *ResumeStore) FindByHash(ctx context.Context, userID, contentHash string) (*models.Resume, error) {
	query := `SELECT id, user_id, filename, content_hash, extracted_text, created_at
		FROM resumes WHERE user_id = $1 AND content_hash = $2`

	var resume models.Resume
	err := s.db.QueryRow(ctx, query, userID, contentHash).Scan(
		&resume.ID, &resume.UserID, &resume.Filename, &resume.ContentHash,
		&resume.ExtractedText, &resume.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("select resume by hash", err)
	}
	return &resume, nil
}

// GetByID fetches a resume scoped to its owner.
func (s *ResumeStore) GetByID(ctx context.Context, userID, resumeID string) (*models.Resume, error) {
	query := `SELECT id, user_id, filename, content_hash, extracted_text, created_at
		FROM resumes WHERE id = $1 AND user_id = $2`

	var resume models.Resume
	err := s.db.QueryRow(ctx, query, resumeID, userID).Scan(
		&resume.ID, &resume.UserID, &resume.Filename, &resume.ContentHash,
		&resume.ExtractedText, &resume.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("Resume", resumeID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("select resume", err)
	}
	return &resume, nil
}

// ListByUser returns all resumes for a user, newest first. The extracted
// text is omitted to keep list responses small.
func (s *ResumeStore) ListByUser(ctx context.Context, userID string) ([]models.Resume, error) {
	query := `SELECT id, user_id, filename, content_hash, created_at
		FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list resumes", err)
	}
	defer rows.Close()

	var resumes []models.Resume
	for rows.Next() {
		var resume models.Resume
		if err := rows.Scan(&resume.ID, &resume.UserID, &resume.Filename,
			&resume.ContentHash, &resume.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan resume row", err)
		}
		resumes = append(resumes, resume)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate resume rows", err)
	}
	return resumes, nil
}

// Delete removes a resume scoped to its owner.
func (s *ResumeStore) Delete(ctx context.Context, userID, resumeID string) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete resume", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("Resume", resumeID)
	}
	return nil
}
