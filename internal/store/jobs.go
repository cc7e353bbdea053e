// internal/store/jobs.go
package store

import (
	"context"
	"database/sql"
	"time"

	"apptrack-backend/internal/common/database"
	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobStore persists job applications in PostgreSQL.
type JobStore struct {
	db *database.PostgresClient
}

func NewJobStore(db *database.PostgresClient) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, user_id, company, position, status, job_url, location,
	salary_range, job_description, notes, deadline, applied_date, created_at, updated_at`

// Create inserts a new job application and returns the stored row.
func (s *JobStore) Create(ctx context.Context, job *models.JobApplication) (*models.JobApplication, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO job_applications (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.db.Exec(ctx, query,
		job.ID, job.UserID, job.Company, job.Position, job.Status,
		nullString(job.JobURL), nullString(job.Location), nullString(job.SalaryRange),
		nullString(job.JobDescription), nullString(job.Notes),
		nullTime(job.Deadline), nullTime(job.AppliedDate),
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("insert job_application", err)
	}
	return job, nil
}

// GetByID fetches one job application scoped to its owner.
func (s *JobStore) GetByID(ctx context.Context, userID, jobID string) (*models.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications WHERE id = $1 AND user_id = $2`

	row := s.db.QueryRow(ctx, query, jobID, userID)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("Job application", jobID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("select job_application", err)
	}
	return job, nil
}

// ListByUser returns all job applications for a user, newest first.
func (s *JobStore) ListByUser(ctx context.Context, userID string) ([]models.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications
		WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list job_applications", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// Update applies non-nil fields from the request and returns the updated row.
func (s *JobStore) Update(ctx context.Context, userID, jobID string, req *models.JobUpdateRequest) (*models.JobApplication, error) {
	job, err := s.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Position != nil {
		job.Position = *req.Position
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}
	if req.JobURL != nil {
		job.JobURL = *req.JobURL
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.SalaryRange != nil {
		job.SalaryRange = *req.SalaryRange
	}
	if req.JobDescription != nil {
		job.JobDescription = *req.JobDescription
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}
	if req.Deadline != nil {
		job.Deadline, err = parseDatePtr(*req.Deadline)
		if err != nil {
			return nil, errors.NewValidationFailedError("deadline must be YYYY-MM-DD")
		}
	}
	if req.AppliedDate != nil {
		job.AppliedDate, err = parseDatePtr(*req.AppliedDate)
		if err != nil {
			return nil, errors.NewValidationFailedError("applied_date must be YYYY-MM-DD")
		}
	}
	job.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE job_applications SET
			company = $1, position = $2, status = $3, job_url = $4, location = $5,
			salary_range = $6, job_description = $7, notes = $8,
			deadline = $9, applied_date = $10, updated_at = $11
		WHERE id = $12 AND user_id = $13`

	result, err := s.db.Exec(ctx, query,
		job.Company, job.Position, job.Status,
		nullString(job.JobURL), nullString(job.Location), nullString(job.SalaryRange),
		nullString(job.JobDescription), nullString(job.Notes),
		nullTime(job.Deadline), nullTime(job.AppliedDate), job.UpdatedAt,
		jobID, userID,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("update job_application", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errors.NewRecordNotFoundError("Job application", jobID)
	}
	return job, nil
}

// Delete removes a job application scoped to its owner.
func (s *JobStore) Delete(ctx context.Context, userID, jobID string) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM job_applications WHERE id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete job_application", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("Job application", jobID)
	}
	return nil
}

// FindActiveWithDeadlineBetween returns every job in a reminder-eligible
// status whose deadline falls in [from, to] inclusive, across all users.
// This is the single bulk fetch the deadline sweep runs per day.
func (s *JobStore) FindActiveWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.JobApplication, error) {
	statuses := make([]string, len(models.ActiveStatuses))
	for i, st := range models.ActiveStatuses {
		statuses[i] = string(st)
	}

	query := `SELECT ` + jobColumns + ` FROM job_applications
		WHERE status = ANY($1)
		  AND deadline IS NOT NULL
		  AND deadline >= $2 AND deadline <= $3
		ORDER BY deadline ASC`

	rows, err := s.db.Query(ctx, query, pq.Array(statuses), from, to)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("select jobs with upcoming deadlines", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.JobApplication, error) {
	var job models.JobApplication
	var jobURL, location, salaryRange, jobDescription, notes sql.NullString
	var deadline, appliedDate sql.NullTime

	err := row.Scan(
		&job.ID, &job.UserID, &job.Company, &job.Position, &job.Status,
		&jobURL, &location, &salaryRange, &jobDescription, &notes,
		&deadline, &appliedDate, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.JobURL = jobURL.String
	job.Location = location.String
	job.SalaryRange = salaryRange.String
	job.JobDescription = jobDescription.String
	job.Notes = notes.String
	if deadline.Valid {
		d := deadline.Time
		job.Deadline = &d
	}
	if appliedDate.Valid {
		d := appliedDate.Time
		job.AppliedDate = &d
	}
	return &job, nil
}

func collectJobs(rows *sql.Rows) ([]models.JobApplication, error) {
	var jobs []models.JobApplication
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan job_application row", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate job_application rows", err)
	}
	return jobs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func parseDatePtr(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
