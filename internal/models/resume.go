// internal/models/resume.go
package models

import "time"

// Resume is a parsed resume stored for a user. ContentHash is the
// SHA-256 of the raw upload and is used to deduplicate re-uploads.
type Resume struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Filename      string    `json:"filename"`
	ContentHash   string    `json:"content_hash"`
	ExtractedText string    `json:"extracted_text"`
	CreatedAt     time.Time `json:"created_at"`
}
