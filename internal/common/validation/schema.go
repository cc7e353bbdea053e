package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas for job application payloads. Kept as documents so the
// API contract is visible in one place.
const jobCreateSchema = `{
	"type": "object",
	"properties": {
		"company": {"type": "string", "minLength": 1, "maxLength": 255},
		"position": {"type": "string", "minLength": 1, "maxLength": 255},
		"status": {"type": "string", "enum": ["wishlist", "interested", "applied", "interviewing", "offer", "rejected", "accepted", "withdrawn"]},
		"job_url": {"type": "string", "maxLength": 2048},
		"location": {"type": "string", "maxLength": 255},
		"salary_range": {"type": "string", "maxLength": 100},
		"job_description": {"type": "string"},
		"notes": {"type": "string"},
		"deadline": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"applied_date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
	},
	"required": ["company", "position", "status"],
	"additionalProperties": false
}`

const jobUpdateSchema = `{
	"type": "object",
	"properties": {
		"company": {"type": "string", "minLength": 1, "maxLength": 255},
		"position": {"type": "string", "minLength": 1, "maxLength": 255},
		"status": {"type": "string", "enum": ["wishlist", "interested", "applied", "interviewing", "offer", "rejected", "accepted", "withdrawn"]},
		"job_url": {"type": "string", "maxLength": 2048},
		"location": {"type": "string", "maxLength": 255},
		"salary_range": {"type": "string", "maxLength": 100},
		"job_description": {"type": "string"},
		"notes": {"type": "string"},
		"deadline": {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"applied_date": {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
	},
	"additionalProperties": false
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	jobCreateLoader = gojsonschema.NewStringLoader(jobCreateSchema)
	jobUpdateLoader = gojsonschema.NewStringLoader(jobUpdateSchema)
)

// ValidateJobCreate validates a job-creation payload against the contract schema.
func ValidateJobCreate(payload map[string]interface{}) (*ValidationResult, error) {
	return validateAgainst(jobCreateLoader, payload)
}

// ValidateJobUpdate validates a partial job-update payload.
func ValidateJobUpdate(payload map[string]interface{}) (*ValidationResult, error) {
	return validateAgainst(jobUpdateLoader, payload)
}

func validateAgainst(schema gojsonschema.JSONLoader, payload map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Summary joins all error messages into a single string.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	urlPattern := regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
	return urlPattern.MatchString(url)
}
