// Package errors provides standardized error handling for the REST API surface.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAuthProviderUnavailable ErrorCode = "AUTH_PROVIDER_UNAVAILABLE"
	ErrCodeAuthenticationFailed    ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeRegistrationFailed      ErrorCode = "REGISTRATION_FAILED"
	ErrCodeInvalidCredentials      ErrorCode = "INVALID_CREDENTIALS"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeRecordNotFound           ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeDuplicateRecord          ErrorCode = "DUPLICATE_RECORD"

	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnsupportedFile   ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeFileTooLarge      ErrorCode = "FILE_TOO_LARGE"
	ErrCodeTextExtractionNil ErrorCode = "TEXT_EXTRACTION_EMPTY"

	ErrCodeEmailSendFailed ErrorCode = "EMAIL_SEND_FAILED"

	ErrCodeLLMUnavailable    ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeLLMAnalysisFailed ErrorCode = "LLM_ANALYSIS_FAILED"
	ErrCodeLLMTimeout        ErrorCode = "LLM_TIMEOUT"

	ErrCodeVectorIndexFailed ErrorCode = "VECTOR_INDEX_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAuthProviderUnavailableError creates a retryable identity-provider error.
func NewAuthProviderUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthProviderUnavailable,
		Message:   "Identity provider is unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationFailedError creates a non-retryable credential error.
func NewAuthenticationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistrationFailedError creates a non-retryable signup error.
func NewRegistrationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistrationFailed,
		Message:   "User registration failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialsError creates a non-retryable login error.
func NewInvalidCredentialsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Invalid email or password",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable not-found error.
func NewRecordNotFoundError(entity, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateRecordError creates a non-retryable conflict error.
func NewDuplicateRecordError(entity, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateRecord,
		Message:   fmt.Sprintf("%s already exists", entity),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable payload validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedFileError creates a non-retryable file-type error.
func NewUnsupportedFileError(mimeType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedFile,
		Message:   "Unsupported file type",
		Details:   fmt.Sprintf("mimeType: %s, allowed: PDF, DOCX", mimeType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError creates a non-retryable size-limit error.
func NewFileTooLargeError(sizeBytes, limitBytes int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "Uploaded file exceeds size limit",
		Details:   fmt.Sprintf("size: %d, limit: %d", sizeBytes, limitBytes),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTextExtractionEmptyError creates a non-retryable parse error.
func NewTextExtractionEmptyError(filename string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTextExtractionNil,
		Message:   "Could not extract text from the uploaded file",
		Details:   fmt.Sprintf("filename: %s", filename),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError creates a retryable email dispatch error.
func NewEmailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMUnavailableError creates a non-retryable configuration error.
func NewLLMUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMUnavailable,
		Message:   "LLM service is not configured",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMAnalysisFailedError creates a retryable LLM error.
func NewLLMAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMAnalysisFailed,
		Message:   "LLM analysis failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM call timed out",
		Details:   "call exceeded configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVectorIndexFailedError creates a retryable vector-index error.
func NewVectorIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVectorIndexFailed,
		Message:   "Vector index operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "CREDENTIALS") || strings.Contains(codeStr, "REGISTRATION"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "RECORD"):
		return "DATABASE"
	case strings.Contains(codeStr, "EMAIL"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "VECTOR"):
		return "SEARCH"
	case strings.Contains(codeStr, "FILE") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "EXTRACTION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
