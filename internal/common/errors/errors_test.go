package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_Error(t *testing.T) {
	err := NewRecordNotFoundError("Job application", "j1")
	assert.Equal(t, "StandardError[RECORD_NOT_FOUND]: Job application not found", err.Error())
	assert.False(t, err.Timestamp.IsZero())
}

func TestRetryability(t *testing.T) {
	assert.True(t, NewDatabaseConnectionFailedError(fmt.Errorf("down")).Retryable)
	assert.True(t, NewQueryExecutionFailedError("select", fmt.Errorf("timeout")).Retryable)
	assert.True(t, NewEmailSendFailedError(fmt.Errorf("throttled")).Retryable)
	assert.True(t, NewAuthProviderUnavailableError(fmt.Errorf("503")).Retryable)

	assert.False(t, NewRecordNotFoundError("Resume", "r1").Retryable)
	assert.False(t, NewValidationFailedError("bad payload").Retryable)
	assert.False(t, NewInvalidCredentialsError("nope").Retryable)
	assert.False(t, NewUnsupportedFileError("image/png").Retryable)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeRecordNotFound, http.StatusNotFound},
		{ErrCodeDuplicateRecord, http.StatusConflict},
		{ErrCodeValidationFailed, http.StatusUnprocessableEntity},
		{ErrCodeFileTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeAuthProviderUnavailable, http.StatusServiceUnavailable},
		{ErrCodeQueryExecutionFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.code), "code %s", tt.code)
	}
}

func TestToHTTP_HidesInternalDetails(t *testing.T) {
	status, body := ToHTTP(NewQueryExecutionFailedError("select", fmt.Errorf("pq: relation does not exist")))

	assert.Equal(t, http.StatusInternalServerError, status)
	errBody, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, errBody, "details", "internal errors never leak query details")
}

func TestToHTTP_ClientErrorsKeepDetails(t *testing.T) {
	status, body := ToHTTP(NewValidationFailedError("deadline must be YYYY-MM-DD"))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "deadline must be YYYY-MM-DD", errBody["details"])
}

func TestToHTTP_PlainErrorBecomesOpaque500(t *testing.T) {
	status, body := ToHTTP(fmt.Errorf("something leaked"))

	assert.Equal(t, http.StatusInternalServerError, status)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "INTERNAL_ERROR", errBody["code"])
	assert.NotContains(t, fmt.Sprint(errBody), "leaked")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeInvalidCredentials))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeEmailSendFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLLMAnalysisFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeVectorIndexFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeUnsupportedFile))
	assert.Equal(t, "OTHER", GetErrorCategory("TIMEOUT_ERROR"))
}
