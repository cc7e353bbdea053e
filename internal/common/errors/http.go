// internal/common/errors/http.go
package errors

import "net/http"

// HTTPStatus maps an error code to the status the API should return.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeRecordNotFound, "USER_NOT_FOUND":
		return http.StatusNotFound
	case ErrCodeDuplicateRecord:
		return http.StatusConflict
	case ErrCodeValidationFailed, ErrCodeUnsupportedFile, ErrCodeTextExtractionNil:
		return http.StatusUnprocessableEntity
	case ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeAuthenticationFailed, ErrCodeInvalidCredentials, "TOKEN_INVALID":
		return http.StatusUnauthorized
	case ErrCodeRegistrationFailed:
		return http.StatusBadRequest
	case ErrCodeAuthProviderUnavailable, ErrCodeLLMUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeLLMTimeout, "TIMEOUT_ERROR":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts any error into a status code and a response body. Plain
// errors become opaque 500s so internals never leak to clients.
func ToHTTP(err error) (int, map[string]interface{}) {
	stdErr, ok := err.(*StandardError)
	if !ok {
		return http.StatusInternalServerError, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		}
	}

	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    stdErr.Code,
			"message": stdErr.Message,
		},
	}
	if stdErr.Details != "" && HTTPStatus(stdErr.Code) < http.StatusInternalServerError {
		body["error"].(map[string]interface{})["details"] = stdErr.Details
	}
	return HTTPStatus(stdErr.Code), body
}
