// internal/common/auth/gotrue.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"apptrack-backend/internal/common/errors"
)

// GoTrueClient provides methods to interact with a GoTrue identity server
// (the auth component behind Supabase) for registration, login, and user lookup.
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// User represents a user record returned by GoTrue.
type User struct {
	ID           string                 `json:"id,omitempty"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	ConfirmedAt  string                 `json:"confirmed_at,omitempty"`
}

// Session holds the response from GoTrue's token endpoint.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// NewGoTrueClient creates a new instance of GoTrueClient.
func NewGoTrueClient(baseURL, anonKey, serviceKey string, timeout time.Duration) *GoTrueClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &GoTrueClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SignUp registers a new user with email and password.
func (g *GoTrueClient) SignUp(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]string{"email": email, "password": password}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "SERIALIZATION_ERROR",
			Message:   "Failed to serialize signup payload",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/signup", strings.NewReader(string(jsonData)))
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create signup request",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.anonKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAuthProviderUnavailableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "IO_ERROR",
			Message:   "Failed to read GoTrue response",
			Details:   err.Error(),
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		if g.isTransientHTTPError(resp.StatusCode) {
			return nil, &errors.StandardError{
				Code:      "GOTRUE_API_ERROR",
				Message:   "GoTrue API error during signup",
				Details:   string(body),
				Retryable: true,
			}
		}
		return nil, errors.NewRegistrationFailedError(string(body))
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode signup response",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	return &user, nil
}

// SignInWithPassword exchanges email and password for a session.
func (g *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "SERIALIZATION_ERROR",
			Message:   "Failed to serialize login payload",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	tokenURL := g.baseURL + "/token?grant_type=password"

	req, err := http.NewRequestWithContext(ctx, "POST", tokenURL, strings.NewReader(string(jsonData)))
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create token request",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.anonKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAuthProviderUnavailableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "IO_ERROR",
			Message:   "Failed to read GoTrue response",
			Details:   err.Error(),
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		if g.isTransientHTTPError(resp.StatusCode) {
			return nil, &errors.StandardError{
				Code:      "GOTRUE_API_ERROR",
				Message:   "GoTrue API error during login",
				Details:   string(body),
				Retryable: true,
			}
		}
		return nil, errors.NewInvalidCredentialsError(string(body))
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode token response",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	return &session, nil
}

// GetUser validates an access token and returns the user it belongs to.
func (g *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/user", nil)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create user request",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAuthProviderUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if g.isTransientHTTPError(resp.StatusCode) {
			return nil, &errors.StandardError{
				Code:      "GOTRUE_API_ERROR",
				Message:   "GoTrue API error during token validation",
				Details:   string(body),
				Retryable: true,
			}
		}
		return nil, errors.NewAuthenticationFailedError(string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode user details",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	return &user, nil
}

// AdminGetUser retrieves a user by their unique ID using the service role key.
func (g *GoTrueClient) AdminGetUser(ctx context.Context, userID string) (*User, error) {
	userURL := fmt.Sprintf("%s/admin/users/%s", g.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, "GET", userURL, nil)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create admin user request",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	req.Header.Set("apikey", g.serviceKey)
	req.Header.Set("Authorization", "Bearer "+g.serviceKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAuthProviderUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return nil, &errors.StandardError{
				Code:      "USER_NOT_FOUND",
				Message:   "User not found",
				Details:   fmt.Sprintf("No user found with id: %s", userID),
				Retryable: false,
			}
		}
		return nil, &errors.StandardError{
			Code:      "GOTRUE_API_ERROR",
			Message:   "GoTrue API error during user retrieval",
			Details:   string(body),
			Retryable: g.isTransientHTTPError(resp.StatusCode),
		}
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode user details",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	return &user, nil
}

// GetEmail resolves a user ID to the account's email address.
func (g *GoTrueClient) GetEmail(ctx context.Context, userID string) (string, error) {
	user, err := g.AdminGetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Email == "" {
		return "", &errors.StandardError{
			Code:      "USER_EMAIL_MISSING",
			Message:   "User record has no email address",
			Details:   fmt.Sprintf("userId: %s", userID),
			Retryable: false,
		}
	}
	return user.Email, nil
}

// isTransientHTTPError returns true if the HTTP status code indicates a potentially transient error.
func (g *GoTrueClient) isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError, // 500
		http.StatusBadGateway,         // 502
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	default:
		return false
	}
}
