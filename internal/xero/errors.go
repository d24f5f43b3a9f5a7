package xero

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConfigError indicates missing local configuration: client id/secret or
// tenant. The user must run setup (`xero config set` / `xero auth login`).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// AuthError indicates an expired or missing token, a 401 response, or a
// missing refresh token. The user must re-login.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// PermissionError indicates a 403 response.
type PermissionError struct {
	Detail string
}

func (e *PermissionError) Error() string {
	if e.Detail != "" {
		return "permission denied: " + e.Detail
	}
	return "permission denied: the connected app does not have access to this resource"
}

// NotFoundError indicates a 404 response.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return "not found: " + e.Detail
	}
	return "resource not found"
}

// RateLimitError indicates a 429 response.
type RateLimitError struct {
	// RetryAfter is the value of the Retry-After header, when present.
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	msg := "rate limit exceeded, wait before retrying"
	if e.RetryAfter != "" {
		msg += " (retry after " + e.RetryAfter + "s)"
	}
	return msg
}

// APIError indicates any other non-2xx response. It carries the HTTP status
// and the most specific detail the response body offered.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Detail)
}

// NetworkError indicates that no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TokenExchangeError indicates that the authorization-code grant failed at
// the identity endpoint.
type TokenExchangeError struct {
	Description string
	Err         error
}

func (e *TokenExchangeError) Error() string {
	return "token exchange failed: " + e.Description
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}

// TokenRefreshError indicates that the refresh-token grant failed at the
// identity endpoint.
type TokenRefreshError struct {
	Description string
	Err         error
}

func (e *TokenRefreshError) Error() string {
	return "token refresh failed: " + e.Description
}

func (e *TokenRefreshError) Unwrap() error {
	return e.Err
}

// ListenerError indicates that the local OAuth callback listener could not
// bind its port. Fatal for the login flow, never retried.
type ListenerError struct {
	Addr string
	Err  error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("failed to start callback listener on %s: %v", e.Addr, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// apiErrorBody covers the shapes Xero uses for error responses. Validation
// errors carry Title/Detail, others a plain Message, and the identity
// endpoint an error_description.
type apiErrorBody struct {
	Detail           string `json:"Detail"`
	Message          string `json:"Message"`
	Title            string `json:"Title"`
	ErrorDescription string `json:"error_description"`
}

// extractDetail returns the first available detail/message field of an error
// body, or the raw body when none parse.
func extractDetail(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, candidate := range []string{parsed.Detail, parsed.Message, parsed.Title, parsed.ErrorDescription} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// ClassifyResponse maps a non-2xx API response to the error taxonomy. It is
// a pure function of status code and body, independent of the transport.
func ClassifyResponse(statusCode int, body []byte) error {
	switch statusCode {
	case 401:
		return &AuthError{Reason: "unauthorized (HTTP 401): token may have expired, re-authenticate with 'xero auth login'"}
	case 403:
		return &PermissionError{Detail: extractDetail(body)}
	case 404:
		return &NotFoundError{Detail: extractDetail(body)}
	case 429:
		return &RateLimitError{}
	default:
		return &APIError{StatusCode: statusCode, Detail: extractDetail(body)}
	}
}
