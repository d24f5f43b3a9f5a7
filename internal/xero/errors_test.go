package xero

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantType   interface{}
	}{
		{
			name:       "401 maps to AuthError",
			statusCode: 401,
			body:       `{"Title":"Unauthorized"}`,
			wantType:   &AuthError{},
		},
		{
			name:       "403 maps to PermissionError",
			statusCode: 403,
			body:       `{"Detail":"insufficient scope"}`,
			wantType:   &PermissionError{},
		},
		{
			name:       "404 maps to NotFoundError",
			statusCode: 404,
			body:       `{"Message":"no such invoice"}`,
			wantType:   &NotFoundError{},
		},
		{
			name:       "429 maps to RateLimitError",
			statusCode: 429,
			body:       "",
			wantType:   &RateLimitError{},
		},
		{
			name:       "400 maps to APIError",
			statusCode: 400,
			body:       `{"Title":"ValidationException"}`,
			wantType:   &APIError{},
		},
		{
			name:       "500 maps to APIError",
			statusCode: 500,
			body:       "internal error",
			wantType:   &APIError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyResponse(tt.statusCode, []byte(tt.body))
			require.Error(t, err)
			assert.IsType(t, tt.wantType, err)
		})
	}
}

func TestClassifyResponseCarriesStatus(t *testing.T) {
	err := ClassifyResponse(502, []byte("bad gateway"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "502")
	assert.Contains(t, apiErr.Error(), "bad gateway")
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "Detail preferred",
			body: `{"Detail":"detail text","Message":"message text"}`,
			want: "detail text",
		},
		{
			name: "Message when no Detail",
			body: `{"Message":"message text","Title":"title text"}`,
			want: "message text",
		},
		{
			name: "Title when nothing else",
			body: `{"Title":"title text"}`,
			want: "title text",
		},
		{
			name: "error_description from identity endpoint",
			body: `{"error_description":"invalid client"}`,
			want: "invalid client",
		},
		{
			name: "raw body when not JSON",
			body: "plain text failure\n",
			want: "plain text failure",
		},
		{
			name: "raw body when JSON has no known fields",
			body: `{"something":"else"}`,
			want: `{"something":"else"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDetail([]byte(tt.body)))
		})
	}
}

func TestRateLimitErrorMessage(t *testing.T) {
	assert.Equal(t, "rate limit exceeded, wait before retrying", (&RateLimitError{}).Error())
	assert.Contains(t, (&RateLimitError{RetryAfter: "42"}).Error(), "42")
}

func TestErrorUnwrapping(t *testing.T) {
	inner := assert.AnError

	assert.ErrorIs(t, &AuthError{Reason: "r", Err: inner}, inner)
	assert.ErrorIs(t, &NetworkError{Err: inner}, inner)
	assert.ErrorIs(t, &TokenExchangeError{Description: "d", Err: inner}, inner)
	assert.ErrorIs(t, &TokenRefreshError{Description: "d", Err: inner}, inner)
	assert.ErrorIs(t, &ListenerError{Addr: "a", Err: inner}, inner)
}
