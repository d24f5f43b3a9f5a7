package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/ktmcp-cli/xero/internal/credentials"
	"github.com/ktmcp-cli/xero/pkg/logging"
)

const (
	// DefaultBaseURL is the Xero accounting API base.
	DefaultBaseURL = "https://api.xero.com/api.xro/2.0"

	// DefaultConnectionsURL lists the organisations the token can access.
	DefaultConnectionsURL = "https://api.xero.com/connections"

	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// tenantHeader carries the organisation id on resource requests.
	tenantHeader = "Xero-tenant-id"
)

// TokenRefresher mints a new access token from a refresh token. Implemented
// by oauth.Exchanger; tests substitute fakes.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Client executes authenticated requests against the Xero API. It resolves
// a valid access token before every call, refreshing at most once, attaches
// the tenant and bearer headers, and classifies failures into the error
// taxonomy. It never retries.
type Client struct {
	store          *credentials.Store
	refresher      TokenRefresher
	baseURL        string
	connectionsURL string
	httpClient     *http.Client
	now            func() time.Time

	// Deduplicates refreshes when calls race; each caller still performs
	// at most one exchange per request.
	refreshGroup singleflight.Group
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL overrides the accounting API base, used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithConnectionsURL overrides the connections endpoint, used by tests.
func WithConnectionsURL(connectionsURL string) ClientOption {
	return func(c *Client) {
		c.connectionsURL = connectionsURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates an API client over the given store and refresher.
func NewClient(store *credentials.Store, refresher TokenRefresher, opts ...ClientOption) *Client {
	c := &Client{
		store:          store,
		refresher:      refresher,
		baseURL:        DefaultBaseURL,
		connectionsURL: DefaultConnectionsURL,
		httpClient:     &http.Client{Timeout: DefaultHTTPTimeout},
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do executes one authenticated resource request and returns the raw JSON
// body on success. Callers unwrap their resource envelope themselves.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	// Tenant precondition comes first so a missing organisation fails
	// before any network traffic, refresh included.
	creds := c.store.Get()
	if creds.TenantID == "" {
		return nil, &ConfigError{Reason: "no tenant configured, run 'xero auth login' first"}
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(tenantHeader, creds.TenantID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("API", "%s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return json.RawMessage(respBody), nil
	}

	clsErr := ClassifyResponse(resp.StatusCode, respBody)
	if rateErr, ok := clsErr.(*RateLimitError); ok {
		rateErr.RetryAfter = resp.Header.Get("Retry-After")
	}
	return nil, clsErr
}

// accessToken returns a usable bearer token, refreshing at most once when
// the cached one fails validation. A refresh failure surfaces as AuthError
// and the resource call is never attempted.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	creds := c.store.Get()
	if credentials.TokenValid(creds.AccessToken, creds.TokenExpiry, c.now()) {
		return creds.AccessToken, nil
	}

	v, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		creds := c.store.Get()
		if credentials.TokenValid(creds.AccessToken, creds.TokenExpiry, c.now()) {
			return creds.AccessToken, nil
		}

		token, err := c.refresher.RefreshAccessToken(ctx, creds.RefreshToken)
		if err != nil {
			return nil, err
		}
		return token.AccessToken, nil
	})
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return "", err
		}
		return "", &AuthError{
			Reason: "token refresh failed, re-authenticate with 'xero auth login'",
			Err:    err,
		}
	}

	return v.(string), nil
}
