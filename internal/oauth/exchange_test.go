package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmcp-cli/xero/internal/credentials"
	"github.com/ktmcp-cli/xero/internal/xero"
)

func newTestStore(t *testing.T) *credentials.Store {
	t.Helper()
	store, err := credentials.NewStore(credentials.StoreConfig{StorageDir: t.TempDir()})
	require.NoError(t, err)
	return store
}

// tokenEndpoint fakes the identity token endpoint and records requests.
type tokenEndpoint struct {
	server   *httptest.Server
	requests atomic.Int64

	status   int
	response map[string]interface{}

	lastForm     map[string]string
	lastUser     string
	lastPassword string
}

func newTokenEndpoint(t *testing.T) *tokenEndpoint {
	t.Helper()
	te := &tokenEndpoint{status: http.StatusOK}
	te.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		te.requests.Add(1)

		require.NoError(t, r.ParseForm())
		te.lastForm = map[string]string{}
		for k := range r.PostForm {
			te.lastForm[k] = r.PostForm.Get(k)
		}
		te.lastUser, te.lastPassword, _ = r.BasicAuth()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(te.status)
		json.NewEncoder(w).Encode(te.response)
	}))
	t.Cleanup(te.server.Close)
	return te
}

func TestExchangeAuthorizationCode(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))

	endpoint := newTokenEndpoint(t)
	endpoint.response = map[string]interface{}{
		"access_token":  "AT1",
		"refresh_token": "RT1",
		"token_type":    "Bearer",
		"expires_in":    1800,
	}

	now := time.UnixMilli(1_700_000_000_000)
	exchanger := NewExchanger(store,
		WithTokenURL(endpoint.server.URL),
		WithClock(func() time.Time { return now }),
	)

	token, err := exchanger.ExchangeAuthorizationCode(context.Background(), "the-code", "http://localhost:8765/callback")
	require.NoError(t, err)

	assert.Equal(t, "AT1", token.AccessToken)
	assert.Equal(t, "RT1", token.RefreshToken)
	assert.Equal(t, now.Add(1800*time.Second), token.Expiry)

	assert.Equal(t, "authorization_code", endpoint.lastForm["grant_type"])
	assert.Equal(t, "the-code", endpoint.lastForm["code"])
	assert.Equal(t, "http://localhost:8765/callback", endpoint.lastForm["redirect_uri"])
	assert.Equal(t, "my-client", endpoint.lastUser)
	assert.Equal(t, "my-secret", endpoint.lastPassword)

	creds := store.Get()
	assert.Equal(t, "AT1", creds.AccessToken)
	assert.Equal(t, "RT1", creds.RefreshToken)
	assert.Equal(t, now.Add(1800*time.Second).UnixMilli(), creds.TokenExpiry)
}

func TestExchangeOverwritesStoredRefreshToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))
	require.NoError(t, store.SetTokens("old-access", "RT-old", time.Now()))

	endpoint := newTokenEndpoint(t)
	endpoint.response = map[string]interface{}{
		"access_token":  "AT1",
		"refresh_token": "RT-new",
		"token_type":    "Bearer",
		"expires_in":    1800,
	}

	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	_, err := exchanger.ExchangeAuthorizationCode(context.Background(), "code", "uri")
	require.NoError(t, err)

	assert.Equal(t, "RT-new", store.Get().RefreshToken)
}

func TestExchangeWithoutClientCredentials(t *testing.T) {
	store := newTestStore(t)
	endpoint := newTokenEndpoint(t)

	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	_, err := exchanger.ExchangeAuthorizationCode(context.Background(), "code", "uri")

	var configErr *xero.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Zero(t, endpoint.requests.Load(), "endpoint must not be contacted without client credentials")
}

func TestExchangeErrorSurfacesDescription(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))

	endpoint := newTokenEndpoint(t)
	endpoint.status = http.StatusBadRequest
	endpoint.response = map[string]interface{}{
		"error":             "invalid_grant",
		"error_description": "authorization code expired",
	}

	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	_, err := exchanger.ExchangeAuthorizationCode(context.Background(), "stale", "uri")

	var exchangeErr *xero.TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Contains(t, exchangeErr.Error(), "authorization code expired")

	// A failed exchange leaves the store untouched.
	assert.Empty(t, store.Get().AccessToken)
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))

	endpoint := newTokenEndpoint(t)
	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	_, err := exchanger.RefreshAccessToken(context.Background(), "")

	var authErr *xero.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, endpoint.requests.Load())
}

func TestRefreshRotatesTokens(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))
	require.NoError(t, store.SetTokens("AT1", "RT1", time.Now()))

	endpoint := newTokenEndpoint(t)
	endpoint.response = map[string]interface{}{
		"access_token":  "AT2",
		"refresh_token": "RT2",
		"token_type":    "Bearer",
		"expires_in":    1800,
	}

	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	token, err := exchanger.RefreshAccessToken(context.Background(), "RT1")
	require.NoError(t, err)

	assert.Equal(t, "refresh_token", endpoint.lastForm["grant_type"])
	assert.Equal(t, "RT1", endpoint.lastForm["refresh_token"])

	assert.Equal(t, "AT2", token.AccessToken)
	assert.Equal(t, "RT2", token.RefreshToken)
	assert.Equal(t, "RT2", store.Get().RefreshToken)
}

func TestRefreshPreservesUnrotatedRefreshToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))
	require.NoError(t, store.SetTokens("AT1", "RT1", time.Now()))

	endpoint := newTokenEndpoint(t)
	endpoint.response = map[string]interface{}{
		"access_token": "AT2",
		"token_type":   "Bearer",
		"expires_in":   1800,
	}

	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	token, err := exchanger.RefreshAccessToken(context.Background(), "RT1")
	require.NoError(t, err)

	assert.Equal(t, "RT1", token.RefreshToken)
	assert.Equal(t, "RT1", store.Get().RefreshToken)
}

func TestRefreshFailureIsRefreshError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetClient("my-client", "my-secret"))

	endpoint := newTokenEndpoint(t)
	endpoint.status = http.StatusBadRequest
	endpoint.response = map[string]interface{}{"error": "invalid_grant"}

	exchanger := NewExchanger(store, WithTokenURL(endpoint.server.URL))

	_, err := exchanger.RefreshAccessToken(context.Background(), "revoked")

	var refreshErr *xero.TokenRefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Contains(t, refreshErr.Error(), "invalid_grant")
}
