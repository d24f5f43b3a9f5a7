package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ktmcp-cli/xero/internal/credentials"
	"github.com/ktmcp-cli/xero/internal/xero"
	"github.com/ktmcp-cli/xero/pkg/logging"
)

// DefaultTokenURL is the Xero identity token endpoint.
const DefaultTokenURL = "https://identity.xero.com/connect/token"

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// tokenResponse is the wire shape of a successful token endpoint response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

// tokenErrorResponse is the wire shape of a failed token endpoint response.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchanger performs the two OAuth grant exchanges against the identity
// endpoint. On success it atomically updates the injected credential store,
// so callers never see tokens that are not yet persisted.
type Exchanger struct {
	store      *credentials.Store
	tokenURL   string
	httpClient *http.Client
	now        func() time.Time
}

// ExchangerOption configures the exchanger.
type ExchangerOption func(*Exchanger)

// WithTokenURL overrides the token endpoint, used by tests.
func WithTokenURL(tokenURL string) ExchangerOption {
	return func(e *Exchanger) {
		e.tokenURL = tokenURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ExchangerOption {
	return func(e *Exchanger) {
		e.httpClient = httpClient
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ExchangerOption {
	return func(e *Exchanger) {
		e.now = now
	}
}

// NewExchanger creates a token exchanger backed by the given store.
func NewExchanger(store *credentials.Store, opts ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		store:      store,
		tokenURL:   DefaultTokenURL,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExchangeAuthorizationCode exchanges an authorization code for tokens and
// stores them. The refresh token from the response always replaces the
// stored one.
func (e *Exchanger) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	creds := e.store.Get()
	if !creds.HasClient() {
		return nil, &xero.ConfigError{Reason: "client id and secret are not configured, run 'xero config set client-id <id>' and 'xero config set client-secret <secret>' first"}
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}

	resp, err := e.doTokenRequest(ctx, creds.ClientID, creds.ClientSecret, form)
	if err != nil {
		return nil, &xero.TokenExchangeError{Description: err.Error(), Err: err}
	}

	return e.storeGrant(resp, resp.RefreshToken)
}

// RefreshAccessToken exchanges a refresh token for a new access token and
// stores the result. When the response does not rotate the refresh token,
// the one passed in is preserved unchanged.
func (e *Exchanger) RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, &xero.AuthError{Reason: "no refresh token available, run 'xero auth login'"}
	}

	creds := e.store.Get()
	if !creds.HasClient() {
		return nil, &xero.ConfigError{Reason: "client id and secret are not configured, run 'xero config set client-id <id>' and 'xero config set client-secret <secret>' first"}
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	resp, err := e.doTokenRequest(ctx, creds.ClientID, creds.ClientSecret, form)
	if err != nil {
		return nil, &xero.TokenRefreshError{Description: err.Error(), Err: err}
	}

	newRefresh := resp.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}

	return e.storeGrant(resp, newRefresh)
}

// storeGrant persists a successful grant and returns it as an oauth2.Token.
func (e *Exchanger) storeGrant(resp *tokenResponse, refreshToken string) (*oauth2.Token, error) {
	expiry := e.now().Add(time.Duration(resp.ExpiresIn) * time.Second)

	if err := e.store.SetTokens(resp.AccessToken, refreshToken, expiry); err != nil {
		return nil, fmt.Errorf("failed to persist tokens: %w", err)
	}

	logging.Debug("OAuth", "grant stored (expires_in=%d, rotated_refresh=%t)",
		resp.ExpiresIn, resp.RefreshToken != "")

	return &oauth2.Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    resp.TokenType,
		Expiry:       expiry,
	}, nil
}

// doTokenRequest posts a form to the token endpoint with HTTP Basic
// authentication. The returned error carries the upstream error_description
// when the endpoint supplied one, else the transport error text.
func (e *Exchanger) doTokenRequest(ctx context.Context, clientID, clientSecret string, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var upstream tokenErrorResponse
		// Body may not be JSON at all, the status fallback covers that.
		_ = json.Unmarshal(body, &upstream)
		if upstream.ErrorDescription != "" {
			return nil, fmt.Errorf("%s", upstream.ErrorDescription)
		}
		if upstream.Error != "" {
			return nil, fmt.Errorf("%s", upstream.Error)
		}
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	return &token, nil
}
