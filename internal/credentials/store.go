package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/ktmcp-cli/xero/pkg/logging"
)

// DefaultStorageDir is the default directory for the credential file,
// relative to the user's home directory.
const DefaultStorageDir = ".config/xero"

// credentialsFileName is the file holding the single credential record.
const credentialsFileName = "credentials.json"

// tokenExpiryBuffer is the margin applied when checking access token
// validity. It accounts for clock skew and the window between validation
// and use of the token.
const tokenExpiryBuffer = 60 * time.Second

// Credentials is the single persisted credential record. All writes
// through the store replace whole fields, never partial patches.
type Credentials struct {
	// ClientID and ClientSecret identify the OAuth application.
	// Set once via `xero config set`, never touched by token exchanges.
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	// AccessToken is the bearer credential for API calls. Empty = absent.
	AccessToken string `json:"access_token"`

	// RefreshToken mints new access tokens without user interaction.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenExpiry is the absolute epoch-millisecond timestamp after which
	// AccessToken must be treated as invalid. 0 = never issued.
	TokenExpiry int64 `json:"token_expiry"`

	// TenantID is the connected organisation, required on every
	// resource-level API call.
	TenantID string `json:"tenant_id,omitempty"`
}

// HasClient reports whether both client id and secret are configured.
func (c Credentials) HasClient() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Expiry returns the token expiry as a time.Time. Zero when never issued.
func (c Credentials) Expiry() time.Time {
	if c.TokenExpiry == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.TokenExpiry)
}

// Token converts the stored tokens to an oauth2.Token.
func (c Credentials) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.Expiry(),
	}
}

// TokenValid is the single freshness check used everywhere a token is
// validated. It returns true iff the access token is non-empty and more
// than the expiry buffer away from expiring at the given instant.
func TokenValid(accessToken string, expiryMillis int64, now time.Time) bool {
	if accessToken == "" {
		return false
	}
	return expiryMillis-now.UnixMilli() > tokenExpiryBuffer.Milliseconds()
}

// StoreConfig configures the credential store.
type StoreConfig struct {
	// StorageDir is the directory for the credential file.
	// Defaults to ~/.config/xero.
	StorageDir string

	// FileMode enables file persistence. If false, credentials live in
	// memory only, which is what tests use.
	FileMode bool
}

// Store provides persistence for the credential record.
//
// SECURITY: the store handles client secrets and OAuth tokens. The file is
// created with 0600 permissions in a 0700 directory, and credential values
// are never logged.
type Store struct {
	mu       sync.RWMutex
	path     string
	fileMode bool
	creds    Credentials
}

// NewStore creates a credential store and loads the existing record, if any.
func NewStore(cfg StoreConfig) (*Store, error) {
	storageDir := cfg.StorageDir
	if storageDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		storageDir = filepath.Join(homeDir, DefaultStorageDir)
	}

	store := &Store{
		path:     filepath.Join(storageDir, credentialsFileName),
		fileMode: cfg.FileMode,
	}

	if cfg.FileMode {
		if err := os.MkdirAll(storageDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create credential storage directory: %w", err)
		}
		if err := store.load(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Get returns a copy of the current credential record.
func (s *Store) Get() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// SetClient replaces the client id and secret. Tokens and tenant are kept,
// although tokens minted for a different application will stop working.
func (s *Store) SetClient(id, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.ClientID = id
	s.creds.ClientSecret = secret
	return s.save()
}

// SetTenant replaces the active organisation id.
func (s *Store) SetTenant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.TenantID = id
	return s.save()
}

// SetTokens atomically replaces the access token, refresh token and expiry.
// Callers decide what refresh token to pass; a refresh grant that did not
// rotate the token passes the previous value back in.
func (s *Store) SetTokens(accessToken, refreshToken string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = accessToken
	s.creds.RefreshToken = refreshToken
	s.creds.TokenExpiry = expiry.UnixMilli()
	if err := s.save(); err != nil {
		logging.Warn("Credentials", "failed to persist tokens: %v", err)
		return err
	}
	logging.Debug("Credentials", "tokens stored (expiry=%s, has_refresh=%t)",
		expiry.Format(time.RFC3339), refreshToken != "")
	return nil
}

// ClearTokens removes tokens and tenant but keeps the client id and secret,
// so the user can log in again without re-running setup.
func (s *Store) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = ""
	s.creds.RefreshToken = ""
	s.creds.TokenExpiry = 0
	s.creds.TenantID = ""
	return s.save()
}

// Clear removes the whole record, client credentials included.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	if !s.fileMode {
		return nil
	}
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Path returns the location of the backing file, empty in memory mode.
func (s *Store) Path() string {
	if !s.fileMode {
		return ""
	}
	return s.path
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read credential file: %w", err)
	}
	if err := json.Unmarshal(data, &s.creds); err != nil {
		return fmt.Errorf("failed to parse credential file %s: %w", s.path, err)
	}
	return nil
}

// save persists the record. Caller must hold s.mu.
func (s *Store) save() error {
	if !s.fileMode {
		return nil
	}

	data, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Owner read/write only.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	return nil
}
