package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValid(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name         string
		accessToken  string
		expiryMillis int64
		valid        bool
	}{
		{
			name:         "empty token is invalid regardless of expiry",
			accessToken:  "",
			expiryMillis: now.UnixMilli() + 3_600_000,
			valid:        false,
		},
		{
			name:         "token expiring well in the future is valid",
			accessToken:  "tok",
			expiryMillis: now.UnixMilli() + 3_600_000,
			valid:        true,
		},
		{
			name:         "token just past the buffer is valid",
			accessToken:  "tok",
			expiryMillis: now.UnixMilli() + 60_001,
			valid:        true,
		},
		{
			name:         "token exactly at the buffer is invalid",
			accessToken:  "tok",
			expiryMillis: now.UnixMilli() + 60_000,
			valid:        false,
		},
		{
			name:         "token inside the buffer is invalid",
			accessToken:  "tok",
			expiryMillis: now.UnixMilli() + 30_000,
			valid:        false,
		},
		{
			name:         "expired token is invalid",
			accessToken:  "tok",
			expiryMillis: now.UnixMilli() - 1_000,
			valid:        false,
		},
		{
			name:         "zero expiry is invalid",
			accessToken:  "tok",
			expiryMillis: 0,
			valid:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, TokenValid(tt.accessToken, tt.expiryMillis, now))
		})
	}
}

func TestStorePersistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(StoreConfig{StorageDir: dir, FileMode: true})
	require.NoError(t, err)

	require.NoError(t, store.SetClient("client-id", "client-secret"))
	expiry := time.Now().Add(30 * time.Minute).Truncate(time.Millisecond)
	require.NoError(t, store.SetTokens("AT1", "RT1", expiry))
	require.NoError(t, store.SetTenant("tenant-1"))

	// A fresh store over the same directory sees the full record.
	reopened, err := NewStore(StoreConfig{StorageDir: dir, FileMode: true})
	require.NoError(t, err)

	creds := reopened.Get()
	assert.Equal(t, "client-id", creds.ClientID)
	assert.Equal(t, "client-secret", creds.ClientSecret)
	assert.Equal(t, "AT1", creds.AccessToken)
	assert.Equal(t, "RT1", creds.RefreshToken)
	assert.Equal(t, expiry.UnixMilli(), creds.TokenExpiry)
	assert.Equal(t, "tenant-1", creds.TenantID)
}

func TestStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(StoreConfig{StorageDir: dir, FileMode: true})
	require.NoError(t, err)
	require.NoError(t, store.SetClient("id", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreFileShape(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(StoreConfig{StorageDir: dir, FileMode: true})
	require.NoError(t, err)
	require.NoError(t, store.SetClient("id", "secret"))
	require.NoError(t, store.SetTokens("AT1", "RT1", time.UnixMilli(1_700_000_000_000)))

	data, err := os.ReadFile(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)

	var onDisk map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "AT1", onDisk["access_token"])
	assert.Equal(t, "RT1", onDisk["refresh_token"])
	assert.Equal(t, float64(1_700_000_000_000), onDisk["token_expiry"])
}

func TestClearTokensKeepsClient(t *testing.T) {
	store, err := NewStore(StoreConfig{StorageDir: t.TempDir(), FileMode: true})
	require.NoError(t, err)

	require.NoError(t, store.SetClient("id", "secret"))
	require.NoError(t, store.SetTokens("AT1", "RT1", time.Now().Add(time.Hour)))
	require.NoError(t, store.SetTenant("tenant-1"))

	require.NoError(t, store.ClearTokens())

	creds := store.Get()
	assert.True(t, creds.HasClient())
	assert.Empty(t, creds.AccessToken)
	assert.Empty(t, creds.RefreshToken)
	assert.Zero(t, creds.TokenExpiry)
	assert.Empty(t, creds.TenantID)
}

func TestClearRemovesFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(StoreConfig{StorageDir: dir, FileMode: true})
	require.NoError(t, err)
	require.NoError(t, store.SetClient("id", "secret"))

	require.NoError(t, store.Clear())

	assert.False(t, store.Get().HasClient())
	_, err = os.Stat(filepath.Join(dir, "credentials.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryModeWritesNothing(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(StoreConfig{StorageDir: dir})
	require.NoError(t, err)
	require.NoError(t, store.SetTokens("AT1", "RT1", time.Now().Add(time.Hour)))

	assert.Empty(t, store.Path())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpiryZeroWhenNeverIssued(t *testing.T) {
	var c Credentials
	assert.True(t, c.Expiry().IsZero())
}
