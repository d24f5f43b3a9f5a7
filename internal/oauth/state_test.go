package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStateIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state, err := GenerateState()
		require.NoError(t, err)
		assert.NotEmpty(t, state)
		assert.False(t, seen[state], "state values must not repeat")
		seen[state] = true
	}
}

func TestVerifyState(t *testing.T) {
	state, err := GenerateState()
	require.NoError(t, err)

	assert.NoError(t, VerifyState(state, state))
	assert.Error(t, VerifyState(state, state+"x"))
	assert.Error(t, VerifyState(state, ""))
}

func TestAuthorizationURL(t *testing.T) {
	url := AuthorizationURL("my-client", "http://localhost:8765/callback", "offline_access accounting.transactions", "st8")

	assert.Contains(t, url, "https://login.xero.com/identity/connect/authorize")
	assert.Contains(t, url, "client_id=my-client")
	assert.Contains(t, url, "response_type=code")
	assert.Contains(t, url, "state=st8")
	assert.Contains(t, url, "redirect_uri=http%3A%2F%2Flocalhost%3A8765%2Fcallback")
	assert.Contains(t, url, "scope=offline_access+accounting.transactions")
}
