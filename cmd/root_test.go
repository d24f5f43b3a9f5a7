package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ktmcp-cli/xero/internal/xero"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "xero" {
		t.Errorf("Expected Use to be 'xero', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	expectedCommands := []string{
		"auth", "config", "tenants",
		"invoices", "contacts", "accounts", "payments", "banktransactions",
		"version", "self-update",
	}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestAuthSubcommands(t *testing.T) {
	expected := []string{"login", "logout", "status", "refresh", "whoami"}
	found := make(map[string]bool)
	for _, cmd := range authCmd.Commands() {
		found[cmd.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("Expected auth subcommand %s to be registered", name)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "config error means setup required",
			err:  &xero.ConfigError{Reason: "no tenant"},
			want: ExitCodeAuthRequired,
		},
		{
			name: "auth error means re-login required",
			err:  &xero.AuthError{Reason: "expired"},
			want: ExitCodeAuthRequired,
		},
		{
			name: "wrapped auth error is unwrapped",
			err:  &xero.AuthError{Reason: "refresh failed", Err: &xero.TokenRefreshError{Description: "invalid_grant"}},
			want: ExitCodeAuthRequired,
		},
		{
			name: "token exchange failure means auth failed",
			err:  &xero.TokenExchangeError{Description: "denied"},
			want: ExitCodeAuthFailed,
		},
		{
			name: "refresh failure means auth failed",
			err:  &xero.TokenRefreshError{Description: "invalid_grant"},
			want: ExitCodeAuthFailed,
		},
		{
			name: "listener failure means auth failed",
			err:  &xero.ListenerError{Addr: "127.0.0.1:8765", Err: errors.New("in use")},
			want: ExitCodeAuthFailed,
		},
		{
			name: "rate limit is a general error",
			err:  &xero.RateLimitError{},
			want: ExitCodeError,
		},
		{
			name: "plain error is a general error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("9.9.9")

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	want := "xero version 9.9.9\n"
	if buf.String() != want {
		t.Errorf("Expected version output %q, got %q", want, buf.String())
	}
}
