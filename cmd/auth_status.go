package cmd

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/credentials"
)

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show the current authentication state.

Displays whether client credentials are configured, whether a valid
access token is stored, when it expires, and which tenant is selected.

Examples:
  xero auth status                     # Human-readable status
  xero auth status -o json             # Machine-readable status`,
	RunE: runAuthStatus,
}

// authStatusOutput is the JSON shape of auth status.
type authStatusOutput struct {
	ClientConfigured bool   `json:"client_configured"`
	Authenticated    bool   `json:"authenticated"`
	TokenValid       bool   `json:"token_valid"`
	TokenExpiry      string `json:"token_expiry,omitempty"`
	RefreshAvailable bool   `json:"refresh_available"`
	TenantID         string `json:"tenant_id,omitempty"`
	CredentialsPath  string `json:"credentials_path"`
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	creds := store.Get()
	now := time.Now()

	status := authStatusOutput{
		ClientConfigured: creds.HasClient(),
		Authenticated:    creds.AccessToken != "",
		TokenValid:       credentials.TokenValid(creds.AccessToken, creds.TokenExpiry, now),
		RefreshAvailable: creds.RefreshToken != "",
		TenantID:         creds.TenantID,
		CredentialsPath:  store.Path(),
	}
	if creds.TokenExpiry != 0 {
		status.TokenExpiry = creds.Expiry().UTC().Format(time.RFC3339)
	}

	if outputFormat(cfg) == "json" {
		return printJSON(status)
	}

	authPrintln("Xero authentication")

	if !status.ClientConfigured {
		authPrint("  Client:    %s\n", text.FgYellow.Sprint("Not configured"))
		authPrintln("\nSet credentials with 'xero config set client-id' and 'xero config set client-secret'.")
		return nil
	}
	authPrint("  Client:    %s\n", text.FgGreen.Sprint("Configured"))

	switch {
	case !status.Authenticated:
		authPrint("  Status:    %s\n", text.FgYellow.Sprint("Not authenticated"))
		authPrintln("\nRun 'xero auth login' to authenticate.")
		return nil
	case status.TokenValid:
		authPrint("  Status:    %s\n", text.FgGreen.Sprint("Authenticated"))
	default:
		authPrint("  Status:    %s\n", text.FgYellow.Sprint("Token expired"))
	}

	authPrint("  Token:     %s\n", formatExpiryWithDirection(creds.Expiry(), now))
	if status.RefreshAvailable {
		authPrint("  Refresh:   %s\n", text.FgGreen.Sprint("Available"))
	} else {
		authPrint("  Refresh:   %s\n", text.FgYellow.Sprint("Not available (re-login required on expiry)"))
	}

	if status.TenantID != "" {
		authPrint("  Tenant:    %s\n", status.TenantID)
	} else {
		authPrint("  Tenant:    %s\n", text.FgYellow.Sprint("None selected ('xero tenants select')"))
	}

	return nil
}
