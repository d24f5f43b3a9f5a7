package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/credentials"
	"github.com/ktmcp-cli/xero/internal/oauth"
	"github.com/ktmcp-cli/xero/internal/xero"
	"github.com/ktmcp-cli/xero/pkg/logging"
)

// Login-specific flags
var (
	loginPort      int
	loginScopes    string
	loginNoBrowser bool
	loginTimeout   time.Duration
)

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Xero",
	Long: `Authenticate with Xero using the OAuth authorization-code flow.

This command starts a local callback listener, opens the Xero consent
page in your browser and exchanges the returned authorization code for
access and refresh tokens. The tokens are stored on disk and renewed
automatically by other commands.

Requires a client id and secret, set via:
  xero config set client-id <id>
  xero config set client-secret <secret>

Examples:
  xero auth login                      # Login with configured defaults
  xero auth login --port 9000          # Use a different callback port
  xero auth login --no-browser         # Print the URL instead of opening it`,
	RunE: runAuthLogin,
}

func init() {
	authLoginCmd.Flags().IntVar(&loginPort, "port", 0, "Local callback port (default from config)")
	authLoginCmd.Flags().StringVar(&loginScopes, "scopes", "", "OAuth scopes to request (default from config)")
	authLoginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	authLoginCmd.Flags().DurationVar(&loginTimeout, "timeout", 10*time.Minute, "How long to wait for the browser callback")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore()
	if err != nil {
		return err
	}

	creds := store.Get()
	if !creds.HasClient() {
		return &xero.ConfigError{Reason: "client credentials not configured, run 'xero config set client-id' and 'xero config set client-secret' first"}
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	port := cfg.CallbackPort
	if loginPort != 0 {
		port = loginPort
	}
	scopes := cfg.Scopes
	if loginScopes != "" {
		scopes = loginScopes
	}

	server := oauth.NewCallbackServer(port)
	redirectURI, err := server.Start(ctx)
	if err != nil {
		return err
	}
	defer server.Stop()

	state, err := oauth.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state: %w", err)
	}

	authURL := oauth.AuthorizationURL(creds.ClientID, redirectURI, scopes, state)

	if loginNoBrowser {
		authPrintln("Open this URL in your browser to authorize:")
		fmt.Println(authURL)
	} else {
		authPrintln("Opening your browser to authorize with Xero...")
		if err := oauth.OpenBrowser(authURL); err != nil {
			logging.Debug("auth", "browser launch failed: %v", err)
			authPrintln("Could not open a browser. Open this URL manually:")
			fmt.Println(authURL)
		}
	}

	result, err := waitForCallback(ctx, server, loginTimeout)
	if err != nil {
		return err
	}

	if result.IsError() {
		return &xero.TokenExchangeError{
			Description: fmt.Sprintf("authorization was denied: %s (%s)", result.Error, result.ErrorDescription),
		}
	}

	if err := oauth.VerifyState(state, result.State); err != nil {
		return &xero.TokenExchangeError{Description: "state mismatch in callback", Err: err}
	}

	exchanger := oauth.NewExchanger(store)
	token, err := exchanger.ExchangeAuthorizationCode(ctx, result.Code, redirectURI)
	if err != nil {
		return err
	}

	authPrint("%s Authenticated, token %s.\n",
		text.FgGreen.Sprint("✓"), formatExpiryWithDirection(token.Expiry, time.Now()))

	return selectTenantAfterLogin(ctx, store)
}

// waitForCallback blocks until the local listener receives the OAuth
// redirect, showing a spinner unless --quiet is set.
func waitForCallback(ctx context.Context, server *oauth.CallbackServer, timeout time.Duration) (*oauth.CallbackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var s *spinner.Spinner
	if !authQuietFlag {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Waiting for authorization in your browser..."
		s.Start()
		defer s.Stop()
	}

	result, err := server.WaitForCallback(ctx)
	if err != nil {
		if s != nil {
			s.FinalMSG = text.FgRed.Sprint("Authorization timed out") + "\n"
		}
		return nil, &xero.TokenExchangeError{Description: "timed out waiting for the browser callback", Err: err}
	}
	return result, nil
}

// selectTenantAfterLogin fetches the authorized tenant connections and
// records the first one. A connections failure is not fatal: the tokens
// are already stored and the tenant can be picked later.
func selectTenantAfterLogin(ctx context.Context, store *credentials.Store) error {
	client := xero.NewClient(store, oauth.NewExchanger(store))

	connections, err := client.ListConnections(ctx)
	if err != nil {
		// Partial success: the tokens are stored, only the tenant discovery
		// failed. The command still fails so scripts notice.
		authPrint("%s Tokens were stored, but listing tenant connections failed.\n", text.FgYellow.Sprint("!"))
		authPrintln("Run 'xero tenants select' once the connection works.")
		return err
	}

	if len(connections) == 0 {
		authPrint("%s No tenant connections were authorized.\n", text.FgYellow.Sprint("!"))
		authPrintln("Authorize at least one organisation in Xero, then run 'xero tenants select'.")
		return nil
	}

	if err := store.SetTenant(connections[0].TenantID); err != nil {
		return err
	}
	authPrint("Using tenant %s (%s).\n", connections[0].TenantName, connections[0].TenantID)

	if len(connections) > 1 {
		authPrint("%s %d tenants are authorized; run 'xero tenants select' to switch.\n",
			text.FgYellow.Sprint("!"), len(connections))
	}
	return nil
}
