package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/oauth"
)

var authQuietFlag bool

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with Xero",
	Long: `Manage OAuth authentication for the Xero API.

The auth command group provides subcommands to login, logout, check status,
and refresh the access token.

Examples:
  xero auth login                      # Browser-based OAuth login
  xero auth status                     # Show authentication status
  xero auth refresh                    # Force token refresh
  xero auth logout                     # Clear tokens, keep client credentials
  xero auth logout --all               # Clear everything including credentials
  xero auth whoami                     # Show the authenticated identity`,
}

// Logout-specific flags
var (
	logoutAll bool
	logoutYes bool
)

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored tokens",
	Long: `Clear stored OAuth tokens.

By default this removes the access and refresh tokens but keeps the
client id and secret, so a plain 'xero auth login' works afterwards.
With --all the client credentials and tenant selection are removed too.

Examples:
  xero auth logout                     # Clear tokens only
  xero auth logout --all               # Clear everything
  xero auth logout --all --yes         # Clear everything without confirmation`,
	RunE: runAuthLogout,
}

// authRefreshCmd represents the auth refresh command
var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force token refresh",
	Long: `Force a refresh of the access token using the stored refresh token.

Commands refresh automatically when the token is about to expire, so this
is mainly useful to verify that the refresh token still works.`,
	RunE: runAuthRefresh,
}

// authPrint prints output only if the --quiet flag is not set.
// Use this for progress messages and non-essential output.
func authPrint(format string, args ...interface{}) {
	if !authQuietFlag {
		fmt.Printf(format, args...)
	}
}

// authPrintln prints a line only if the --quiet flag is not set.
func authPrintln(a ...interface{}) {
	if !authQuietFlag {
		fmt.Println(a...)
	}
}

// confirm asks the user a yes/no question on stdin.
func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authWhoamiCmd)

	authCmd.PersistentFlags().BoolVarP(&authQuietFlag, "quiet", "q", false, "Suppress non-essential output")

	authLogoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Also remove client credentials and tenant selection")
	authLogoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Skip confirmation prompt")
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if logoutAll {
		if !logoutYes {
			ok, err := confirm("This removes the stored client id, secret, tokens and tenant selection. Continue?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		authPrintln("Removed all stored credentials.")
		return nil
	}

	creds := store.Get()
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		authPrintln("No stored tokens to clear.")
		return nil
	}

	if !logoutYes {
		ok, err := confirm("Clear the stored access and refresh tokens?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.ClearTokens(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}

	authPrintln("Logged out. Client credentials kept; run 'xero auth login' to re-authenticate.")
	return nil
}

func runAuthRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore()
	if err != nil {
		return err
	}

	exchanger := oauth.NewExchanger(store)
	creds := store.Get()

	authPrintln("Refreshing access token...")
	token, err := exchanger.RefreshAccessToken(ctx, creds.RefreshToken)
	if err != nil {
		return err
	}

	authPrint("Token refreshed, %s.\n", formatExpiryWithDirection(token.Expiry, time.Now()))
	return nil
}
