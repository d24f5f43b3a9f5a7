package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
)

// authWhoamiCmd represents the auth whoami command
var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated identity",
	Long: `Show the identity behind the stored access token.

The Xero access token is a JWT; this decodes its claims locally without
contacting the API. The signature is not verified, the output is
informational only.

Examples:
  xero auth whoami                     # Show identity for the stored token`,
	RunE: runAuthWhoami,
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	creds := store.Get()
	if creds.AccessToken == "" {
		return &xero.AuthError{Reason: "not authenticated, run 'xero auth login' first"}
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(creds.AccessToken, claims); err != nil {
		return fmt.Errorf("failed to decode access token: %w", err)
	}

	if v, ok := claims["xero_userid"].(string); ok {
		fmt.Printf("User ID:         %s\n", v)
	}
	if v, ok := claims["sub"].(string); ok {
		fmt.Printf("Subject:         %s\n", v)
	}
	if v, ok := claims["iss"].(string); ok {
		fmt.Printf("Issuer:          %s\n", v)
	}
	if v, ok := claims["client_id"].(string); ok {
		fmt.Printf("Client:          %s\n", v)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Printf("Token expiry:    %s (%s)\n", exp.UTC().Format(time.RFC3339), formatExpiryWithDirection(exp.Time, time.Now()))
	}
	if creds.TenantID != "" {
		fmt.Printf("Active tenant:   %s\n", creds.TenantID)
	}

	return nil
}
