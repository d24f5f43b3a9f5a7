package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
	"github.com/ktmcp-cli/xero/pkg/logging"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can distinguish "run setup / login again" from plain failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates missing configuration or credentials.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow itself failed.
	ExitCodeAuthFailed = 3
)

// Persistent flags shared by all commands.
var (
	rootOutput    string
	rootDebug     bool
	rootConfigDir string
)

// rootCmd represents the base command for the xero application.
var rootCmd = &cobra.Command{
	Use:   "xero",
	Short: "Command-line client for the Xero accounting API",
	Long: `xero is a command-line client for the Xero accounting API.

It handles the OAuth 2.0 authorization-code flow with refresh-token
renewal and lets you list, fetch and create invoices, contacts,
accounts, payments and bank transactions from the terminal.

Get started:
  xero config set client-id <id>
  xero config set client-secret <secret>
  xero auth login`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "xero version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps the error taxonomy to semantic exit codes at the
// command boundary.
func getExitCode(err error) int {
	var configErr *xero.ConfigError
	if errors.As(err, &configErr) {
		return ExitCodeAuthRequired
	}

	var authErr *xero.AuthError
	if errors.As(err, &authErr) {
		return ExitCodeAuthRequired
	}

	var exchangeErr *xero.TokenExchangeError
	if errors.As(err, &exchangeErr) {
		return ExitCodeAuthFailed
	}

	var refreshErr *xero.TokenRefreshError
	if errors.As(err, &refreshErr) {
		return ExitCodeAuthFailed
	}

	var listenerErr *xero.ListenerError
	if errors.As(err, &listenerErr) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOutput, "output", "o", "", "Output format: table or json (default from config)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootConfigDir, "config-dir", "", "Config directory (default $HOME/.config/xero)")
}
