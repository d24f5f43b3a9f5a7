package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/config"
	"github.com/ktmcp-cli/xero/internal/xero"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and client credentials.

Client credentials (client-id, client-secret) are stored in the
credential file alongside tokens. The remaining settings live in
config.yaml in the same directory.

Supported keys:
  client-id        OAuth client id from the Xero developer portal
  client-secret    OAuth client secret
  callback-port    Local port for the OAuth callback listener
  scopes           OAuth scopes requested at login
  output           Default output format (table or json)

Examples:
  xero config set client-id ABC123
  xero config set callback-port 9000
  xero config get scopes
  xero config show`,
}

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

// configGetCmd represents the config get command
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
}

// redact masks a secret for display, keeping a short prefix.
func redact(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	switch key {
	case "client-id", "client-secret":
		store, err := openStore()
		if err != nil {
			return err
		}
		creds := store.Get()
		if key == "client-id" {
			err = store.SetClient(value, creds.ClientSecret)
		} else {
			err = store.SetClient(creds.ClientID, value)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Set %s.\n", key)
		return nil

	case "callback-port", "scopes", "output":
		dir, err := configDir()
		if err != nil {
			return err
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}

		switch key {
		case "callback-port":
			port, err := strconv.Atoi(value)
			if err != nil || port < 1 || port > 65535 {
				return &xero.ConfigError{Reason: fmt.Sprintf("invalid callback-port %q, expected a port number", value)}
			}
			cfg.CallbackPort = port
		case "scopes":
			cfg.Scopes = value
		case "output":
			if value != "table" && value != "json" {
				return &xero.ConfigError{Reason: fmt.Sprintf("invalid output %q, expected table or json", value)}
			}
			cfg.Output = value
		}

		if err := config.Save(dir, cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s to %s.\n", key, value)
		return nil

	default:
		return &xero.ConfigError{Reason: fmt.Sprintf("unknown config key %q", key)}
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	creds := store.Get()

	switch key {
	case "client-id":
		fmt.Println(creds.ClientID)
	case "client-secret":
		fmt.Println(redact(creds.ClientSecret))
	case "callback-port":
		fmt.Println(cfg.CallbackPort)
	case "scopes":
		fmt.Println(cfg.Scopes)
	case "output":
		fmt.Println(cfg.Output)
	default:
		return &xero.ConfigError{Reason: fmt.Sprintf("unknown config key %q", key)}
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	creds := store.Get()

	t := newTable("KEY", "VALUE")
	t.AppendRow([]interface{}{"client-id", creds.ClientID})
	t.AppendRow([]interface{}{"client-secret", redact(creds.ClientSecret)})
	t.AppendRow([]interface{}{"callback-port", cfg.CallbackPort})
	t.AppendRow([]interface{}{"scopes", cfg.Scopes})
	t.AppendRow([]interface{}{"output", cfg.Output})
	t.AppendRow([]interface{}{"credentials", store.Path()})
	t.Render()
	return nil
}
