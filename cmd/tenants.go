package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
)

// tenantsCmd represents the tenants command group
var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Manage authorized Xero tenants",
	Long: `Manage the Xero organisations (tenants) authorized for this client.

Every API call is scoped to one tenant. Login selects the first
authorized tenant automatically; use these commands to inspect and
switch the selection.

Examples:
  xero tenants list                    # List authorized tenants
  xero tenants select                  # Pick a tenant interactively
  xero tenants select <tenant-id>      # Select a tenant by id`,
}

// tenantsListCmd represents the tenants list command
var tenantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authorized tenants",
	Args:  cobra.NoArgs,
	RunE:  runTenantsList,
}

// tenantsSelectCmd represents the tenants select command
var tenantsSelectCmd = &cobra.Command{
	Use:   "select [tenant-id-or-index]",
	Short: "Select the active tenant",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTenantsSelect,
}

func init() {
	rootCmd.AddCommand(tenantsCmd)
	tenantsCmd.AddCommand(tenantsListCmd)
	tenantsCmd.AddCommand(tenantsSelectCmd)
}

func runTenantsList(cmd *cobra.Command, args []string) error {
	client, store, err := newAPIClient()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	connections, err := client.ListConnections(cmd.Context())
	if err != nil {
		return err
	}

	if outputFormat(cfg) == "json" {
		return printJSON(connections)
	}

	if len(connections) == 0 {
		printEmpty("No tenants are authorized for this client.")
		return nil
	}

	active := store.Get().TenantID
	t := newTable("", "NAME", "TENANT ID", "TYPE")
	for _, conn := range connections {
		marker := ""
		if conn.TenantID == active {
			marker = text.FgGreen.Sprint("*")
		}
		t.AppendRow([]interface{}{marker, conn.TenantName, conn.TenantID, conn.TenantType})
	}
	t.Render()
	return nil
}

func runTenantsSelect(cmd *cobra.Command, args []string) error {
	client, store, err := newAPIClient()
	if err != nil {
		return err
	}

	connections, err := client.ListConnections(cmd.Context())
	if err != nil {
		return err
	}
	if len(connections) == 0 {
		return &xero.ConfigError{Reason: "no tenants are authorized, run 'xero auth login' first"}
	}

	if len(args) == 1 {
		// Accept either a 1-based list index or a tenant id.
		if idx, err := strconv.Atoi(args[0]); err == nil && idx >= 1 && idx <= len(connections) {
			chosen := connections[idx-1]
			if err := store.SetTenant(chosen.TenantID); err != nil {
				return err
			}
			fmt.Printf("Selected tenant %s (%s).\n", chosen.TenantName, chosen.TenantID)
			return nil
		}
		for _, conn := range connections {
			if conn.TenantID == args[0] {
				if err := store.SetTenant(conn.TenantID); err != nil {
					return err
				}
				fmt.Printf("Selected tenant %s (%s).\n", conn.TenantName, conn.TenantID)
				return nil
			}
		}
		return &xero.NotFoundError{Detail: fmt.Sprintf("tenant %s is not authorized for this client", args[0])}
	}

	fmt.Println("Authorized tenants:")
	for i, conn := range connections {
		fmt.Printf("  %d. %s (%s)\n", i+1, conn.TenantName, conn.TenantID)
	}
	fmt.Printf("Select a tenant [1-%d]: ", len(connections))

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	idx, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil || idx < 1 || idx > len(connections) {
		return fmt.Errorf("invalid selection %q", strings.TrimSpace(response))
	}

	chosen := connections[idx-1]
	if err := store.SetTenant(chosen.TenantID); err != nil {
		return err
	}
	fmt.Printf("Selected tenant %s (%s).\n", chosen.TenantName, chosen.TenantID)
	return nil
}
