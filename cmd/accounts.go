package cmd

import (
	"github.com/spf13/cobra"
)

var accountWhere string

// accountsCmd represents the accounts command group
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the chart of accounts",
	Long: `List the chart of accounts for the active tenant.

Examples:
  xero accounts list
  xero accounts list --where 'Type == "BANK"'`,
}

// accountsListCmd represents the accounts list command
var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountsList,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd)

	accountsListCmd.Flags().StringVar(&accountWhere, "where", "", "Xero where clause filter")
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	accounts, err := client.ListAccounts(cmd.Context(), accountWhere)
	if err != nil {
		return err
	}

	if outputFormat(cfg) == "json" {
		return printJSON(accounts)
	}

	if len(accounts) == 0 {
		printEmpty("No accounts found.")
		return nil
	}

	t := newTable("CODE", "NAME", "TYPE", "TAX TYPE", "STATUS")
	for _, a := range accounts {
		t.AppendRow([]interface{}{a.Code, truncate(a.Name, 40), a.Type, a.TaxType, a.Status})
	}
	t.Render()
	return nil
}
