package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
)

// Bank transaction command flags
var (
	bankTxWhere string
	bankTxPage  int
)

// bankTransactionsCmd represents the banktransactions command group
var bankTransactionsCmd = &cobra.Command{
	Use:     "banktransactions",
	Aliases: []string{"banktx"},
	Short:   "List and fetch bank transactions",
	Long: `List and fetch spend and receive money transactions.

Examples:
  xero banktransactions list
  xero banktx list --where 'Type == "SPEND"'
  xero banktx get <transaction-id>`,
}

// bankTransactionsListCmd represents the banktransactions list command
var bankTransactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank transactions",
	Args:  cobra.NoArgs,
	RunE:  runBankTransactionsList,
}

// bankTransactionsGetCmd represents the banktransactions get command
var bankTransactionsGetCmd = &cobra.Command{
	Use:   "get <transaction-id>",
	Short: "Fetch a single bank transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runBankTransactionsGet,
}

func init() {
	rootCmd.AddCommand(bankTransactionsCmd)
	bankTransactionsCmd.AddCommand(bankTransactionsListCmd)
	bankTransactionsCmd.AddCommand(bankTransactionsGetCmd)

	bankTransactionsListCmd.Flags().StringVar(&bankTxWhere, "where", "", "Xero where clause filter")
	bankTransactionsListCmd.Flags().IntVar(&bankTxPage, "page", 0, "Result page (100 records per page)")
}

func runBankTransactionsList(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	transactions, err := client.ListBankTransactions(cmd.Context(), xero.BankTransactionListOptions{
		Where: bankTxWhere,
		Page:  bankTxPage,
	})
	if err != nil {
		return err
	}

	if outputFormat(cfg) == "json" {
		return printJSON(transactions)
	}

	if len(transactions) == 0 {
		printEmpty("No bank transactions found.")
		return nil
	}

	t := newTable("DATE", "TYPE", "CONTACT", "REFERENCE", "TOTAL", "STATUS")
	for _, tx := range transactions {
		contact := ""
		if tx.Contact != nil {
			contact = truncate(tx.Contact.Name, 30)
		}
		t.AppendRow([]interface{}{
			tx.Date, tx.Type, contact, tx.Reference, fmt.Sprintf("%.2f", tx.Total), tx.Status,
		})
	}
	t.Render()
	return nil
}

func runBankTransactionsGet(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	tx, err := client.GetBankTransaction(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(tx)
}
