package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
)

// Invoice command flags
var (
	invoiceStatus   string
	invoiceWhere    string
	invoicePage     int
	invoiceFromFile string
)

// invoicesCmd represents the invoices command group
var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List, fetch and create invoices",
	Long: `List, fetch and create invoices for the active tenant.

Examples:
  xero invoices list
  xero invoices list --status AUTHORISED --page 2
  xero invoices list --where 'AmountDue > 0'
  xero invoices get INV-0042
  xero invoices create --from-file invoice.json`,
}

// invoicesListCmd represents the invoices list command
var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	Args:  cobra.NoArgs,
	RunE:  runInvoicesList,
}

// invoicesGetCmd represents the invoices get command
var invoicesGetCmd = &cobra.Command{
	Use:   "get <id-or-number>",
	Short: "Fetch a single invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesGet,
}

// invoicesCreateCmd represents the invoices create command
var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice from a JSON file",
	Long: `Create an invoice from a JSON document.

The file uses the Xero invoice shape, e.g.:
  {
    "Type": "ACCREC",
    "Contact": {"ContactID": "..."},
    "LineItems": [{"Description": "Consulting", "Quantity": 8, "UnitAmount": 120, "AccountCode": "200"}]
  }

Use '-' to read from stdin.`,
	Args: cobra.NoArgs,
	RunE: runInvoicesCreate,
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesGetCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)

	invoicesListCmd.Flags().StringVar(&invoiceStatus, "status", "", "Filter by status (DRAFT, AUTHORISED, PAID, ...)")
	invoicesListCmd.Flags().StringVar(&invoiceWhere, "where", "", "Xero where clause filter")
	invoicesListCmd.Flags().IntVar(&invoicePage, "page", 0, "Result page (100 records per page)")

	invoicesCreateCmd.Flags().StringVarP(&invoiceFromFile, "from-file", "f", "", "JSON file with the invoice to create ('-' for stdin)")
	invoicesCreateCmd.MarkFlagRequired("from-file")
}

// readJSONFile loads a JSON document from a path, or stdin for "-".
func readJSONFile(path string, v interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}

func runInvoicesList(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	invoices, err := client.ListInvoices(cmd.Context(), xero.InvoiceListOptions{
		Status: invoiceStatus,
		Where:  invoiceWhere,
		Page:   invoicePage,
	})
	if err != nil {
		return err
	}

	if outputFormat(cfg) == "json" {
		return printJSON(invoices)
	}

	if len(invoices) == 0 {
		printEmpty("No invoices found.")
		return nil
	}

	t := newTable("NUMBER", "CONTACT", "DATE", "DUE", "STATUS", "TOTAL", "DUE AMOUNT")
	for _, inv := range invoices {
		contact := ""
		if inv.Contact != nil {
			contact = truncate(inv.Contact.Name, 30)
		}
		t.AppendRow([]interface{}{
			inv.InvoiceNumber, contact, inv.Date, inv.DueDate, inv.Status,
			fmt.Sprintf("%.2f %s", inv.Total, inv.CurrencyCode),
			fmt.Sprintf("%.2f", inv.AmountDue),
		})
	}
	t.Render()
	return nil
}

func runInvoicesGet(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	invoice, err := client.GetInvoice(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(invoice)
}

func runInvoicesCreate(cmd *cobra.Command, args []string) error {
	var invoice xero.Invoice
	if err := readJSONFile(invoiceFromFile, &invoice); err != nil {
		return err
	}

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	created, err := client.CreateInvoice(cmd.Context(), &invoice)
	if err != nil {
		return err
	}

	fmt.Printf("Created invoice %s (%s).\n", created.InvoiceNumber, created.InvoiceID)
	return printJSON(created)
}
