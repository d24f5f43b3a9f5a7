package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
)

// Payment command flags
var (
	paymentWhere string
	paymentPage  int

	paymentInvoiceID   string
	paymentAccountCode string
	paymentAmount      float64
	paymentDate        string
	paymentReference   string
)

// paymentsCmd represents the payments command group
var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "List, fetch and create payments",
	Long: `List, fetch and create payments against invoices.

Examples:
  xero payments list
  xero payments get <payment-id>
  xero payments create --invoice <invoice-id> --account 090 --amount 150.00 --date 2026-08-30`,
}

// paymentsListCmd represents the payments list command
var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments",
	Args:  cobra.NoArgs,
	RunE:  runPaymentsList,
}

// paymentsGetCmd represents the payments get command
var paymentsGetCmd = &cobra.Command{
	Use:   "get <payment-id>",
	Short: "Fetch a single payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentsGet,
}

// paymentsCreateCmd represents the payments create command
var paymentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Apply a payment to an invoice",
	Args:  cobra.NoArgs,
	RunE:  runPaymentsCreate,
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsListCmd)
	paymentsCmd.AddCommand(paymentsGetCmd)
	paymentsCmd.AddCommand(paymentsCreateCmd)

	paymentsListCmd.Flags().StringVar(&paymentWhere, "where", "", "Xero where clause filter")
	paymentsListCmd.Flags().IntVar(&paymentPage, "page", 0, "Result page (100 records per page)")

	paymentsCreateCmd.Flags().StringVar(&paymentInvoiceID, "invoice", "", "Invoice id to pay (required)")
	paymentsCreateCmd.Flags().StringVar(&paymentAccountCode, "account", "", "Bank account code the payment came from (required)")
	paymentsCreateCmd.Flags().Float64Var(&paymentAmount, "amount", 0, "Payment amount (required)")
	paymentsCreateCmd.Flags().StringVar(&paymentDate, "date", "", "Payment date, YYYY-MM-DD (required)")
	paymentsCreateCmd.Flags().StringVar(&paymentReference, "reference", "", "Payment reference")
	paymentsCreateCmd.MarkFlagRequired("invoice")
	paymentsCreateCmd.MarkFlagRequired("account")
	paymentsCreateCmd.MarkFlagRequired("amount")
	paymentsCreateCmd.MarkFlagRequired("date")
}

func runPaymentsList(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	payments, err := client.ListPayments(cmd.Context(), xero.PaymentListOptions{
		Where: paymentWhere,
		Page:  paymentPage,
	})
	if err != nil {
		return err
	}

	if outputFormat(cfg) == "json" {
		return printJSON(payments)
	}

	if len(payments) == 0 {
		printEmpty("No payments found.")
		return nil
	}

	t := newTable("DATE", "INVOICE", "AMOUNT", "REFERENCE", "STATUS")
	for _, p := range payments {
		invoice := ""
		if p.Invoice != nil {
			invoice = p.Invoice.InvoiceNumber
		}
		t.AppendRow([]interface{}{
			p.Date, invoice, fmt.Sprintf("%.2f", p.Amount), p.Reference, p.Status,
		})
	}
	t.Render()
	return nil
}

func runPaymentsGet(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	payment, err := client.GetPayment(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(payment)
}

func runPaymentsCreate(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	created, err := client.CreatePayment(cmd.Context(), &xero.Payment{
		Invoice:   &xero.Invoice{InvoiceID: paymentInvoiceID},
		Account:   &xero.Account{Code: paymentAccountCode},
		Amount:    paymentAmount,
		Date:      paymentDate,
		Reference: paymentReference,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created payment %s.\n", created.PaymentID)
	return printJSON(created)
}
