package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ktmcp-cli/xero/internal/xero"
)

// Contact command flags
var (
	contactWhere string
	contactPage  int

	contactName  string
	contactEmail string
	contactFirst string
	contactLast  string
)

// contactsCmd represents the contacts command group
var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List, fetch and create contacts",
	Long: `List, fetch and create customer and supplier contacts.

Examples:
  xero contacts list
  xero contacts list --where 'IsCustomer == true'
  xero contacts get <contact-id>
  xero contacts create --name "Acme Ltd" --email billing@acme.example`,
}

// contactsListCmd represents the contacts list command
var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Args:  cobra.NoArgs,
	RunE:  runContactsList,
}

// contactsGetCmd represents the contacts get command
var contactsGetCmd = &cobra.Command{
	Use:   "get <contact-id>",
	Short: "Fetch a single contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsGet,
}

// contactsCreateCmd represents the contacts create command
var contactsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact",
	Args:  cobra.NoArgs,
	RunE:  runContactsCreate,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsGetCmd)
	contactsCmd.AddCommand(contactsCreateCmd)

	contactsListCmd.Flags().StringVar(&contactWhere, "where", "", "Xero where clause filter")
	contactsListCmd.Flags().IntVar(&contactPage, "page", 0, "Result page (100 records per page)")

	contactsCreateCmd.Flags().StringVar(&contactName, "name", "", "Contact name (required)")
	contactsCreateCmd.Flags().StringVar(&contactEmail, "email", "", "Email address")
	contactsCreateCmd.Flags().StringVar(&contactFirst, "first-name", "", "First name")
	contactsCreateCmd.Flags().StringVar(&contactLast, "last-name", "", "Last name")
	contactsCreateCmd.MarkFlagRequired("name")
}

func runContactsList(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	contacts, err := client.ListContacts(cmd.Context(), xero.ContactListOptions{
		Where: contactWhere,
		Page:  contactPage,
	})
	if err != nil {
		return err
	}

	if outputFormat(cfg) == "json" {
		return printJSON(contacts)
	}

	if len(contacts) == 0 {
		printEmpty("No contacts found.")
		return nil
	}

	t := newTable("NAME", "EMAIL", "STATUS", "CUSTOMER", "SUPPLIER")
	for _, c := range contacts {
		t.AppendRow([]interface{}{
			truncate(c.Name, 40), c.EmailAddress, c.ContactStatus, c.IsCustomer, c.IsSupplier,
		})
	}
	t.Render()
	return nil
}

func runContactsGet(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	contact, err := client.GetContact(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(contact)
}

func runContactsCreate(cmd *cobra.Command, args []string) error {
	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	created, err := client.CreateContact(cmd.Context(), &xero.Contact{
		Name:         contactName,
		EmailAddress: contactEmail,
		FirstName:    contactFirst,
		LastName:     contactLast,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created contact %s (%s).\n", created.Name, created.ContactID)
	return printJSON(created)
}
