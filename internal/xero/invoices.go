package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Invoice carries the invoice fields the CLI renders and accepts on create.
// The API tolerates partial objects; zero-valued fields are omitted.
type Invoice struct {
	InvoiceID     string     `json:"InvoiceID,omitempty"`
	InvoiceNumber string     `json:"InvoiceNumber,omitempty"`
	Type          string     `json:"Type,omitempty"`
	Contact       *Contact   `json:"Contact,omitempty"`
	Date          string     `json:"Date,omitempty"`
	DueDate       string     `json:"DueDate,omitempty"`
	Status        string     `json:"Status,omitempty"`
	LineItems     []LineItem `json:"LineItems,omitempty"`
	SubTotal      float64    `json:"SubTotal,omitempty"`
	TotalTax      float64    `json:"TotalTax,omitempty"`
	Total         float64    `json:"Total,omitempty"`
	AmountDue     float64    `json:"AmountDue,omitempty"`
	AmountPaid    float64    `json:"AmountPaid,omitempty"`
	CurrencyCode  string     `json:"CurrencyCode,omitempty"`
}

// LineItem is a single invoice line.
type LineItem struct {
	Description string  `json:"Description,omitempty"`
	Quantity    float64 `json:"Quantity,omitempty"`
	UnitAmount  float64 `json:"UnitAmount,omitempty"`
	AccountCode string  `json:"AccountCode,omitempty"`
	TaxType     string  `json:"TaxType,omitempty"`
	LineAmount  float64 `json:"LineAmount,omitempty"`
}

// InvoiceListOptions filter an invoice listing.
type InvoiceListOptions struct {
	Status string
	Where  string
	Page   int
}

// ListInvoices returns invoices matching the options.
func (c *Client) ListInvoices(ctx context.Context, opts InvoiceListOptions) ([]Invoice, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("Statuses", opts.Status)
	}
	if opts.Where != "" {
		query.Set("where", opts.Where)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	raw, err := c.Do(ctx, http.MethodGet, "/Invoices", query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Invoices []Invoice `json:"Invoices"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse invoices response: %w", err)
	}
	return envelope.Invoices, nil
}

// GetInvoice fetches a single invoice by id or invoice number.
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/Invoices/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Invoices []Invoice `json:"Invoices"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse invoice response: %w", err)
	}
	if len(envelope.Invoices) == 0 {
		return nil, &NotFoundError{Detail: "invoice " + id}
	}
	return &envelope.Invoices[0], nil
}

// CreateInvoice creates an invoice and returns it as stored by the API.
func (c *Client) CreateInvoice(ctx context.Context, invoice *Invoice) (*Invoice, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/Invoices", nil, invoice)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Invoices []Invoice `json:"Invoices"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse invoice response: %w", err)
	}
	if len(envelope.Invoices) == 0 {
		return nil, fmt.Errorf("create succeeded but response contained no invoice")
	}
	return &envelope.Invoices[0], nil
}
