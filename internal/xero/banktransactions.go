package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// BankTransaction is a spend or receive money transaction.
type BankTransaction struct {
	BankTransactionID string   `json:"BankTransactionID,omitempty"`
	Type              string   `json:"Type,omitempty"`
	Contact           *Contact `json:"Contact,omitempty"`
	BankAccount       *Account `json:"BankAccount,omitempty"`
	Date              string   `json:"Date,omitempty"`
	Status            string   `json:"Status,omitempty"`
	Reference         string   `json:"Reference,omitempty"`
	SubTotal          float64  `json:"SubTotal,omitempty"`
	TotalTax          float64  `json:"TotalTax,omitempty"`
	Total             float64  `json:"Total,omitempty"`
}

// BankTransactionListOptions filter a bank transaction listing.
type BankTransactionListOptions struct {
	Where string
	Page  int
}

// ListBankTransactions returns bank transactions matching the options.
func (c *Client) ListBankTransactions(ctx context.Context, opts BankTransactionListOptions) ([]BankTransaction, error) {
	query := url.Values{}
	if opts.Where != "" {
		query.Set("where", opts.Where)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	raw, err := c.Do(ctx, http.MethodGet, "/BankTransactions", query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		BankTransactions []BankTransaction `json:"BankTransactions"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse bank transactions response: %w", err)
	}
	return envelope.BankTransactions, nil
}

// GetBankTransaction fetches a single bank transaction by id.
func (c *Client) GetBankTransaction(ctx context.Context, id string) (*BankTransaction, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/BankTransactions/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		BankTransactions []BankTransaction `json:"BankTransactions"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse bank transaction response: %w", err)
	}
	if len(envelope.BankTransactions) == 0 {
		return nil, &NotFoundError{Detail: "bank transaction " + id}
	}
	return &envelope.BankTransactions[0], nil
}
