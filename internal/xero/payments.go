package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Payment applies money against an invoice.
type Payment struct {
	PaymentID   string   `json:"PaymentID,omitempty"`
	Invoice     *Invoice `json:"Invoice,omitempty"`
	Account     *Account `json:"Account,omitempty"`
	Date        string   `json:"Date,omitempty"`
	Amount      float64  `json:"Amount,omitempty"`
	Reference   string   `json:"Reference,omitempty"`
	Status      string   `json:"Status,omitempty"`
	PaymentType string   `json:"PaymentType,omitempty"`
}

// PaymentListOptions filter a payment listing.
type PaymentListOptions struct {
	Where string
	Page  int
}

// ListPayments returns payments matching the options.
func (c *Client) ListPayments(ctx context.Context, opts PaymentListOptions) ([]Payment, error) {
	query := url.Values{}
	if opts.Where != "" {
		query.Set("where", opts.Where)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	raw, err := c.Do(ctx, http.MethodGet, "/Payments", query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Payments []Payment `json:"Payments"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse payments response: %w", err)
	}
	return envelope.Payments, nil
}

// GetPayment fetches a single payment by id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/Payments/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Payments []Payment `json:"Payments"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}
	if len(envelope.Payments) == 0 {
		return nil, &NotFoundError{Detail: "payment " + id}
	}
	return &envelope.Payments[0], nil
}

// CreatePayment records a payment and returns it as stored by the API.
func (c *Client) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	raw, err := c.Do(ctx, http.MethodPut, "/Payments", nil, payment)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Payments []Payment `json:"Payments"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}
	if len(envelope.Payments) == 0 {
		return nil, fmt.Errorf("create succeeded but response contained no payment")
	}
	return &envelope.Payments[0], nil
}
