package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Account is one entry of the chart of accounts.
type Account struct {
	AccountID   string `json:"AccountID,omitempty"`
	Code        string `json:"Code,omitempty"`
	Name        string `json:"Name,omitempty"`
	Type        string `json:"Type,omitempty"`
	Status      string `json:"Status,omitempty"`
	Description string `json:"Description,omitempty"`
	TaxType     string `json:"TaxType,omitempty"`
}

// ListAccounts returns the chart of accounts, optionally filtered.
func (c *Client) ListAccounts(ctx context.Context, where string) ([]Account, error) {
	query := url.Values{}
	if where != "" {
		query.Set("where", where)
	}

	raw, err := c.Do(ctx, http.MethodGet, "/Accounts", query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Accounts []Account `json:"Accounts"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse accounts response: %w", err)
	}
	return envelope.Accounts, nil
}
