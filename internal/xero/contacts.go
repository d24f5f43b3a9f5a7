package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Contact is a customer or supplier record.
type Contact struct {
	ContactID     string `json:"ContactID,omitempty"`
	Name          string `json:"Name,omitempty"`
	FirstName     string `json:"FirstName,omitempty"`
	LastName      string `json:"LastName,omitempty"`
	EmailAddress  string `json:"EmailAddress,omitempty"`
	ContactStatus string `json:"ContactStatus,omitempty"`
	IsCustomer    bool   `json:"IsCustomer,omitempty"`
	IsSupplier    bool   `json:"IsSupplier,omitempty"`
}

// ContactListOptions filter a contact listing.
type ContactListOptions struct {
	Where string
	Page  int
}

// ListContacts returns contacts matching the options.
func (c *Client) ListContacts(ctx context.Context, opts ContactListOptions) ([]Contact, error) {
	query := url.Values{}
	if opts.Where != "" {
		query.Set("where", opts.Where)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	raw, err := c.Do(ctx, http.MethodGet, "/Contacts", query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Contacts []Contact `json:"Contacts"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse contacts response: %w", err)
	}
	return envelope.Contacts, nil
}

// GetContact fetches a single contact by id.
func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/Contacts/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Contacts []Contact `json:"Contacts"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse contact response: %w", err)
	}
	if len(envelope.Contacts) == 0 {
		return nil, &NotFoundError{Detail: "contact " + id}
	}
	return &envelope.Contacts[0], nil
}

// CreateContact creates a contact and returns it as stored by the API.
func (c *Client) CreateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/Contacts", nil, contact)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Contacts []Contact `json:"Contacts"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse contact response: %w", err)
	}
	if len(envelope.Contacts) == 0 {
		return nil, fmt.Errorf("create succeeded but response contained no contact")
	}
	return &envelope.Contacts[0], nil
}
