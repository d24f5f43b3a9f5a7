package xero

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Connection is one entry of the connections endpoint: an organisation the
// current token is authorized for.
type Connection struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenantId"`
	TenantType     string `json:"tenantType"`
	TenantName     string `json:"tenantName"`
	CreatedDateUTC string `json:"createdDateUtc"`
}

// ListConnections fetches the organisations connected to the authenticated
// app. Unlike resource calls it needs no tenant header; the login flow uses
// it to discover the tenant id in the first place.
func (c *Client) ListConnections(ctx context.Context) ([]Connection, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.connectionsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ClassifyResponse(resp.StatusCode, body)
	}

	var connections []Connection
	if err := json.Unmarshal(body, &connections); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: "unexpected connections response: " + err.Error()}
	}

	return connections, nil
}
