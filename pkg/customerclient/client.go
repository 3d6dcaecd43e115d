/**
 * @description
 * Client for communicating with the customer profile service. Used during
 * account creation to confirm the authenticated subject maps to a real,
 * non-blocked customer.
 */
package customerclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
)

// Customer is the profile view the deposit service needs.
type Customer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // e.g. 'active', 'blocked'
}

// Client is a client for the customer profile service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new customer profile client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetCustomer fetches a customer profile by id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	if c.baseURL == "" {
		return nil, &domain.UpstreamError{Service: "customer-profile", Err: fmt.Errorf("base URL is not configured")}
	}

	url := fmt.Sprintf("%s/customers/%s", c.baseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "customer-profile", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewValidationError("unknown customer %q", customerID)
	}
	if resp.StatusCode >= 400 {
		return nil, &domain.UpstreamError{Service: "customer-profile", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var customer Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer response: %w", err)
	}
	return &customer, nil
}
