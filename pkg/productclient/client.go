/**
 * @description
 * Client for communicating with the product catalog service. The fixed-deposit
 * service validates the requested product and reads its interest rate from here
 * during account creation.
 */
package productclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
)

// Product is the catalog view the deposit service needs.
type Product struct {
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	AnnualRatePercent string   `json:"annual_rate_percent"` // decimal string
	MinTermMonths     int      `json:"min_term_months"`
	MaxTermMonths     int      `json:"max_term_months"`
	Frequencies       []string `json:"frequencies"`
}

// Client is a client for the product catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new product catalog client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetProduct fetches one product by code. A 404 maps to a ValidationError so
// handlers can reject the request; transport failures map to UpstreamError.
func (c *Client) GetProduct(ctx context.Context, code string) (*Product, error) {
	if c.baseURL == "" {
		return nil, &domain.UpstreamError{Service: "product-catalog", Err: fmt.Errorf("base URL is not configured")}
	}

	url := fmt.Sprintf("%s/products/%s", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "product-catalog", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewValidationError("unknown product code %q", code)
	}
	if resp.StatusCode >= 400 {
		return nil, &domain.UpstreamError{Service: "product-catalog", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	return &product, nil
}
