/**
 * @description
 * Client for communicating with the calculation service, which projects the
 * maturity amount for a deposit at creation time. The projection is advisory
 * (shown to the customer); actual interest is posted by the accrual job.
 */
package calculationclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
)

// ProjectionRequest is the payload sent to the calculation service.
type ProjectionRequest struct {
	Principal         string `json:"principal"` // decimal string
	AnnualRatePercent string `json:"annual_rate_percent"`
	TermMonths        int    `json:"term_months"`
	Frequency         string `json:"frequency"`
}

// Projection is the calculation service's response.
type Projection struct {
	MaturityAmount string `json:"maturity_amount"`
	TotalInterest  string `json:"total_interest"`
}

// Client is a client for the calculation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new calculation service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ProjectMaturity asks the calculation service for a maturity projection.
func (c *Client) ProjectMaturity(ctx context.Context, projReq ProjectionRequest) (*Projection, error) {
	if c.baseURL == "" {
		return nil, &domain.UpstreamError{Service: "calculation", Err: fmt.Errorf("base URL is not configured")}
	}

	body, err := json.Marshal(projReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal projection payload: %w", err)
	}

	url := fmt.Sprintf("%s/calculations/maturity", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "calculation", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &domain.UpstreamError{Service: "calculation", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var projection Projection
	if err := json.NewDecoder(resp.Body).Decode(&projection); err != nil {
		return nil, fmt.Errorf("failed to decode projection response: %w", err)
	}
	return &projection, nil
}
