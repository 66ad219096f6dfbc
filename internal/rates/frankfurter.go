package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/snupai/mira/internal/application/port"
	"github.com/snupai/mira/internal/config"
	"github.com/snupai/mira/internal/domain/entity"
)

// Client fetches exchange rates from a frankfurter-compatible API.
// Rates are fetched at payment time and frozen on the invoice; the
// provider is never consulted again for historical invoices.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an exchange rate client from configuration
func NewClient(cfg config.RatesConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

var _ port.ExchangeRateProvider = (*Client)(nil)

type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the conversion rate from one currency to another
func (c *Client) Rate(ctx context.Context, from, to entity.Currency) (float64, error) {
	if from == to {
		return 1, nil
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s",
		c.baseURL, url.QueryEscape(string(from)), url.QueryEscape(string(to)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Exchange rate request failed", zap.Error(err))
		return 0, fmt.Errorf("failed to fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := body.Rates[string(to)]
	if !ok {
		return 0, fmt.Errorf("no rate for %s in response", to)
	}

	c.logger.Debug("Fetched exchange rate",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Float64("rate", rate))
	return rate, nil
}
