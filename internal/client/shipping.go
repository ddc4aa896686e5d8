package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"storefront-api/internal/config"
)

type ShippingRateClient interface {
	// QuoteRate looks up the carrier rate for a destination country.
	// Failures and timeouts degrade to the static rate table, they
	// never fail the calling request.
	QuoteRate(ctx context.Context, country string, weightKg float64) Rate
}

type Rate struct {
	Carrier string  `json:"carrier"`
	Price   float64 `json:"price"`
	Days    int     `json:"days"`
}

// Fallback rates used when the carrier API is unreachable.
var staticRates = map[string]Rate{
	"US": {Carrier: "flat", Price: 5.00, Days: 5},
	"CA": {Carrier: "flat", Price: 8.00, Days: 7},
	"GB": {Carrier: "flat", Price: 10.00, Days: 7},
}

var defaultRate = Rate{Carrier: "flat", Price: 15.00, Days: 14}

type shippingRateClientImpl struct {
	httpClient *http.Client
	baseAPIURL string
	logger     zerolog.Logger
}

func NewShippingRateClient(cfg *config.Shipping, logger zerolog.Logger) ShippingRateClient {
	return &shippingRateClientImpl{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseAPIURL: cfg.BaseAPIURL,
		logger:     logger,
	}
}

func (c *shippingRateClientImpl) QuoteRate(ctx context.Context, country string, weightKg float64) Rate {
	if c.baseAPIURL == "" {
		return fallbackRate(country)
	}

	rate, err := c.fetchRate(ctx, country, weightKg)
	if err != nil {
		c.logger.Warn().Err(err).Str("country", country).Msg("carrier rate lookup failed, using static rate")
		return fallbackRate(country)
	}

	return *rate
}

func (c *shippingRateClientImpl) fetchRate(ctx context.Context, country string, weightKg float64) (*Rate, error) {
	endpoint := fmt.Sprintf("%s/v1/rates?country=%s&weight=%0.2f",
		c.baseAPIURL, url.QueryEscape(country), weightKg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carrier api status %d", resp.StatusCode)
	}

	var rate Rate
	if err := json.NewDecoder(resp.Body).Decode(&rate); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}

	return &rate, nil
}

func fallbackRate(country string) Rate {
	if rate, ok := staticRates[country]; ok {
		return rate
	}
	return defaultRate
}
