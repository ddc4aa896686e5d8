package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"storefront-api/internal/config"
)

func TestQuoteRateFromCarrier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rates", r.URL.Path)
		assert.Equal(t, "DE", r.URL.Query().Get("country"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"carrier":"dhl","price":12.5,"days":3}`))
	}))
	defer srv.Close()

	c := NewShippingRateClient(&config.Shipping{BaseAPIURL: srv.URL, TimeoutSeconds: 2}, zerolog.Nop())

	rate := c.QuoteRate(context.Background(), "DE", 1.2)
	assert.Equal(t, "dhl", rate.Carrier)
	assert.Equal(t, 12.5, rate.Price)
	assert.Equal(t, 3, rate.Days)
}

func TestQuoteRateFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewShippingRateClient(&config.Shipping{BaseAPIURL: srv.URL, TimeoutSeconds: 2}, zerolog.Nop())

	rate := c.QuoteRate(context.Background(), "US", 1)
	assert.Equal(t, staticRates["US"], rate)
}

func TestQuoteRateFallsBackOnUnreachableCarrier(t *testing.T) {
	// Closed port: the request errors immediately rather than timing out.
	c := NewShippingRateClient(&config.Shipping{BaseAPIURL: "http://127.0.0.1:1", TimeoutSeconds: 1}, zerolog.Nop())

	rate := c.QuoteRate(context.Background(), "GB", 1)
	assert.Equal(t, staticRates["GB"], rate)

	// Unknown country falls through to the default rate.
	rate = c.QuoteRate(context.Background(), "NZ", 1)
	assert.Equal(t, defaultRate, rate)
}

func TestQuoteRateWithoutConfiguredCarrier(t *testing.T) {
	c := NewShippingRateClient(&config.Shipping{TimeoutSeconds: 1}, zerolog.Nop())

	rate := c.QuoteRate(context.Background(), "CA", 1)
	assert.Equal(t, staticRates["CA"], rate)
}
