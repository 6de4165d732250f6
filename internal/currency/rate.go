package currency

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/models"

	"github.com/shopspring/decimal"
)

// Service fetches the USD reference exchange rate used to show local-currency
// totals. Prices themselves are always stored in USD, the rate is display
// sugar, so every failure degrades to "no rate" instead of an error.
type Service struct {
	url    string
	client *http.Client
}

// NewService creates a rate service. A zero timeout leaves requests without a
// deadline beyond the caller's context.
func NewService(cfg config.CurrencyConfig) *Service {
	client := &http.Client{}
	if cfg.TimeoutMS > 0 {
		client.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Service{url: cfg.RateURL, client: client}
}

// rateResponse is the shape of the upstream monitor endpoint. Only the
// average is used, price is the fallback when the average is absent.
type rateResponse struct {
	Promedio *float64 `json:"promedio"`
	Price    *float64 `json:"price"`
}

// FetchRate returns the current rate or nil. It never returns an error:
// unreachable upstream, bad JSON and non-positive values all read as
// "no rate available" and are logged at warn.
func (s *Service) FetchRate(ctx context.Context) *models.Money {
	if s.url == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		logger.Warnw("rate_request_build_failed", "error", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warnw("rate_fetch_failed", "error", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnw("rate_fetch_bad_status", "status", resp.StatusCode)
		return nil
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warnw("rate_fetch_bad_body", "error", err)
		return nil
	}

	value := body.Promedio
	if value == nil {
		value = body.Price
	}
	if value == nil || *value <= 0 {
		logger.Warnw("rate_fetch_no_value")
		return nil
	}

	rate := models.NewMoneyFromDecimal(decimal.NewFromFloat(*value))
	return &rate
}

// Convert multiplies a USD amount by the rate. A nil rate yields nil.
func Convert(amount models.Money, rate *models.Money) *models.Money {
	if rate == nil {
		return nil
	}
	converted := models.NewMoneyFromDecimal(amount.Decimal.Mul(rate.Decimal))
	return &converted
}
