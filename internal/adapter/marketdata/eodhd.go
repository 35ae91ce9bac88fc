// Package marketdata retrieves daily closing prices and dividends from EODHD.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// DefaultBaseURL is the public EODHD endpoint
const DefaultBaseURL = "https://eodhd.com"

// EODHDClient implements domain.PriceProvider on top of the EODHD REST API
type EODHDClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// NewEODHDClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewEODHDClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *EODHDClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &EODHDClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "eodhd").Logger(),
	}
}

// eodBar is one element of the /api/eod payload
//
//	{"date": "2024-02-13", "open": 185.77, "high": 186.21, "low": 183.51,
//	 "close": 185.04, "adjusted_close": 184.36, "volume": 56529500}
type eodBar struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// dividend is one element of the /api/div payload
//
//	{"date": "2024-02-09", "declarationDate": "2024-02-01", "value": 0.24, ...}
type dividend struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// GetPrices returns the closing prices of ticker between from and to, with
// the cash dividends paid in that window. Crypto assets pay no dividends.
func (c *EODHDClient) GetPrices(ctx context.Context, ticker string, from, to time.Time) (*domain.AssetPriceSeries, error) {
	ticker = domain.NormalizeTicker(ticker)
	symbol := Symbol(ticker)

	var bars []eodBar
	if err := c.get(ctx, "/api/eod/"+url.PathEscape(symbol), from, to, &bars); err != nil {
		return nil, fmt.Errorf("prices for %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no prices for %s between %s and %s", domain.ErrMissingPriceData,
			ticker, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	}

	prices := make([]domain.PricePoint, 0, len(bars))
	for _, bar := range bars {
		d, err := domain.ParseDate(bar.Date)
		if err != nil {
			c.log.Warn().Str("ticker", ticker).Str("date", bar.Date).Msg("Skipping bar with malformed date")
			continue
		}
		prices = append(prices, domain.PricePoint{Date: d, Price: bar.Close})
	}

	var dividends []domain.DividendEvent
	if !isCrypto(symbol) {
		var divs []dividend
		err := c.get(ctx, "/api/div/"+url.PathEscape(symbol), from, to, &divs)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// no dividend history
		case err != nil:
			return nil, fmt.Errorf("dividends for %s: %w", ticker, err)
		}
		for _, div := range divs {
			d, err := domain.ParseDate(div.Date)
			if err != nil {
				continue
			}
			dividends = append(dividends, domain.DividendEvent{ExDate: d, Amount: div.Value})
		}
	}

	c.log.Debug().
		Str("ticker", ticker).
		Int("prices", len(prices)).
		Int("dividends", len(dividends)).
		Msg("Fetched price series")

	return domain.NewAssetPriceSeries(ticker, prices, dividends), nil
}

// get performs a GET request against path and decodes the JSON response into data
func (c *EODHDClient) get(ctx context.Context, path string, from, to time.Time, data interface{}) error {
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", c.apiKey)
	q.Set("from", from.Format(domain.DateLayout))
	q.Set("to", to.Format(domain.DateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: GET %s: %s", domain.ErrUpstreamUnavailable, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	return nil
}

// Symbol maps a catalog ticker onto the EODHD symbol.
// Tickers that already carry an exchange suffix are passed through,
// "XXX-USD" pairs are crypto (".CC") and anything else is listed in the US.
func Symbol(ticker string) string {
	ticker = domain.NormalizeTicker(ticker)
	switch {
	case strings.Contains(ticker, "."):
		return ticker
	case strings.HasSuffix(ticker, "-USD"):
		return ticker + ".CC"
	default:
		return ticker + ".US"
	}
}

func isCrypto(symbol string) bool {
	return strings.HasSuffix(symbol, ".CC")
}
