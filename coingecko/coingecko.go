// Package coingecko fetches cryptocurrency prices from the CoinGecko API.
package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
)

const (
	// DefaultURL is the public CoinGecko API host.
	DefaultURL = "https://api.coingecko.com"
	// APIKeyEnv is the environment variable holding the optional demo API key.
	APIKeyEnv = "COINGECKO_API_KEY"
)

// ID returns the coin id for a coin id or a known ticker.
func ID(symbol string) string {
	if id, ok := wealth.CoinID(symbol); ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Client is a wealth.QuoteSource for coin ids (e.g. "bitcoin").
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Currency string // vs currency, USD when empty
	APIKey   string // optional, sent as x-cg-demo-api-key
}

// New returns a Client. An empty baseURL means DefaultURL.
func New(baseURL string, client *http.Client, currency, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if currency == "" {
		currency = wealth.DefaultCurrency
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTP: client, Currency: currency, APIKey: apiKey}
}

func (c *Client) Name() string { return wealth.ProviderCoinGecko }

func (c *Client) header() http.Header {
	h := make(http.Header)
	if c.APIKey != "" {
		h.Set("x-cg-demo-api-key", c.APIKey)
	}
	return h
}

// Quote returns the latest price of the coin.
func (c *Client) Quote(ctx context.Context, symbol string) (wealth.PriceQuote, error) {
	id, vs := ID(symbol), strings.ToLower(c.Currency)
	addr := fmt.Sprintf("%s/api/v3/simple/price?%s", c.BaseURL, url.Values{
		"ids":                     {id},
		"vs_currencies":           {vs},
		"include_last_updated_at": {"true"},
	}.Encode())

	var jobj any
	if err := wealth.GetJSON(ctx, c.HTTP, addr, c.header(), &jobj); err != nil {
		return wealth.PriceQuote{}, fmt.Errorf("error retrieving %q: %w", id, err)
	}
	// an unknown id is a 200 with an empty object
	price, err := wealth.JSONFloat(fmt.Sprintf("$[%q][%q]", id, vs), jobj)
	if err != nil {
		return wealth.PriceQuote{}, fmt.Errorf("no %s price for coin %q: %w", c.Currency, id, err)
	}
	at := time.Now()
	if jval, err := wealth.JSONPath(fmt.Sprintf("$[%q].last_updated_at", id), jobj); err == nil {
		if sec, ok := jval.(float64); ok && sec > 0 {
			at = time.Unix(int64(sec), 0)
		}
	}
	return wealth.PriceQuote{
		Symbol: symbol,
		Price:  wealth.M(price, strings.ToUpper(c.Currency)),
		Time:   at,
		Source: c.Name(),
	}, nil
}

// History returns the daily prices of the coin between from and to (included).
// The free API only serves the last 365 days.
func (c *Client) History(ctx context.Context, symbol string, from, to date.Date) (*date.History[float64], error) {
	id := ID(symbol)
	days := date.Today().DaysSince(from) + 1
	addr := fmt.Sprintf("%s/api/v3/coins/%s/market_chart?%s", c.BaseURL, url.PathEscape(id), url.Values{
		"vs_currency": {strings.ToLower(c.Currency)},
		"days":        {fmt.Sprint(days)},
		"interval":    {"daily"},
	}.Encode())

	var content struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := wealth.GetJSON(ctx, c.HTTP, addr, c.header(), &content); err != nil {
		return nil, fmt.Errorf("error retrieving %q history: %w", id, err)
	}
	h := new(date.History[float64])
	r := date.Range{From: from, To: to}
	for _, p := range content.Prices {
		on := date.Unix(int64(p[0]) / 1000)
		if !r.Contains(on) || p[1] <= 0 {
			continue
		}
		h.Append(on, p[1]) // the last point of a day wins
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("no data returned for %q between %s and %s", id, from, to)
	}
	return h, nil
}
