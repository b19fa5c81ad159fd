// Package yahoo fetches equity quotes and daily closes from the Yahoo Finance
// chart endpoint.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultURL is the public Yahoo Finance API host.
const DefaultURL = "https://query1.finance.yahoo.com"

// Client is a wealth.QuoteSource for Yahoo listed symbols (e.g. "ARN.AX", "SPY").
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Currency quotes are converted to. Empty keeps the listing currency.
	Currency string
}

// New returns a Client. An empty baseURL means DefaultURL.
func New(baseURL string, client *http.Client, currency string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTP: client, Currency: currency}
}

func (c *Client) Name() string { return wealth.ProviderYahoo }

func (c *Client) chartURL(symbol string, query url.Values) string {
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.BaseURL, url.PathEscape(symbol), query.Encode())
}

// meta reads the last price, its currency and time from the chart endpoint.
func (c *Client) meta(ctx context.Context, symbol string) (price float64, currency string, at time.Time, err error) {
	addr := c.chartURL(symbol, url.Values{"range": {"1d"}, "interval": {"1d"}})
	var jobj any
	if err = wealth.GetJSON(ctx, c.HTTP, addr, nil, &jobj); err != nil {
		return 0, "", time.Time{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	price, err = wealth.JSONFloat("$.chart.result[0].meta.regularMarketPrice", jobj)
	if err != nil {
		return 0, "", time.Time{}, fmt.Errorf("no price for %q: %w", symbol, err)
	}
	if jval, err := wealth.JSONPath("$.chart.result[0].meta.currency", jobj); err == nil {
		currency, _ = jval.(string)
	}
	at = time.Now()
	if jval, err := wealth.JSONPath("$.chart.result[0].meta.regularMarketTime", jobj); err == nil {
		if sec, ok := jval.(float64); ok && sec > 0 {
			at = time.Unix(int64(sec), 0)
		}
	}
	// London listings are quoted in pence.
	if currency == "GBp" || currency == "GBX" {
		price, currency = price/100, "GBP"
	}
	return price, strings.ToUpper(currency), at, nil
}

// Quote returns the latest price of symbol, converted to the client currency.
func (c *Client) Quote(ctx context.Context, symbol string) (wealth.PriceQuote, error) {
	price, currency, at, err := c.meta(ctx, symbol)
	if err != nil {
		return wealth.PriceQuote{}, err
	}
	q := wealth.PriceQuote{Symbol: symbol, Price: wealth.M(price, currency), Time: at, Source: c.Name()}
	if c.Currency == "" || currency == "" || currency == c.Currency {
		if currency == "" {
			q.Price = wealth.M(price, c.Currency)
		}
		return q, nil
	}

	rate, err := c.Rate(ctx, currency, c.Currency)
	if err != nil {
		return wealth.PriceQuote{}, err
	}
	log.Debug().Str("symbol", symbol).Str("from", currency).Str("to", c.Currency).Stringer("rate", rate).Msg("converted quote")
	q.Price = q.Price.Convert(rate, c.Currency)
	return q, nil
}

// Rate returns the exchange rate to convert an amount in 'from' into 'to'.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	pair := from + to + "=X"
	rate, _, _, err := c.meta(ctx, pair)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot convert %s to %s: %w", from, to, err)
	}
	return decimal.NewFromFloat(rate), nil
}

// chart is the subset of the chart payload used for daily closes.
type chart struct {
	Chart struct {
		Result []struct {
			Timestamps []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns the daily closes of symbol between from and to (included),
// adjusted for splits and dividends when the provider has them. Days without
// a close are skipped.
func (c *Client) History(ctx context.Context, symbol string, from, to date.Date) (*date.History[float64], error) {
	addr := c.chartURL(symbol, url.Values{
		"period1":  {fmt.Sprint(from.Time().Unix())},
		"period2":  {fmt.Sprint(to.Add(1).Time().Unix())},
		"interval": {"1d"},
		"events":   {"div,split"},
	})
	var content chart
	if err := wealth.GetJSON(ctx, c.HTTP, addr, nil, &content); err != nil {
		return nil, fmt.Errorf("error retrieving %q history: %w", symbol, err)
	}
	if e := content.Chart.Error; e != nil {
		return nil, fmt.Errorf("error retrieving %q history: %s: %s", symbol, e.Code, e.Description)
	}
	if len(content.Chart.Result) == 0 {
		return nil, fmt.Errorf("no history for %q", symbol)
	}
	res := content.Chart.Result[0]
	var closes []*float64
	if adj := res.Indicators.AdjClose; len(adj) > 0 && len(adj[0].AdjClose) == len(res.Timestamps) {
		closes = adj[0].AdjClose
	} else if q := res.Indicators.Quote; len(q) > 0 && len(q[0].Close) == len(res.Timestamps) {
		closes = q[0].Close
	} else {
		return nil, fmt.Errorf("no closes for %q", symbol)
	}

	h := new(date.History[float64])
	r := date.Range{From: from, To: to}
	for i, ts := range res.Timestamps {
		on := date.Unix(ts)
		// a close is a price, zero means no trade.
		if closes[i] == nil || *closes[i] <= 0 || !r.Contains(on) {
			continue
		}
		h.Append(on, *closes[i])
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("no data returned for %q between %s and %s", symbol, from, to)
	}
	return h, nil
}
