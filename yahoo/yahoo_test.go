package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/google/go-cmp/cmp"
)

// payloads recorded from the chart endpoint, trimmed.
var payloads = map[string]string{
	"ARN.AX":   `{"chart":{"result":[{"meta":{"currency":"AUD","symbol":"ARN.AX","regularMarketPrice":0.05,"regularMarketTime":1718323200}}],"error":null}}`,
	"SPY":      `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"SPY","regularMarketPrice":542.78,"regularMarketTime":1718323200}}],"error":null}}`,
	"VOD.L":    `{"chart":{"result":[{"meta":{"currency":"GBp","symbol":"VOD.L","regularMarketPrice":72.5,"regularMarketTime":1718323200}}],"error":null}}`,
	"AUDUSD=X": `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AUDUSD=X","regularMarketPrice":0.66,"regularMarketTime":1718323200}}],"error":null}}`,
	"GBPUSD=X": `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"GBPUSD=X","regularMarketPrice":1.25,"regularMarketTime":1718323200}}],"error":null}}`,
	"EMPTY":    `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"EMPTY"}}],"error":null}}`,
}

// history for SPY from 2024-01-02 to 2024-01-08, one missing close and a
// zero close.
const spyHistory = `{"chart":{"result":[{"timestamp":[1704205800,1704292200,1704378600,1704465000,1704724200],
"indicators":{"quote":[{"close":[472.65,468.79,null,467.92,0]}],"adjclose":[{"adjclose":[466.1,462.3,null,461.5,0]}]}}],"error":null}}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		if symbol == "SPY" && r.URL.Query().Get("interval") == "1d" && r.URL.Query().Get("period1") != "" {
			fmt.Fprint(w, spyHistory)
			return
		}
		payload, ok := payloads[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
			return
		}
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Quote(t *testing.T) {
	srv := newServer(t)
	testCases := []struct {
		name     string
		currency string
		symbol   string
		want     wealth.Money
		wantErr  bool
	}{
		{name: "listing currency", currency: "USD", symbol: "SPY", want: wealth.M(542.78, "USD")},
		{name: "no conversion", currency: "", symbol: "ARN.AX", want: wealth.M(0.05, "AUD")},
		{name: "converted", currency: "USD", symbol: "ARN.AX", want: wealth.M(0.033, "USD")},
		{name: "pence", currency: "USD", symbol: "VOD.L", want: wealth.M(0.90625, "USD")},
		{name: "unknown symbol", currency: "USD", symbol: "NOPE", wantErr: true},
		{name: "no price", currency: "USD", symbol: "EMPTY", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(srv.URL, srv.Client(), tc.currency)
			got, err := c.Quote(context.Background(), tc.symbol)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Quote(%q) error = %v, wantErr %v", tc.symbol, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if !got.Price.Decimal().Equal(tc.want.Decimal()) || got.Price.Currency() != tc.want.Currency() {
				t.Errorf("Quote(%q).Price = %v want %v", tc.symbol, got.Price, tc.want)
			}
			if got.Source != wealth.ProviderYahoo {
				t.Errorf("Quote(%q).Source = %q want %q", tc.symbol, got.Source, wealth.ProviderYahoo)
			}
			if got.Time.Unix() != 1718323200 {
				t.Errorf("Quote(%q).Time = %v want unix 1718323200", tc.symbol, got.Time)
			}
		})
	}
}

func TestClient_Quote_routedAsPriceFetchError(t *testing.T) {
	srv := newServer(t)
	sources := wealth.NewSources(New(srv.URL, srv.Client(), "USD"))
	h := wealth.NewHolding("NOPE", wealth.High, wealth.Q(1))
	h.Asset.Provider = wealth.ProviderYahoo

	_, err := sources.Quote(context.Background(), h.Asset)
	var pfe *wealth.PriceFetchError
	if !errors.As(err, &pfe) {
		t.Fatalf("Quote() error = %v, want a *PriceFetchError", err)
	}
	if pfe.Symbol != "NOPE" {
		t.Errorf("PriceFetchError.Symbol = %q want %q", pfe.Symbol, "NOPE")
	}
}

func TestClient_History(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, srv.Client(), "USD")
	h, err := c.History(context.Background(), "SPY", date.New(2024, 1, 1), date.New(2024, 1, 31))
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	got := map[string]float64{}
	for on, v := range h.Values() {
		got[on.String()] = v
	}
	want := map[string]float64{
		"2024-01-02": 466.1,
		"2024-01-03": 462.3,
		"2024-01-05": 461.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_History_unknown(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, srv.Client(), "USD")
	if _, err := c.History(context.Background(), "NOPE", date.New(2024, 1, 1), date.New(2024, 1, 31)); err == nil {
		t.Error("History(unknown) want error")
	}
}
