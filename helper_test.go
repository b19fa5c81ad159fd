package wealth

import (
	"context"
	"fmt"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// quotes builds Prices from symbol/price pairs in the given currency.
func quotes(currency string, kv ...any) Prices {
	p := make(Prices)
	for i := 0; i < len(kv); i += 2 {
		symbol := kv[i].(string)
		p[symbol] = PriceQuote{Symbol: symbol, Price: M(kv[i+1].(float64), currency), Source: "test"}
	}
	return p
}

// fakeSource is an in memory QuoteSource that records the requested symbols.
type fakeSource struct {
	name   string
	prices map[string]Money
	calls  []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Quote(ctx context.Context, symbol string) (PriceQuote, error) {
	f.calls = append(f.calls, symbol)
	price, ok := f.prices[symbol]
	if !ok {
		return PriceQuote{}, fmt.Errorf("symbol %q not found", symbol)
	}
	return PriceQuote{Symbol: symbol, Price: price, Time: time.Unix(1718323200, 0)}, nil
}
