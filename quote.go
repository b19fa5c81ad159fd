package wealth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// PriceQuote is the price of one unit of an asset at a given time.
type PriceQuote struct {
	Symbol string
	Price  Money
	Time   time.Time
	Source string
}

func (q PriceQuote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", q.Symbol)
	w.Append("price", q.Price)
	w.Optional("time", q.Time)
	w.Optional("source", q.Source)
	return w.MarshalJSON()
}

// Prices holds the quotes of a single refresh, keyed by symbol.
type Prices map[string]PriceQuote

// Symbols returns the quoted symbols in alphabetical order.
func (p Prices) Symbols() []string {
	symbols := make([]string, 0, len(p))
	for s := range p {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// QuoteSource is a price provider.
type QuoteSource interface {
	// Name of the provider as used in Asset.Provider.
	Name() string
	// Quote returns the latest price of symbol.
	Quote(ctx context.Context, symbol string) (PriceQuote, error)
}

// Fixed quotes the price declared in the asset itself. It is meant for
// assets without a live feed (bonds, cash, real estate).
type Fixed struct {
	prices map[string]Money
}

// NewFixed returns a Fixed source knowing the prices declared by holdings.
func NewFixed(holdings ...Holding) *Fixed {
	f := &Fixed{prices: make(map[string]Money)}
	for _, h := range holdings {
		if h.Asset.Price != nil {
			f.prices[h.Asset.Symbol] = *h.Asset.Price
		}
	}
	return f
}

func (f *Fixed) Name() string { return ProviderFixed }

func (f *Fixed) Quote(_ context.Context, symbol string) (PriceQuote, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return PriceQuote{}, fmt.Errorf("no fixed price declared for %q", symbol)
	}
	return PriceQuote{Symbol: symbol, Price: price, Time: time.Now(), Source: ProviderFixed}, nil
}

// Sources routes each asset to the QuoteSource named by its Provider.
type Sources struct {
	sources map[string]QuoteSource
}

// NewSources returns a registry of the given sources, indexed by their names.
func NewSources(sources ...QuoteSource) *Sources {
	s := &Sources{sources: make(map[string]QuoteSource)}
	for _, src := range sources {
		s.Register(src)
	}
	return s
}

// Register adds or replaces a source.
func (s *Sources) Register(src QuoteSource) { s.sources[src.Name()] = src }

// Names returns the registered provider names in alphabetical order.
func (s *Sources) Names() []string {
	names := make([]string, 0, len(s.sources))
	for n := range s.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// coinTickers maps the tickers of common coins to their CoinGecko ids.
var coinTickers = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"DOGE": "dogecoin",
	"ADA":  "cardano",
	"XRP":  "ripple",
}

// CoinID returns the CoinGecko id of a known coin ticker ("BTC" is "bitcoin"),
// case insensitive.
func CoinID(ticker string) (id string, ok bool) {
	id, ok = coinTickers[strings.ToUpper(strings.TrimSpace(ticker))]
	return id, ok
}

// ProviderOf returns the provider name to use for asset.
//
// An explicit Provider always wins, then a declared price means fixed.
// Known coin tickers (BTC, ETH) and lowercase identifiers are CoinGecko coin
// ids (bitcoin, ethereum), everything else is an exchange ticker (ARN.AX,
// AAPL). Use the yahoo provider for the Yahoo listing of a coin ticker.
func ProviderOf(a Asset) string {
	_, coin := CoinID(a.Symbol)
	switch {
	case a.Provider != "":
		return a.Provider
	case a.Price != nil:
		return ProviderFixed
	case coin:
		return ProviderCoinGecko
	case a.Symbol == strings.ToLower(a.Symbol) && a.Symbol != strings.ToUpper(a.Symbol):
		return ProviderCoinGecko
	default:
		return ProviderYahoo
	}
}

// Quote fetches the price of asset from its provider.
// Any failure is reported as a *PriceFetchError.
func (s *Sources) Quote(ctx context.Context, a Asset) (PriceQuote, error) {
	name := ProviderOf(a)
	src, ok := s.sources[name]
	if name == ProviderFixed && a.Price != nil {
		src, ok = NewFixed(Holding{Asset: a}), true
	}
	if !ok && name == ProviderFixed {
		return PriceQuote{}, &PriceFetchError{Symbol: a.Symbol, Cause: fmt.Errorf("fixed asset without a declared price")}
	}
	if !ok {
		return PriceQuote{}, &PriceFetchError{Symbol: a.Symbol, Cause: fmt.Errorf("unknown provider %q", name)}
	}
	q, err := src.Quote(ctx, a.Symbol)
	if err != nil {
		return PriceQuote{}, &PriceFetchError{Symbol: a.Symbol, Cause: err}
	}
	// quotes are keyed by the configured symbol, whatever the provider echoes back.
	q.Symbol = a.Symbol
	if q.Source == "" {
		q.Source = name
	}
	return q, nil
}

// Fetch quotes every holding, one after the other. It stops at the first
// failure: a partial set of prices is never returned.
func (s *Sources) Fetch(ctx context.Context, holdings []Holding) (Prices, error) {
	prices := make(Prices, len(holdings))
	for _, h := range holdings {
		if _, done := prices[h.Symbol()]; done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, &PriceFetchError{Symbol: h.Symbol(), Cause: err}
		}
		q, err := s.Quote(ctx, h.Asset)
		if err != nil {
			log.Warn().Err(err).Str("symbol", h.Symbol()).Msg("quote failed, refresh aborted")
			return nil, err
		}
		log.Debug().Str("symbol", q.Symbol).Str("price", q.Price.String()).Str("source", q.Source).Msg("quote")
		prices[q.Symbol] = q
	}
	return prices, nil
}
