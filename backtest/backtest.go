// Package backtest replays a periodically rebalanced basket of assets on
// historical daily closes.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/rs/zerolog/log"
)

// Leg is one asset of the basket and its target weight.
type Leg struct {
	Symbol string
	Weight float64
}

// ParseLeg parses "SYMBOL=WEIGHT" where weight is a fraction or a percentage.
func ParseLeg(s string) (Leg, error) {
	symbol, weight, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(symbol) == "" {
		return Leg{}, fmt.Errorf("invalid leg %q want SYMBOL=WEIGHT", s)
	}
	r, err := wealth.ParseRatio(weight)
	if err != nil {
		return Leg{}, fmt.Errorf("invalid leg %q: %w", s, err)
	}
	return Leg{Symbol: strings.TrimSpace(symbol), Weight: r.InexactFloat64()}, nil
}

func (l Leg) String() string { return fmt.Sprintf("%s=%g", l.Symbol, l.Weight) }

// Config describes a backtest.
type Config struct {
	Legs     []Leg
	Initial  float64     // initial capital
	Currency string      // currency of the initial capital, for display only
	Period   date.Period // rebalance frequency
	FeeBps   float64     // transaction cost in basis points of the traded notional
	Range    date.Range  // a zero To means up to today
}

// DefaultConfig is the 75% stocks / 25% bitcoin strategy, rebalanced monthly
// since 2015.
func DefaultConfig() Config {
	return Config{
		Legs:     []Leg{{Symbol: "SPY", Weight: 0.75}, {Symbol: "BTC-USD", Weight: 0.25}},
		Initial:  10_000,
		Currency: wealth.DefaultCurrency,
		Period:   date.Monthly,
		FeeBps:   10,
		Range:    date.Range{From: date.New(2015, 1, 1)},
	}
}

var (
	ErrWeights          = errors.New("weights must sum to 1")
	ErrInsufficientData = errors.New("insufficient overlapping price history")
	ErrFees             = errors.New("transaction costs exceeded portfolio value")
	ErrPrice            = errors.New("close must be positive")
)

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.Legs) == 0 {
		return errors.New("no asset to backtest")
	}
	sum := 0.0
	seen := make(map[string]bool)
	for _, l := range c.Legs {
		if l.Weight < 0 {
			return fmt.Errorf("negative weight for %s", l.Symbol)
		}
		if seen[l.Symbol] {
			return fmt.Errorf("%w: %s", wealth.ErrDuplicateSymbol, l.Symbol)
		}
		seen[l.Symbol] = true
		sum += l.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: got %g", ErrWeights, sum)
	}
	if c.Initial <= 0 {
		return fmt.Errorf("initial capital must be positive: got %g", c.Initial)
	}
	if c.FeeBps < 0 {
		return fmt.Errorf("fees must be positive or zero: got %g bps", c.FeeBps)
	}
	return c.Range.Validate()
}

// HistorySource returns daily closes for a symbol.
type HistorySource interface {
	History(ctx context.Context, symbol string, from, to date.Date) (*date.History[float64], error)
}

// Sources maps a provider name to its HistorySource. Legs are routed like
// portfolio assets, see wealth.ProviderOf.
type Sources map[string]HistorySource

// Load fetches the history of every leg, sequentially.
func (s Sources) Load(ctx context.Context, c Config) (map[string]*date.History[float64], error) {
	to := c.Range.To
	if to.IsZero() {
		to = date.Today()
	}
	series := make(map[string]*date.History[float64], len(c.Legs))
	for _, l := range c.Legs {
		provider := wealth.ProviderOf(wealth.Asset{Symbol: l.Symbol})
		src, ok := s[provider]
		if !ok {
			return nil, &wealth.PriceFetchError{Symbol: l.Symbol, Cause: fmt.Errorf("no history for provider %q", provider)}
		}
		h, err := src.History(ctx, l.Symbol, c.Range.From, to)
		if err != nil {
			return nil, &wealth.PriceFetchError{Symbol: l.Symbol, Cause: err}
		}
		log.Debug().Str("symbol", l.Symbol).Str("provider", provider).Int("days", h.Len()).Msg("history loaded")
		series[l.Symbol] = h
	}
	return series, nil
}

// Position is the state of a leg at the end of a day.
type Position struct {
	Symbol string
	Price  float64
	Units  float64
	Value  float64
	Weight float64 // realized weight
}

// Point is a day of the equity curve.
type Point struct {
	Date      date.Date  `csv:"date"`
	Value     float64    `csv:"portfolio_value"`
	Rebalance bool       `csv:"is_rebalance"`
	Cost      float64    `csv:"transaction_cost"`
	Positions []Position `csv:"-"`
}

// Result is a backtest outcome.
type Result struct {
	Config  Config
	Curve   []Point
	Metrics Metrics
}

// Run replays the strategy on the given daily closes keyed by symbol.
//
// Only the days where every leg has a close are kept. The first day invests
// the initial capital, then the basket is rebalanced on the last observed
// day of each period.
func Run(c Config, series map[string]*date.History[float64]) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	histories := make([]*date.History[float64], len(c.Legs))
	for i, l := range c.Legs {
		h, ok := series[l.Symbol]
		if !ok {
			return nil, &wealth.MissingPriceError{Symbol: l.Symbol}
		}
		histories[i] = h.Between(c.Range)
	}
	days := date.Common(histories...)
	if len(days) < 2 {
		return nil, fmt.Errorf("%w for %v", ErrInsufficientData, c.Legs)
	}

	units := make([]float64, len(c.Legs))
	prices := make([]float64, len(c.Legs))
	curve := make([]Point, 0, len(days))
	for i, on := range days {
		value := 0.0
		for k, h := range histories {
			prices[k], _ = h.Get(on)
			if prices[k] <= 0 {
				return nil, fmt.Errorf("%w: %s closed at %g on %s", ErrPrice, c.Legs[k].Symbol, prices[k], on)
			}
			value += units[k] * prices[k]
		}

		p := Point{Date: on, Rebalance: i == 0 || isRebalanceDay(days, i, c.Period)}
		if p.Rebalance {
			investable := value
			if i == 0 {
				investable = c.Initial
			}
			traded := 0.0
			for k, l := range c.Legs {
				traded += math.Abs(investable*l.Weight/prices[k]-units[k]) * prices[k]
			}
			p.Cost = traded * c.FeeBps / 10_000
			net := investable - p.Cost
			if net < 0 {
				return nil, fmt.Errorf("%w on %s: check fees or data", ErrFees, on)
			}
			value = 0
			for k, l := range c.Legs {
				units[k] = net * l.Weight / prices[k]
				value += units[k] * prices[k]
			}
		}
		p.Value = value
		p.Positions = make([]Position, len(c.Legs))
		for k, l := range c.Legs {
			pos := Position{Symbol: l.Symbol, Price: prices[k], Units: units[k], Value: units[k] * prices[k]}
			if value > 0 {
				pos.Weight = pos.Value / value
			}
			p.Positions[k] = pos
		}
		curve = append(curve, p)
	}

	return &Result{Config: c, Curve: curve, Metrics: Measure(curve, c.Initial)}, nil
}

// isRebalanceDay reports whether days[i] is the last observed day of its
// period. The last day of the series only qualifies if it closes its period.
func isRebalanceDay(days []date.Date, i int, period date.Period) bool {
	on := days[i]
	if i == len(days)-1 {
		return on == on.EndOf(period)
	}
	return days[i+1].StartOf(period) != on.StartOf(period)
}
