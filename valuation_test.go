package wealth

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestValuate(t *testing.T) {
	testCases := []struct {
		name     string
		holdings []Holding
		prices   Prices
		want     Snapshot // lines are not compared
	}{
		{
			name:     "single high risk coin",
			holdings: []Holding{NewHolding("BTC", High, Q(1))},
			prices:   quotes("USD", "BTC", 50000.0),
			want:     Snapshot{Total: USD(50000), High: USD(50000), Low: Money{}},
		},
		{
			name:     "balanced",
			holdings: []Holding{NewHolding("ARN.AX", High, Q(100)), NewHolding("Bond", Low, Q(1))},
			prices:   quotes("USD", "ARN.AX", 1.0, "Bond", 100.0),
			want:     Snapshot{Total: USD(200), High: USD(100), Low: USD(100)},
		},
		{
			name:     "no holdings",
			holdings: nil,
			prices:   quotes("USD"),
			want:     Snapshot{},
		},
		{
			name:     "zero quantity",
			holdings: []Holding{NewHolding("TSLA", High, Q(0)), NewHolding("BND", Low, Q(2))},
			prices:   quotes("USD", "TSLA", 180.0, "BND", 72.5),
			want:     Snapshot{Total: USD(145), High: USD(0), Low: USD(145)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Valuate(tc.holdings, tc.prices)
			if err != nil {
				t.Fatalf("Valuate() unexpected error: %v", err)
			}
			if !got.Total.Decimal().Equal(tc.want.Total.Decimal()) {
				t.Errorf("Valuate().Total = %v want %v", got.Total, tc.want.Total)
			}
			if !got.High.Decimal().Equal(tc.want.High.Decimal()) {
				t.Errorf("Valuate().High = %v want %v", got.High, tc.want.High)
			}
			if !got.Low.Decimal().Equal(tc.want.Low.Decimal()) {
				t.Errorf("Valuate().Low = %v want %v", got.Low, tc.want.Low)
			}
			if len(got.Lines) != len(tc.holdings) {
				t.Errorf("Valuate() returned %d lines want %d", len(got.Lines), len(tc.holdings))
			}
		})
	}
}

func TestValuate_MissingPrice(t *testing.T) {
	holdings := []Holding{
		NewHolding("BTC", High, Q(1)),
		NewHolding("ETH", High, Q(1)),
		NewHolding("BND", Low, Q(1)),
	}
	_, err := Valuate(holdings, quotes("USD", "BTC", 50000.0))
	var missing *MissingPriceError
	if !errors.As(err, &missing) {
		t.Fatalf("Valuate() error = %v want a *MissingPriceError", err)
	}
	if missing.Symbol != "ETH" {
		t.Errorf("MissingPriceError.Symbol = %q want the first missing symbol %q", missing.Symbol, "ETH")
	}
}

func TestValuate_CurrencyMismatch(t *testing.T) {
	holdings := []Holding{NewHolding("SPY", High, Q(1)), NewHolding("BOND", Low, Q(1))}
	prices := quotes("USD", "SPY", 500.0)
	prices["BOND"] = PriceQuote{Symbol: "BOND", Price: M(100, "EUR")}
	if _, err := Valuate(holdings, prices); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Valuate() error = %v want ErrCurrencyMismatch", err)
	}
}

// TestValuate_BucketsSumToTotal checks High + Low == Total on random portfolios.
func TestValuate_UnknownRisk(t *testing.T) {
	holdings := []Holding{{Asset: Asset{Symbol: "BND"}, Quantity: Q(3)}}
	if _, err := Valuate(holdings, quotes("USD", "BND", 72.0)); !errors.Is(err, ErrInvalidHolding) {
		t.Errorf("Valuate() error = %v want ErrInvalidHolding", err)
	}
}

func TestValuate_BucketsSumToTotal(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		n := rnd.IntN(8)
		holdings := make([]Holding, n)
		prices := make(Prices, n)
		for j := range holdings {
			symbol := string(rune('A' + j))
			risk := High
			if rnd.IntN(2) == 1 {
				risk = Low
			}
			holdings[j] = NewHolding(symbol, risk, Q(rnd.Float64()*1000))
			prices[symbol] = PriceQuote{Symbol: symbol, Price: USD(rnd.Float64() * 100000)}
		}
		s, err := Valuate(holdings, prices)
		if err != nil {
			t.Fatalf("Valuate() unexpected error: %v", err)
		}
		if sum := s.High.Add(s.Low); !sum.Decimal().Equal(s.Total.Decimal()) {
			t.Fatalf("High + Low = %v, Total = %v", sum, s.Total)
		}
	}
}

func TestSnapshot_Share(t *testing.T) {
	s, err := Valuate(
		[]Holding{NewHolding("ARN.AX", High, Q(300)), NewHolding("Bond", Low, Q(1))},
		quotes("USD", "ARN.AX", 1.0, "Bond", 100.0),
	)
	if err != nil {
		t.Fatalf("Valuate() unexpected error: %v", err)
	}
	high, err := s.Share(High)
	if err != nil {
		t.Fatalf("Share(High) unexpected error: %v", err)
	}
	if !high.Equal(Percent(75)) {
		t.Errorf("Share(High) = %v want 75.00%%", high)
	}
	low, _ := s.Share(Low)
	if !low.Equal(Percent(25)) {
		t.Errorf("Share(Low) = %v want 25.00%%", low)
	}
	if w := s.Weight(s.Lines[1]); !w.Equal(Percent(25)) {
		t.Errorf("Weight(Bond) = %v want 25.00%%", w)
	}

	if _, err := (Snapshot{}).Share(High); !errors.Is(err, ErrEmptyPortfolio) {
		t.Errorf("Share() on empty snapshot error = %v want ErrEmptyPortfolio", err)
	}
}
