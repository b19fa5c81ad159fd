package wealth

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DefaultCurrency is the reporting currency when none is configured.
const DefaultCurrency = "USD"

// Portfolio is the user configuration the dashboard is computed from.
type Portfolio struct {
	Currency  string    // reporting currency, every price is converted to it.
	Amount    Money     // total investment amount
	Target    Target    // target allocation
	Tolerance Ratio     // maximum drift before rebalancing
	Holdings  []Holding // what the user owns
}

// NewPortfolio returns an empty portfolio with the default strategy.
func NewPortfolio(currency string, amount Money) *Portfolio {
	currency = NormalizeCurrency(currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Portfolio{
		Currency:  currency,
		Amount:    amount,
		Target:    DefaultTarget,
		Tolerance: DefaultTolerance,
	}
}

// SamplePortfolio returns the portfolio written by 'hsw init': a few coins
// and listed stocks in the high risk bucket and a bond ETF in the low one.
func SamplePortfolio() *Portfolio {
	p := NewPortfolio(DefaultCurrency, M(1000, DefaultCurrency))
	p.Holdings = []Holding{
		NewHolding("bitcoin", High, Q(0.005)),
		NewHolding("ethereum", High, Q(0.05)),
		NewHolding("solana", High, Q(1)),
		NewHolding("TSLA", High, Q(1)),
		NewHolding("BND", Low, Q(3)),
	}
	return p
}

// Validate checks the invariants of the configuration.
func (p *Portfolio) Validate() error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, p.Amount)
	}
	if err := p.Target.Validate(); err != nil {
		return err
	}
	if p.Tolerance.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidTolerance, p.Tolerance)
	}
	seen := make(map[string]bool, len(p.Holdings))
	for i, h := range p.Holdings {
		switch {
		case strings.TrimSpace(h.Symbol()) == "":
			return fmt.Errorf("%w #%d: empty symbol", ErrInvalidHolding, i+1)
		case !h.Asset.Risk.Valid():
			return fmt.Errorf("%w %s: missing risk, want 'high' or 'low'", ErrInvalidHolding, h.Symbol())
		case h.Quantity.IsNegative():
			return fmt.Errorf("%w %s: negative quantity %s", ErrInvalidHolding, h.Symbol(), h.Quantity)
		case seen[h.Symbol()]:
			return fmt.Errorf("%w %s", ErrDuplicateSymbol, h.Symbol())
		case h.Asset.Price != nil && !h.Asset.Price.IsPositive():
			return fmt.Errorf("%w %s: price must be positive, got %s", ErrInvalidHolding, h.Symbol(), h.Asset.Price.Decimal())
		case h.Asset.Price != nil && h.Asset.Price.Currency() != p.Currency:
			return fmt.Errorf("%w %s: price in %s, portfolio in %s", ErrInvalidHolding, h.Symbol(), h.Asset.Price.Currency(), p.Currency)
		}
		seen[h.Symbol()] = true
	}
	return nil
}

// Clone returns a deep enough copy to be modified by a single request.
func (p *Portfolio) Clone() *Portfolio {
	c := *p
	c.Holdings = append([]Holding(nil), p.Holdings...)
	return &c
}

func (p *Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", p.Currency)
	w.Append("amount", p.Amount.Decimal())
	w.Append("target", p.Target.High)
	w.Append("tolerance", p.Tolerance)
	holdings := p.Holdings
	if holdings == nil {
		holdings = []Holding{}
	}
	w.Append("holdings", holdings)
	return w.MarshalJSON()
}

func (p *Portfolio) UnmarshalJSON(b []byte) error {
	var aux struct {
		Currency  string            `json:"currency"`
		Amount    json.RawMessage   `json:"amount"`
		Target    *Ratio            `json:"target"`
		Tolerance *Ratio            `json:"tolerance"`
		Holdings  []json.RawMessage `json:"holdings"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = *NewPortfolio(aux.Currency, Money{})
	if aux.Target != nil {
		p.Target = Target{High: *aux.Target}
	}
	if aux.Tolerance != nil {
		p.Tolerance = *aux.Tolerance
	}
	if len(aux.Amount) > 0 {
		var amount Quantity // any decimal will do
		if err := json.Unmarshal(aux.Amount, &amount); err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		p.Amount = Money{value: amount.value, cur: p.Currency}
	}
	for _, raw := range aux.Holdings {
		var h Holding
		if err := json.Unmarshal(raw, &h); err != nil {
			return fmt.Errorf("invalid holding %s: %w", raw, err)
		}
		if h.Asset.Price != nil && h.Asset.Price.Currency() == "" {
			price := Money{value: h.Asset.Price.value, cur: p.Currency}
			h.Asset.Price = &price
		}
		p.Holdings = append(p.Holdings, h)
	}
	return nil
}

// DecodePortfolio reads a JSON portfolio and validates it.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	p := new(Portfolio)
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("cannot decode portfolio: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePortfolio writes the portfolio as indented JSON.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
