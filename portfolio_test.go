package wealth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPortfolio_Validate(t *testing.T) {
	price, negative, zero := M(100, "EUR"), USD(-100), USD(0)
	testCases := []struct {
		name    string
		edit    func(p *Portfolio)
		wantErr error
	}{
		{name: "sample", edit: func(p *Portfolio) {}},
		{name: "zero amount", edit: func(p *Portfolio) { p.Amount = USD(0) }, wantErr: ErrInvalidAmount},
		{name: "negative amount", edit: func(p *Portfolio) { p.Amount = USD(-1) }, wantErr: ErrInvalidAmount},
		{name: "target above 100%", edit: func(p *Portfolio) { p.Target.High = Percent(120) }, wantErr: ErrInvalidRatio},
		{name: "negative tolerance", edit: func(p *Portfolio) { p.Tolerance = Percent(-1) }, wantErr: ErrInvalidTolerance},
		{name: "zero tolerance", edit: func(p *Portfolio) { p.Tolerance = R(0) }},
		{name: "no holdings", edit: func(p *Portfolio) { p.Holdings = nil }},
		{
			name:    "duplicate",
			edit:    func(p *Portfolio) { p.Holdings = append(p.Holdings, NewHolding("TSLA", Low, Q(1))) },
			wantErr: ErrDuplicateSymbol,
		},
		{
			name:    "empty symbol",
			edit:    func(p *Portfolio) { p.Holdings = append(p.Holdings, NewHolding(" ", Low, Q(1))) },
			wantErr: ErrInvalidHolding,
		},
		{
			name:    "negative quantity",
			edit:    func(p *Portfolio) { p.Holdings[0].Quantity = Q(-1) },
			wantErr: ErrInvalidHolding,
		},
		{
			name: "foreign fixed price",
			edit: func(p *Portfolio) {
				p.Holdings = append(p.Holdings, Holding{Asset: Asset{Symbol: "FLAT", Risk: Low, Price: &price}, Quantity: Q(1)})
			},
			wantErr: ErrInvalidHolding,
		},
		{
			name:    "missing risk",
			edit:    func(p *Portfolio) { p.Holdings[0].Asset.Risk = 0 },
			wantErr: ErrInvalidHolding,
		},
		{
			name: "negative fixed price",
			edit: func(p *Portfolio) {
				p.Holdings = append(p.Holdings, Holding{Asset: Asset{Symbol: "BOND", Risk: Low, Price: &negative}, Quantity: Q(10)})
			},
			wantErr: ErrInvalidHolding,
		},
		{
			name: "zero fixed price",
			edit: func(p *Portfolio) {
				p.Holdings = append(p.Holdings, Holding{Asset: Asset{Symbol: "BOND", Risk: Low, Price: &zero}, Quantity: Q(10)})
			},
			wantErr: ErrInvalidHolding,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := SamplePortfolio()
			tc.edit(p)
			err := p.Validate()
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() error = %v want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPortfolio_JSON(t *testing.T) {
	p := SamplePortfolio()
	bond := USD(98.5)
	p.Holdings = append(p.Holdings, Holding{Asset: Asset{Symbol: "T-BILL", Risk: Low, Provider: ProviderFixed, Price: &bond}, Quantity: Q(2)})

	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		t.Fatalf("EncodePortfolio() unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"currency\": \"USD\",\n  \"amount\": \"1000\",") {
		t.Errorf("EncodePortfolio() does not start with currency and amount:\n%s", buf.String())
	}

	got, err := DecodePortfolio(&buf)
	if err != nil {
		t.Fatalf("DecodePortfolio() unexpected error: %v", err)
	}
	opts := cmp.Options{cmp.Comparer(Money.Equal), cmp.Comparer(Quantity.Equal), cmp.Comparer(Ratio.Equal)}
	if diff := cmp.Diff(p, got, opts); diff != "" {
		t.Errorf("portfolio round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePortfolio(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    *Portfolio
		wantErr bool
	}{
		{
			name: "defaults",
			in:   `{"amount": 5000, "holdings": [{"symbol": "SPY", "quantity": 2, "risk": "high"}]}`,
			want: &Portfolio{
				Currency:  "USD",
				Amount:    USD(5000),
				Target:    DefaultTarget,
				Tolerance: DefaultTolerance,
				Holdings:  []Holding{NewHolding("SPY", High, Q(2))},
			},
		},
		{
			name: "percentages and fixed price",
			in: `{"currency": "EUR", "amount": "1000", "target": "60%", "tolerance": "2.5%",
				"holdings": [{"symbol": "HOUSE", "quantity": 1, "risk": "LOW", "provider": "fixed", "price": 250000}]}`,
			want: &Portfolio{
				Currency:  "EUR",
				Amount:    M(1000, "EUR"),
				Target:    Target{High: Percent(60)},
				Tolerance: R(0.025),
				Holdings: []Holding{{
					Asset:    Asset{Symbol: "HOUSE", Risk: Low, Provider: ProviderFixed, Price: func() *Money { m := M(250000, "EUR"); return &m }()},
					Quantity: Q(1),
				}},
			},
		},
		{
			name: "lowercase currency",
			in:   `{"currency": " eur", "amount": 500, "holdings": [{"symbol": "BOND", "quantity": 1, "risk": "low", "price": {"currency": "eur", "amount": "100"}}]}`,
			want: &Portfolio{
				Currency:  "EUR",
				Amount:    M(500, "EUR"),
				Target:    DefaultTarget,
				Tolerance: DefaultTolerance,
				Holdings: []Holding{{
					Asset:    Asset{Symbol: "BOND", Risk: Low, Price: func() *Money { m := M(100, "EUR"); return &m }()},
					Quantity: Q(1),
				}},
			},
		},
		{name: "no amount", in: `{"holdings": []}`, wantErr: true},
		{name: "missing risk", in: `{"amount": 1, "holdings": [{"symbol": "BND", "quantity": 3}]}`, wantErr: true},
		{name: "negative price", in: `{"amount": 1, "holdings": [{"symbol": "BOND", "quantity": 10, "risk": "low", "provider": "fixed", "price": -100}]}`, wantErr: true},
		{name: "bad risk", in: `{"amount": 1, "holdings": [{"symbol": "SPY", "quantity": 2, "risk": "medium"}]}`, wantErr: true},
		{name: "not json", in: `amount=1`, wantErr: true},
	}
	opts := cmp.Options{cmp.Comparer(Money.Equal), cmp.Comparer(Quantity.Equal), cmp.Comparer(Ratio.Equal)}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodePortfolio(strings.NewReader(tc.in))
			if (err != nil) != tc.wantErr {
				t.Fatalf("DecodePortfolio() error = %v, wantErr %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.want, got, opts); diff != "" {
				t.Errorf("DecodePortfolio() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
