package wealth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskClass classifies an asset into a risk bucket. The zero value is not a
// valid class: every asset must declare one.
type RiskClass int

const (
	High RiskClass = iota + 1
	Low
)

// Valid reports whether r is High or Low.
func (r RiskClass) Valid() bool { return r == High || r == Low }

func (r RiskClass) String() string {
	switch r {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("RiskClass(%d)", int(r))
	}
}

// ParseRiskClass parses "high" or "low", case insensitive.
func ParseRiskClass(s string) (RiskClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return High, nil
	case "low", "l":
		return Low, nil
	default:
		return 0, fmt.Errorf("unknown risk class %q, want 'high' or 'low'", s)
	}
}

func (r RiskClass) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }
func (r *RiskClass) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseRiskClass(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Names of the built-in price providers.
const (
	ProviderYahoo     = "yahoo"
	ProviderCoinGecko = "coingecko"
	ProviderFixed     = "fixed"
)

// Asset is something the user can hold. Its identity is its Symbol.
type Asset struct {
	Symbol   string
	Risk     RiskClass
	Provider string // empty means guessed from the symbol, see Sources.
	Price    *Money // used by the fixed provider only
}

func (a Asset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", a.Symbol)
	w.Append("risk", a.Risk)
	w.Optional("provider", a.Provider)
	w.Optional("price", a.Price)
	return w.MarshalJSON()
}

func (a *Asset) UnmarshalJSON(b []byte) error {
	var aux struct {
		Symbol   string    `json:"symbol"`
		Risk     RiskClass `json:"risk"`
		Provider string    `json:"provider"`
		Price    *Money    `json:"price"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = Asset(aux)
	return nil
}

// Holding is a quantity of an asset owned by the user.
type Holding struct {
	Asset    Asset
	Quantity Quantity
}

// NewHolding is a shortcut to declare a holding of qty units of symbol.
func NewHolding(symbol string, risk RiskClass, qty Quantity) Holding {
	return Holding{Asset: Asset{Symbol: symbol, Risk: risk}, Quantity: qty}
}

func (h Holding) Symbol() string { return h.Asset.Symbol }

func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", h.Asset.Symbol)
	w.Append("quantity", h.Quantity)
	w.Append("risk", h.Asset.Risk)
	w.Optional("provider", h.Asset.Provider)
	w.Optional("price", h.Asset.Price)
	return w.MarshalJSON()
}

func (h *Holding) UnmarshalJSON(b []byte) error {
	var aux struct {
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if err := json.Unmarshal(b, &h.Asset); err != nil {
		return err
	}
	h.Quantity = aux.Quantity
	return nil
}

// ParseHolding parses the one line notation used in forms:
//
//	SYMBOL QUANTITY RISK [PROVIDER [PRICE]]
//
// For instance "bitcoin 0.5 high coingecko" or "BOND 10 low fixed 100".
func ParseHolding(line, currency string) (Holding, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(fields) > 5 {
		return Holding{}, fmt.Errorf("invalid holding %q want 'SYMBOL QUANTITY RISK [PROVIDER [PRICE]]'", line)
	}
	qty, err := ParseQuantity(fields[1])
	if err != nil {
		return Holding{}, fmt.Errorf("invalid quantity in %q: %w", line, err)
	}
	risk, err := ParseRiskClass(fields[2])
	if err != nil {
		return Holding{}, err
	}
	h := Holding{Asset: Asset{Symbol: fields[0], Risk: risk}, Quantity: qty}
	if len(fields) > 3 {
		h.Asset.Provider = strings.ToLower(fields[3])
	}
	if len(fields) > 4 {
		price, err := ParseMoney(fields[4], currency)
		if err != nil {
			return Holding{}, fmt.Errorf("invalid price in %q: %w", line, err)
		}
		h.Asset.Price = &price
	}
	return h, nil
}

// String formats the holding in the notation accepted by ParseHolding.
func (h Holding) String() string {
	s := fmt.Sprintf("%s %s %s", h.Asset.Symbol, h.Quantity, h.Asset.Risk)
	if h.Asset.Provider != "" || h.Asset.Price != nil {
		s += " " + ProviderOf(h.Asset)
		if h.Asset.Price != nil {
			s += " " + h.Asset.Price.Decimal().String()
		}
	}
	return s
}

// ParseHoldings parses one holding per line, see ParseHolding. Blank lines
// and lines starting with '#' are ignored.
func ParseHoldings(text, currency string) ([]Holding, error) {
	var holdings []Holding
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		h, err := ParseHolding(line, currency)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// FormatHoldings is the reverse of ParseHoldings.
func FormatHoldings(holdings []Holding) string {
	var b strings.Builder
	for _, h := range holdings {
		b.WriteString(h.String())
		b.WriteByte('\n')
	}
	return b.String()
}
