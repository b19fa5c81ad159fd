package wealth

import "fmt"

// Line is the valuation of a single holding.
type Line struct {
	Holding Holding
	Quote   PriceQuote
	Value   Money
}

// Snapshot is the value of a portfolio split by risk bucket.
//
// High + Low == Total always holds.
type Snapshot struct {
	Total Money
	High  Money
	Low   Money
	Lines []Line
}

// Valuate computes the value of holdings at the given prices.
//
// Every holding must have a quote in prices, a missing one is reported as a
// *MissingPriceError instead of being valued at zero.
func Valuate(holdings []Holding, prices Prices) (Snapshot, error) {
	var s Snapshot
	s.Lines = make([]Line, 0, len(holdings))
	for _, h := range holdings {
		q, ok := prices[h.Symbol()]
		if !ok {
			return Snapshot{}, &MissingPriceError{Symbol: h.Symbol()}
		}
		if c := s.Total.Currency(); c != "" && q.Price.Currency() != "" && q.Price.Currency() != c {
			return Snapshot{}, fmt.Errorf("%w: %s is quoted in %s, not %s", ErrCurrencyMismatch, h.Symbol(), q.Price.Currency(), c)
		}
		value := q.Price.Mul(h.Quantity)
		// Total carries the currency seen so far, it is recomputed at the end.
		s.Total = s.Total.Add(value)
		switch h.Asset.Risk {
		case High:
			s.High = s.High.Add(value)
		case Low:
			s.Low = s.Low.Add(value)
		default:
			return Snapshot{}, fmt.Errorf("%w %s: unknown risk class %v", ErrInvalidHolding, h.Symbol(), h.Asset.Risk)
		}
		s.Lines = append(s.Lines, Line{Holding: h, Quote: q, Value: value})
	}
	s.Total = s.High.Add(s.Low)
	return s, nil
}

// Bucket returns the value held in the risk bucket r.
func (s Snapshot) Bucket(r RiskClass) Money {
	if r == High {
		return s.High
	}
	return s.Low
}

// Share returns the fraction of the total value held in bucket r.
func (s Snapshot) Share(r RiskClass) (Ratio, error) {
	if !s.Total.IsPositive() {
		return Ratio{}, ErrEmptyPortfolio
	}
	return s.Bucket(r).DivMoney(s.Total), nil
}

// Weight returns the fraction of the total value held by the line l.
// It is zero for an empty portfolio.
func (s Snapshot) Weight(l Line) Ratio {
	if !s.Total.IsPositive() {
		return Ratio{}
	}
	return l.Value.DivMoney(s.Total)
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("total", s.Total)
	w.Append("high", s.High)
	w.Append("low", s.Low)
	lines := make([]map[string]any, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, map[string]any{
			"holding": l.Holding,
			"quote":   l.Quote,
			"value":   l.Value,
		})
	}
	w.Append("lines", lines)
	return w.MarshalJSON()
}
