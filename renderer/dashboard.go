package renderer

import (
	"time"

	"github.com/etnz/wealth"
)

// Dashboard is the data of the dashboard report.
// Numbers keep their exact decimal types so that templates can use their
// renderers (String, SignedString, etc.).
type Dashboard struct {
	Time     time.Time
	Currency string
	Amount   wealth.Money
	// Error is the message of the error that aborted the refresh.
	Error string
	// Evaluated is true when the allocation below is available.
	Evaluated bool

	Total, High, Low    wealth.Money
	HighShare, LowShare wealth.Ratio
	Target, TargetLow   wealth.Ratio
	Drift, Tolerance    wealth.Ratio
	NeedsRebalance      bool
	// Move is the amount to sell from high risk to buy low risk.
	Move wealth.Money

	BreakdownHigh, BreakdownLow wealth.Money

	Lines []Line
	Picks *Picks // optional
}

// Line is a single holding valuation.
type Line struct {
	Symbol   string
	Risk     string
	Quantity wealth.Quantity
	Price    wealth.Money
	Value    wealth.Money
	Weight   wealth.Ratio
	Source   string
	Time     time.Time
}

// Picks are investment suggestions per risk bucket.
type Picks struct {
	High, Low []string
	Source    string // who made the suggestion
}

// NewDashboard creates a Dashboard struct from a refresh outcome.
func NewDashboard(d *wealth.Dashboard) *Dashboard {
	p := d.Portfolio
	r := &Dashboard{
		Time:          d.Time,
		Currency:      p.Currency,
		Amount:        p.Amount,
		Evaluated:     d.Evaluated(),
		Target:        p.Target.High,
		TargetLow:     p.Target.Low(),
		Tolerance:     p.Tolerance,
		BreakdownHigh: d.High,
		BreakdownLow:  d.Low,
		Lines:         make([]Line, 0, len(d.Snapshot.Lines)),
	}
	if d.Err != nil {
		r.Error = d.Err.Error()
	}
	if !r.Evaluated {
		return r
	}

	s := d.Snapshot
	r.Total, r.High, r.Low = s.Total, s.High, s.Low
	r.HighShare = d.Verdict.Current
	r.LowShare = d.Verdict.Current.Complement()
	r.Drift = d.Verdict.Drift
	r.NeedsRebalance = d.Verdict.NeedsRebalance
	r.Move = d.Move
	for _, l := range s.Lines {
		r.Lines = append(r.Lines, Line{
			Symbol:   l.Holding.Symbol(),
			Risk:     l.Holding.Asset.Risk.String(),
			Quantity: l.Holding.Quantity,
			Price:    l.Quote.Price,
			Value:    l.Value,
			Weight:   s.Weight(l),
			Source:   l.Quote.Source,
			Time:     l.Quote.Time,
		})
	}
	return r
}

// Quotes is the data of the quotes report.
type Quotes struct {
	Time   time.Time
	Quotes []wealth.PriceQuote
	Errors []string
}
