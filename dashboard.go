package wealth

import (
	"context"
	"time"
)

// Dashboard is everything a single refresh produced. It is rebuilt from
// scratch on every refresh and never stored.
type Dashboard struct {
	Portfolio *Portfolio
	Time      time.Time
	Prices    Prices
	Snapshot  Snapshot
	Verdict   Verdict
	High, Low Money // breakdown of the investment amount
	Move      Money // amount to move from high to low risk to land on target

	// Err is the error that aborted the refresh, if any. Fields computed
	// before the failure are kept for display.
	Err error
}

// Refresh fetches the prices of the portfolio holdings and evaluates the
// allocation against the target.
//
// It never fails: the error that aborted the refresh is stored in Err, so
// the caller can render it along with the inputs.
func Refresh(ctx context.Context, sources *Sources, p *Portfolio) *Dashboard {
	d := &Dashboard{Portfolio: p, Time: time.Now()}
	if err := p.Validate(); err != nil {
		d.Err = err
		return d
	}
	d.High, d.Low = Breakdown(p.Amount, p.Target)

	prices, err := sources.Fetch(ctx, p.Holdings)
	if err != nil {
		d.Err = err
		return d
	}
	d.Prices = prices

	d.Snapshot, d.Err = Valuate(p.Holdings, prices)
	if d.Err != nil {
		return d
	}
	d.Snapshot = d.Snapshot.in(p.Currency)
	d.Move = Move(d.Snapshot, p.Target)

	d.Verdict, d.Err = Evaluate(d.Snapshot, p.Target, p.Tolerance)
	return d
}

// Evaluated reports whether the verdict is available.
func (d *Dashboard) Evaluated() bool { return d.Err == nil && d.Prices != nil }

// in sets the currency of the buckets that received no value.
func (s Snapshot) in(currency string) Snapshot {
	fix := func(m Money) Money {
		if m.cur == "" {
			m.cur = currency
		}
		return m
	}
	s.Total, s.High, s.Low = fix(s.Total), fix(s.High), fix(s.Low)
	return s
}

func (d *Dashboard) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", d.Time)
	w.Append("portfolio", d.Portfolio)
	if d.Err != nil {
		w.Append("error", d.Err.Error())
	}
	w.Append("breakdown", map[string]Money{"high": d.High, "low": d.Low})
	w.Optional("prices", d.Prices)
	if d.Prices != nil && d.Err == nil {
		w.Append("snapshot", d.Snapshot)
		w.Append("verdict", d.Verdict)
		w.Append("move", d.Move)
	}
	return w.MarshalJSON()
}
