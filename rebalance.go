package wealth

import "fmt"

// DefaultTolerance is the drift above which a portfolio is reported out of
// balance, unless configured otherwise: 5 percentage points.
var DefaultTolerance = Percent(5)

// DefaultTarget is the 75% high risk / 25% low risk strategy.
var DefaultTarget = Target{High: Percent(75)}

// Target is the desired allocation. The low risk share is the complement of
// the high risk one.
type Target struct {
	High Ratio
}

// NewTarget returns a valid target for the high risk ratio.
func NewTarget(high Ratio) (Target, error) {
	t := Target{High: high}
	return t, t.Validate()
}

// Low returns the low risk target ratio.
func (t Target) Low() Ratio { return t.High.Complement() }

// Validate checks that the ratio is within [0, 1].
func (t Target) Validate() error {
	if !t.High.Within(zeroRatio, oneRatio) {
		return fmt.Errorf("%w: got %s", ErrInvalidRatio, t.High)
	}
	return nil
}

// Verdict is the outcome of a rebalance evaluation.
type Verdict struct {
	Current        Ratio // current high risk ratio
	Target         Ratio // target high risk ratio
	Drift          Ratio // |Current - Target|
	Tolerance      Ratio
	NeedsRebalance bool // Drift > Tolerance
}

// Evaluate compares the snapshot allocation to the target.
//
// The portfolio must be worth something: a zero total is reported as
// ErrEmptyPortfolio.
func Evaluate(s Snapshot, t Target, tolerance Ratio) (Verdict, error) {
	current, err := s.Share(High)
	if err != nil {
		return Verdict{}, err
	}
	drift := current.Sub(t.High).Abs()
	return Verdict{
		Current:        current,
		Target:         t.High,
		Drift:          drift,
		Tolerance:      tolerance,
		NeedsRebalance: drift.GreaterThan(tolerance),
	}, nil
}

// Breakdown splits an investment amount between the high and the low risk buckets.
func Breakdown(amount Money, t Target) (high, low Money) {
	high = amount.MulRatio(t.High)
	low = amount.Sub(high)
	return high, low
}

// Move returns the amount to transfer from the high risk bucket to the low
// risk one to land exactly on target. A negative amount means the transfer
// goes the other way.
func Move(s Snapshot, t Target) Money {
	return s.High.Sub(s.Total.MulRatio(t.High))
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("current", v.Current)
	w.Append("target", v.Target)
	w.Append("drift", v.Drift)
	w.Append("tolerance", v.Tolerance)
	w.Append("needsRebalance", v.NeedsRebalance)
	return w.MarshalJSON()
}
