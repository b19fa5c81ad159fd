package date

import "fmt"

// Range represents a range of dates, boundaries included. A zero To means
// open ended.
type Range struct{ From, To Date }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	return !date.Before(r.From) && (r.To.IsZero() || !date.After(r.To))
}

// Validate checks that the range is not inverted.
func (r Range) Validate() error {
	if !r.To.IsZero() && r.To.Before(r.From) {
		return fmt.Errorf("invalid range: %s is after %s", r.From, r.To)
	}
	return nil
}

func (r Range) String() string {
	if r.To.IsZero() {
		return fmt.Sprintf("%s..", r.From)
	}
	return fmt.Sprintf("%s..%s", r.From, r.To)
}
