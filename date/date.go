// Package date handles calendar days, the periods of a rebalance schedule and
// daily price histories.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the ISO 8601 representation of a Date.
const Layout = "2006-01-02"

// lenient layout accepted by Parse, "2025-7-1" is the same as "2025-07-01".
const lenient = "2006-1-2"

// Date is a calendar day. The zero Date is not a valid day and is used for
// "unset".
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the Date for year, month and day, normalized the way time.Date
// does (New(2025, 2, 30) is March 2nd).
func New(year int, month time.Month, day int) Date {
	var d Date
	d.y, d.m, d.d = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return d
}

// Unix returns the UTC day of a unix timestamp in seconds.
func Unix(sec int64) Date { return New(time.Unix(sec, 0).UTC().Date()) }

// Today returns the current day in the local time zone.
func Today() Date { return New(time.Now().Date()) }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Add(days int) Date  { return New(d.y, d.m, d.d+days) }
func (d Date) String() string     { return d.Time().Format(Layout) }
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 when d is before, on or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmpInt(d.y, x.y)
	case d.m != x.m:
		return cmpInt(int(d.m), int(x.m))
	default:
		return cmpInt(d.d, x.d)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// DaysSince returns the number of calendar days from x to d, negative when x
// is after d.
func (d Date) DaysSince(x Date) int { return int(d.Time().Sub(x.Time()).Hours() / 24) }

// StartOf returns the first day of the period containing d. Weeks start on
// Monday.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Daily:
		return d
	case Weekly:
		// time.Sunday is 0, shift it to the end of the week.
		return d.Add(-(int(d.Time().Weekday()) + 6) % 7)
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	}
	panic(fmt.Sprintf("unknown period %d", p))
}

// EndOf returns the last day of the period containing d. Weeks end on Sunday.
func (d Date) EndOf(p Period) Date {
	switch p {
	case Daily:
		return d
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly, Quarterly, Yearly:
		// the day before the start of the next period.
		next := d.StartOf(p)
		switch p {
		case Monthly:
			next = New(next.y, next.m+1, 1)
		case Quarterly:
			next = New(next.y, next.m+3, 1)
		default:
			next = New(next.y+1, time.January, 1)
		}
		return next.Add(-1)
	}
	panic(fmt.Sprintf("unknown period %d", p))
}

// Parse reads a day in the ISO 8601 format, single digit months and days are
// accepted.
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenient, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return New(t.Date()), nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := Parse(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// MarshalCSV writes the day in a csv cell.
func (d Date) MarshalCSV() (string, error) { return d.String(), nil }
