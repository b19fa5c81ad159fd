package date

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	h.Append(d1, "overwritten")
	if got, _ := h.Get(d1); got != "overwritten" || h.Len() != 2 {
		t.Errorf("Append(d1) twice: Get(d1) = %q, Len() = %d want %q, 2", got, h.Len(), "overwritten")
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 2), 1).Append(New(2025, 1, 6), 2)

	testCases := []struct {
		name   string
		day    Date
		want   float64
		wantOK bool
	}{
		{name: "before first", day: New(2025, 1, 1), want: 0, wantOK: false},
		{name: "exact", day: New(2025, 1, 2), want: 1, wantOK: true},
		{name: "weekend gap", day: New(2025, 1, 4), want: 1, wantOK: true},
		{name: "after last", day: New(2025, 2, 1), want: 2, wantOK: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.day)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.day, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestCommon(t *testing.T) {
	a, b := new(History[float64]), new(History[float64])
	for _, d := range []int{1, 2, 3, 6, 7} {
		a.Append(New(2025, 1, d), float64(d))
	}
	for _, d := range []int{1, 2, 3, 4, 5, 6} {
		b.Append(New(2025, 1, d), float64(d))
	}
	got := Common(a, b)
	want := []Date{New(2025, 1, 1), New(2025, 1, 2), New(2025, 1, 3), New(2025, 1, 6)}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Date{})); diff != "" {
		t.Errorf("Common() mismatch (-want +got):\n%s", diff)
	}
}

func TestBetween(t *testing.T) {
	h := new(History[float64])
	for d := 1; d <= 10; d++ {
		h.Append(New(2025, 3, d), float64(d))
	}
	got := h.Between(Range{From: New(2025, 3, 3), To: New(2025, 3, 5)})
	if got.Len() != 3 {
		t.Fatalf("Between().Len() = %d want 3", got.Len())
	}
	if first, v := got.First(); first != New(2025, 3, 3) || v != 3 {
		t.Errorf("Between().First() = %v, %v want 2025-03-03, 3", first, v)
	}
	if open := h.Between(Range{From: New(2025, 3, 9)}); open.Len() != 2 {
		t.Errorf("Between(open ended).Len() = %d want 2", open.Len())
	}
}
