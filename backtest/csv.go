package backtest

import (
	"io"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes the equity curve, one line per day.
func WriteCSV(w io.Writer, curve []Point) error {
	return gocsv.Marshal(curve, w)
}
