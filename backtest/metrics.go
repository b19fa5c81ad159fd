package backtest

import (
	"math"

	"github.com/etnz/wealth/date"
	"gonum.org/v1/gonum/stat"
)

// TradingDays is the number of trading days per year used to annualize.
const TradingDays = 252.0

// Metrics summarizes an equity curve.
type Metrics struct {
	FinalValue       float64
	TotalReturn      float64
	CAGR             float64 // on calendar days
	Volatility       float64 // annualized sample standard deviation of daily returns
	Sharpe           float64 // risk free rate is 0
	MaxDrawdown      float64 // negative, 0 when the curve never went down
	MaxDrawdownStart date.Date
	MaxDrawdownEnd   date.Date
	Rebalances       int
}

// Returns converts values to daily returns.
// Returns[i] = (Value[i+1] - Value[i]) / Value[i]
func Returns(curve []Point) []float64 {
	if len(curve) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if prev := curve[i-1].Value; prev != 0 {
			returns = append(returns, (curve[i].Value-prev)/prev)
		}
	}
	return returns
}

// Measure computes the metrics of an equity curve started with initial.
func Measure(curve []Point, initial float64) Metrics {
	var m Metrics
	if len(curve) == 0 {
		return m
	}
	first, last := curve[0], curve[len(curve)-1]
	m.FinalValue = last.Value
	m.TotalReturn = m.FinalValue/initial - 1

	years := math.Max(float64(last.Date.DaysSince(first.Date))/365.25, 1e-9)
	m.CAGR = math.Pow(m.FinalValue/initial, 1/years) - 1

	if returns := Returns(curve); len(returns) > 1 {
		mean, std := stat.MeanStdDev(returns, nil)
		m.Volatility = std * math.Sqrt(TradingDays)
		if m.Volatility > 0 {
			m.Sharpe = (math.Pow(1+mean, TradingDays) - 1) / m.Volatility
		}
	}

	m.MaxDrawdown, m.MaxDrawdownStart, m.MaxDrawdownEnd = drawdown(curve)
	for _, p := range curve {
		if p.Rebalance {
			m.Rebalances++
		}
	}
	return m
}

// drawdown returns the largest relative fall from a peak, and the dates of
// that peak and of the trough.
func drawdown(curve []Point) (maxDrawdown float64, start, end date.Date) {
	peak := 0
	start, end = curve[0].Date, curve[0].Date
	for i, p := range curve {
		if p.Value > curve[peak].Value {
			peak = i
		}
		if curve[peak].Value <= 0 {
			continue
		}
		if dd := p.Value/curve[peak].Value - 1; dd < maxDrawdown {
			maxDrawdown, start, end = dd, curve[peak].Date, p.Date
		}
	}
	return maxDrawdown, start, end
}
