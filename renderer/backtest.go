package renderer

import (
	"fmt"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/backtest"
	"github.com/etnz/wealth/date"
)

// Backtest is the data of the backtest report.
type Backtest struct {
	Legs       []BacktestLeg
	Period     string
	Fees       string
	From, To   date.Date
	Days       int
	Initial    wealth.Money
	Final      wealth.Money
	Return     wealth.Ratio
	CAGR       wealth.Ratio
	Volatility wealth.Ratio
	Sharpe     string
	Drawdown   wealth.Ratio
	// DrawdownFrom and DrawdownTo are the peak and the trough of the max drawdown.
	DrawdownFrom, DrawdownTo date.Date
	Rebalances               int
}

// BacktestLeg is an asset of the basket with its weight.
type BacktestLeg struct {
	Symbol string
	Weight wealth.Ratio
}

// NewBacktest creates a Backtest struct from a backtest result.
func NewBacktest(r *backtest.Result) *Backtest {
	c, m := r.Config, r.Metrics
	b := &Backtest{
		Legs:         make([]BacktestLeg, 0, len(c.Legs)),
		Period:       c.Period.String(),
		Fees:         fmt.Sprintf("%g bps", c.FeeBps),
		Days:         len(r.Curve),
		Initial:      wealth.M(c.Initial, c.Currency),
		Final:        wealth.M(m.FinalValue, c.Currency),
		Return:       wealth.R(m.TotalReturn),
		CAGR:         wealth.R(m.CAGR),
		Volatility:   wealth.R(m.Volatility),
		Sharpe:       fmt.Sprintf("%.2f", m.Sharpe),
		Drawdown:     wealth.R(m.MaxDrawdown),
		DrawdownFrom: m.MaxDrawdownStart,
		DrawdownTo:   m.MaxDrawdownEnd,
		Rebalances:   m.Rebalances,
	}
	for _, l := range c.Legs {
		b.Legs = append(b.Legs, BacktestLeg{Symbol: l.Symbol, Weight: wealth.R(l.Weight)})
	}
	if len(r.Curve) > 0 {
		b.From, b.To = r.Curve[0].Date, r.Curve[len(r.Curve)-1].Date
	}
	return b
}
