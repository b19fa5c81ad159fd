package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wealth/backtest"
	"github.com/etnz/wealth/date"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type backtestCmd struct {
	legs    string
	period  date.Period
	fee     float64
	initial float64
	start   string
	end     string
	csv     string
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "replay a rebalanced strategy on historical prices" }
func (*backtestCmd) Usage() string {
	return `hsw backtest [-legs SPY=75%,BTC-USD=25%] [-period monthly] [-fee 10] [-start 2015-01-01] [-end <date>] [-csv <file>]

Replays a basket of assets on daily closes: the initial capital is invested
on the first common day, then the basket is rebalanced to its weights on the
last trading day of each period, paying the transaction cost on the traded
notional.
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	def := backtest.DefaultConfig()
	legs := make([]string, 0, len(def.Legs))
	for _, l := range def.Legs {
		legs = append(legs, l.String())
	}
	c.period = def.Period
	f.StringVar(&c.legs, "legs", strings.Join(legs, ","), "Comma separated SYMBOL=WEIGHT, weights must sum to 1")
	f.Var(&c.period, "period", "Rebalance period: daily, weekly, monthly, quarterly or yearly")
	f.Float64Var(&c.fee, "fee", def.FeeBps, "Transaction cost in basis points")
	f.Float64Var(&c.initial, "initial", def.Initial, "Initial capital")
	f.StringVar(&c.start, "start", def.Range.From.String(), "First day of the backtest")
	f.StringVar(&c.end, "end", "", "Last day of the backtest, defaults to today")
	f.StringVar(&c.csv, "csv", "", "Write the daily equity curve to this CSV file")
}

func (c *backtestCmd) config() (backtest.Config, error) {
	cfg := backtest.DefaultConfig()
	cfg.Legs = nil
	for _, s := range strings.Split(c.legs, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		l, err := backtest.ParseLeg(s)
		if err != nil {
			return cfg, err
		}
		cfg.Legs = append(cfg.Legs, l)
	}
	cfg.Period = c.period
	cfg.FeeBps = c.fee
	cfg.Initial = c.initial
	if cur := currency(); cur != "" {
		cfg.Currency = cur
	}

	var err error
	if cfg.Range.From, err = date.Parse(c.start); err != nil {
		return cfg, fmt.Errorf("invalid -start: %w", err)
	}
	cfg.Range.To = date.Date{}
	if c.end != "" {
		if cfg.Range.To, err = date.Parse(c.end); err != nil {
			return cfg, fmt.Errorf("invalid -end: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

func (c *backtestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	series, err := newHistorySources().Load(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := backtest.Run(cfg, series)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.csv != "" {
		if err := writeCurve(c.csv, result.Curve); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	printMarkdown(renderer.RenderBacktest(renderer.NewBacktest(result)))
	return subcommands.ExitSuccess
}

func writeCurve(name string, curve []backtest.Point) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", name, err)
	}
	if err := backtest.WriteCSV(f, curve); err != nil {
		f.Close()
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	return f.Close()
}
