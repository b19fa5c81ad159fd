package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/wealth"
	"github.com/google/subcommands"
)

type initCmd struct {
	force  bool
	amount string
	target string
	sample bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new portfolio file" }
func (*initCmd) Usage() string {
	return `hsw init [-f] [-amount <amount>] [-target <ratio>] [-sample]

Creates the portfolio file with the default strategy: 75% of the amount in
high-risk assets and 25% in low-risk assets, rebalanced beyond a 5% drift.

Holdings are then added by editing the file, or through the web dashboard.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "Overwrite an existing portfolio file")
	f.StringVar(&c.amount, "amount", "1000", "Total investment amount")
	f.StringVar(&c.target, "target", "75%", "Target share of high-risk assets")
	f.BoolVar(&c.sample, "sample", false, "Add a few sample holdings")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := portfolioPath()
	if _, err := os.Stat(name); !c.force && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "portfolio file %q already exists, use -f to overwrite it\n", name)
		return subcommands.ExitFailure
	}

	p, err := c.portfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if err := EncodePortfolio(p); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Portfolio written to %s\n", name)
	return subcommands.ExitSuccess
}

func (c *initCmd) portfolio() (*wealth.Portfolio, error) {
	p := wealth.NewPortfolio(currency(), wealth.Money{})
	if c.sample {
		p.Holdings = wealth.SamplePortfolio().Holdings
	}
	amount, err := wealth.ParseMoney(c.amount, p.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wealth.ErrInvalidAmount, err)
	}
	p.Amount = amount
	high, err := wealth.ParseRatio(c.target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wealth.ErrInvalidRatio, err)
	}
	p.Target = wealth.Target{High: high}
	return p, p.Validate()
}
