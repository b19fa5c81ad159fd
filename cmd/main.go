package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command, len(Commands)),
		Flags: predictFlags(flag.CommandLine),
	}
	root.Flags["portfolio"] = predict.Files("*.json")
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{Flags: predictFlags(f)}
	}
	if topics, err := docs.Names(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func predictFlags(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

// DecodePortfolio decodes the portfolio from the application's portfolio file.
func DecodePortfolio() (*wealth.Portfolio, error) {
	name := portfolioPath()
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("portfolio file %q does not exist, create one with 'hsw init': %w", name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file %q: %w", name, err)
	}
	defer f.Close()

	p, err := wealth.DecodePortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode portfolio file %q: %w", name, err)
	}
	return p, nil
}

// EncodePortfolio writes the portfolio to the application's portfolio file.
func EncodePortfolio(p *wealth.Portfolio) error {
	name := portfolioPath()
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create portfolio file %q: %w", name, err)
	}
	if err := wealth.EncodePortfolio(f, p); err != nil {
		f.Close()
		return fmt.Errorf("could not encode portfolio file %q: %w", name, err)
	}
	return f.Close()
}

// defaultPortfolio returns the portfolio file, or an empty portfolio when
// there is none.
func defaultPortfolio() (*wealth.Portfolio, error) {
	p, err := DecodePortfolio()
	if errors.Is(err, fs.ErrNotExist) {
		cur := currency()
		if cur == "" {
			cur = wealth.DefaultCurrency
		}
		return wealth.NewPortfolio(cur, wealth.M(1000, cur)), nil
	}
	return p, err
}
