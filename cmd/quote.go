package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	provider string
	json     bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "fetch the current price of assets" }
func (*quoteCmd) Usage() string {
	return `hsw quote [-provider <name>] [-json] <symbol>...

Fetches the current price of each symbol in the portfolio currency.

Symbols held in the portfolio are quoted the way the portfolio declares them,
other symbols are routed by their shape: lowercase coin ids (bitcoin) to
coingecko, tickers (AAPL, BTC-USD) to yahoo.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.provider, "provider", "", "Force the provider: yahoo, coingecko or fixed")
	f.BoolVar(&c.json, "json", false, "Print quotes as JSON")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "quote requires at least one symbol")
		return subcommands.ExitUsageError
	}
	p, err := defaultPortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cur := currency()
	if cur == "" {
		cur = p.Currency
	}
	sources := newSources(cur)

	q := &renderer.Quotes{Time: now()}
	for _, symbol := range f.Args() {
		quote, err := sources.Quote(ctx, c.asset(p, symbol))
		if err != nil {
			q.Errors = append(q.Errors, err.Error())
			continue
		}
		q.Quotes = append(q.Quotes, quote)
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(q.Quotes); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		for _, e := range q.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
	} else {
		printMarkdown(renderer.RenderQuotes(q))
	}
	if len(q.Errors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// asset returns the asset held under symbol, or a bare asset.
func (c *quoteCmd) asset(p *wealth.Portfolio, symbol string) wealth.Asset {
	a := wealth.Asset{Symbol: symbol}
	for _, h := range p.Holdings {
		if h.Symbol() == symbol {
			a = h.Asset
			break
		}
	}
	if c.provider != "" {
		a.Provider = strings.ToLower(c.provider)
	}
	return a
}
