package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type checkCmd struct {
	json  bool
	picks bool
	seed  uint64
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "refresh prices and check the allocation against the target" }
func (*checkCmd) Usage() string {
	return `hsw check [-json] [-picks]

Fetches the price of every holding, values the portfolio in its currency and
compares the share of high-risk assets with the target.

Exit status is 0 when the allocation is within tolerance, 3 when a rebalance
is needed and 1 on error.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the dashboard as JSON")
	f.BoolVar(&c.picks, "picks", false, "Append rule-based picks to the dashboard")
	f.Uint64Var(&c.seed, "seed", 0, "Seed of the picks, 0 for a random one")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	d := wealth.Refresh(ctx, newSources(p.Currency), p)
	d.Time = now()
	log.Info().Bool("evaluated", d.Evaluated()).Err(d.Err).Msg("portfolio refreshed")

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	} else {
		view := renderer.NewDashboard(d)
		if c.picks {
			view.Picks = rulePicks(c.seed)
		}
		printMarkdown(renderer.RenderDashboard(view))
	}
	return checkStatus(d)
}

// checkStatus maps the dashboard to the exit status of 'hsw check'.
func checkStatus(d *wealth.Dashboard) subcommands.ExitStatus {
	switch {
	case d.Err != nil:
		return subcommands.ExitFailure
	case d.Verdict.NeedsRebalance:
		return exitRebalance
	default:
		return subcommands.ExitSuccess
	}
}

// rulePicks returns the built-in picks, seed 0 means random.
func rulePicks(seed uint64) *renderer.Picks {
	if seed == 0 {
		seed = rand.Uint64()
	}
	high, low := wealth.Picks(rand.New(rand.NewPCG(seed, seed)))
	return &renderer.Picks{High: high, Low: low, Source: "rules"}
}
