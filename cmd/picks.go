package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/agent"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

type picksCmd struct {
	ai   bool
	seed uint64
}

func (*picksCmd) Name() string     { return "picks" }
func (*picksCmd) Synopsis() string { return "suggest assets to buy" }
func (*picksCmd) Usage() string {
	return `hsw picks [-ai] [-seed <n>]

Suggests three high-risk and two low-risk assets.

Picks are drawn from a built-in list. With -ai they are asked to Gemini, with
the current dashboard as context. Gemini reads its API key from
$GEMINI_API_KEY or $GOOGLE_API_KEY.
`
}

func (c *picksCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.ai, "ai", false, "Ask Gemini for the picks")
	f.Uint64Var(&c.seed, "seed", 0, "Seed of the built-in picks, 0 for a random one")
}

func (c *picksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.ai {
		printMarkdown(renderer.RenderPicks(rulePicks(c.seed)))
		return subcommands.ExitSuccess
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	// the dashboard is context only, a portfolio that cannot be refreshed
	// is still worth the picks.
	var d *wealth.Dashboard
	if p, err := DecodePortfolio(); err == nil {
		d = wealth.Refresh(ctx, newSources(p.Currency), p)
		d.Time = now()
	} else {
		log.Warn().Err(err).Msg("picks without a dashboard")
	}

	picks, err := agent.NewAdvisor(client).Picks(ctx, d)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	md := renderer.RenderPicks(&renderer.Picks{High: picks.High, Low: picks.Low, Source: "gemini"})
	if picks.Rationale != "" {
		md += picks.Rationale + "\n"
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
