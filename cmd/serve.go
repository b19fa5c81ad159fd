package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/wealth/server"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard in a browser" }
func (*serveCmd) Usage() string {
	return `hsw serve [-addr :8501]

Serves the interactive dashboard. The portfolio file, when there is one,
provides the default values of the form.

  GET /                    the dashboard page
  GET /api/dashboard       the dashboard as JSON
  GET /api/quotes/{symbol} a single quote
  GET /export.csv          the valuation of every holding
  GET /health              liveness
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8501", "Address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := defaultPortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	srv := server.New(server.Config{
		Addr:      c.addr,
		Log:       log.Logger,
		Sources:   newSources(p.Currency),
		Portfolio: p,
		Timeout:   *timeout + 5*time.Second,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()
	fmt.Fprintf(stdout, "Serving the dashboard on %s\n", c.addr)

	select {
	case err := <-errc:
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
