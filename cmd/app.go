// Package cmd implements the hsw command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/wealth"
	"github.com/etnz/wealth/backtest"
	"github.com/etnz/wealth/coingecko"
	"github.com/etnz/wealth/logger"
	"github.com/etnz/wealth/yahoo"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
)

// Commands are the hsw subcommands.
var Commands = []subcommands.Command{
	&initCmd{},
	&checkCmd{},
	&quoteCmd{},
	&serveCmd{},
	&backtestCmd{},
	&picksCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
//
// String flags default to their environment variable, read after the .env
// file is loaded.

var portfolioFile = flag.String("portfolio", "", "Path to the portfolio file (JSON). Defaults to $"+EnvPortfolio+" or portfolio.json")
var currencyFlag = flag.String("currency", "", "Reporting currency of new portfolios and of quotes. Defaults to $"+EnvCurrency+" or the portfolio currency")
var timeout = flag.Duration("timeout", 10*time.Second, "Timeout of each price request")
var logLevel = flag.String("log-level", "", "Log level: debug, info, warn, error or disabled. Defaults to $"+EnvLogLevel+" or warn")
var coingeckoKey = flag.String("coingecko-api-key", "", "CoinGecko demo API key. Defaults to $"+coingecko.APIKeyEnv)
var yahooURL = flag.String("yahoo-url", yahoo.DefaultURL, "Yahoo Finance API base URL")
var coingeckoURL = flag.String("coingecko-url", coingecko.DefaultURL, "CoinGecko API base URL")

// stdout receives the reports.
var stdout io.Writer = os.Stdout

const exitRebalance subcommands.ExitStatus = 3

// setting returns the flag value, or the environment variable, or def.
func setting(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func portfolioPath() string { return setting(*portfolioFile, EnvPortfolio, "portfolio.json") }
func currency() string      { return wealth.NormalizeCurrency(setting(*currencyFlag, EnvCurrency, "")) }
func level() string         { return setting(*logLevel, EnvLogLevel, "warn") }

// SetupLogger configures the global logger from the flags, logs go to stderr.
func SetupLogger() {
	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  level(),
		Pretty: isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

func httpClient() *http.Client { return &http.Client{Timeout: *timeout} }

// newSources returns the price providers, prices are converted to currency.
func newSources(currency string) *wealth.Sources {
	client := httpClient()
	return wealth.NewSources(
		yahoo.New(*yahooURL, client, currency),
		coingecko.New(*coingeckoURL, client, currency, setting(*coingeckoKey, coingecko.APIKeyEnv, "")),
	)
}

// newHistorySources returns the daily closes providers.
func newHistorySources() backtest.Sources {
	client := httpClient()
	return backtest.Sources{
		wealth.ProviderYahoo:     yahoo.New(*yahooURL, client, ""),
		wealth.ProviderCoinGecko: coingecko.New(*coingeckoURL, client, "", setting(*coingeckoKey, coingecko.APIKeyEnv, "")),
	}
}

// now is the time of the reports. It can be pinned with $HSW_TESTING_NOW
// (RFC 3339) to get reproducible outputs.
func now() time.Time {
	if v := os.Getenv(EnvTestingNow); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Now()
}

// printMarkdown renders markdown for the terminal, and prints it raw when
// stdout is redirected.
func printMarkdown(md string) {
	if f, ok := stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(stdout, out)
				return
			}
		}
	}
	fmt.Fprint(stdout, md)
}
