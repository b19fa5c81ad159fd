package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Environment variables shared with extensions. They also default the
// matching global flags.
const (
	EnvPortfolio  = "HSW_PORTFOLIO"
	EnvCurrency   = "HSW_CURRENCY"
	EnvLogLevel   = "HSW_LOG_LEVEL"
	EnvTestingNow = "HSW_TESTING_NOW"
)

// RunExtension runs the executable hsw-<sub> found in the PATH with args, the
// global flags are passed in the environment. It reports whether an extension
// was found, and its exit code.
func RunExtension(sub string, args []string) (found bool, code int) {
	name := "hsw-" + sub
	path, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Err(err).Str("extension", name).Msg("no extension")
		return false, 0
	}

	ext := exec.Command(path, args...)
	ext.Stdin, ext.Stdout, ext.Stderr = os.Stdin, os.Stdout, os.Stderr
	ext.Env = append(os.Environ(),
		EnvPortfolio+"="+portfolioPath(),
		EnvCurrency+"="+currency(),
		EnvLogLevel+"="+level(),
	)
	log.Debug().Str("extension", path).Strs("args", args).Msg("running extension")

	err = ext.Run()
	var exit *exec.ExitError
	switch {
	case err == nil:
		return true, 0
	case errors.As(err, &exit):
		return true, exit.ExitCode()
	default:
		fmt.Fprintf(os.Stderr, "Error running %s: %v\n", name, err)
		return true, 1
	}
}
