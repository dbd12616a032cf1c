// Package cli provides the command-line interfaces of the uranus tools.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"sndcds/uranus-tools/internal/logging"

	"github.com/spf13/cobra"
)

// UsageError asks Execute to print a usage text before failing.
type UsageError struct {
	Usage string
	// Err is optional; without it only the usage text is printed.
	Err error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Usage
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Execute runs cmd and returns the process exit code. Errors are reported as
// "Error: ..." on stderr.
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		reportError(cmd.OutOrStdout(), cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func reportError(stdout, stderr io.Writer, err error) {
	var ue *UsageError
	if errors.As(err, &ue) {
		if ue.Err == nil {
			fmt.Fprintln(stdout, ue.Usage)
			return
		}
		fmt.Fprintf(stderr, "Error: %v\n", ue.Err)
		fmt.Fprint(stderr, ue.Usage)
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}

// initLogging sets up zap for a command run.
func initLogging(appEnv string) error {
	if appEnv == "" {
		appEnv = os.Getenv("APP_ENV")
	}
	if appEnv == "" {
		appEnv = "development"
	}
	return logging.Init(appEnv)
}
