// wavesolve reads a JSON description of a binary assignment optimization
// problem and writes the solution document to stdout, one line per request.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warelogic/wavesolve"
	"github.com/warelogic/wavesolve/logger"
)

var (
	fInput     string
	fTimeLimit time.Duration
	fVerbose   bool
	fQuiet     bool
)

var exitCode int

var rootCmd = &cobra.Command{
	Use:   "wavesolve",
	Short: "solves binary assignment optimization problems",
	Long: `wavesolve translates a JSON model of a binary (0/1) assignment problem
into an integer program, solves it under a wall-clock budget and writes a
single JSON solution document to stdout.

The exit code is 0 for every well-formed solution (including infeasible,
model_invalid and unknown) and 1 when the error record is produced.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           cmdSolve,
}

func cmdSolve(cmd *cobra.Command, args []string) {
	switch {
	case fQuiet:
		logger.Disable()
	case fVerbose:
		logger.SetLevel(zerolog.DebugLevel)
	}

	in := os.Stdin
	if fInput != "" && fInput != "-" {
		f, err := os.Open(fInput)
		if err != nil {
			exitCode = wavesolve.Fail(os.Stdout, fmt.Errorf("opening input: %w", err))
			return
		}
		defer f.Close()
		in = f
	}

	exitCode = wavesolve.Run(in, os.Stdout, wavesolve.WithTimeLimit(fTimeLimit))
}

func init() {
	rootCmd.Flags().StringVar(&fInput, "input", "-", "path of the model document, - for stdin")
	rootCmd.Flags().DurationVar(&fTimeLimit, "time-limit", wavesolve.DefaultTimeLimit, "wall-clock budget for the solve step")
	rootCmd.Flags().BoolVarP(&fVerbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.Flags().BoolVarP(&fQuiet, "quiet", "q", false, "disable logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
