package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Process exit codes
const (
	exitOK    = 0
	exitError = 1
	exitFail  = 2
)

// exitCodeError carries a process exit code through cobra's error return
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var coded *exitCodeError
	if stderrors.As(err, &coded) {
		return coded.code
	}
	return exitError
}

var logger = zap.NewNop()

func main() {
	// .env is optional; the environment wins over it
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	_ = logger.Sync()

	if err != nil {
		var coded *exitCodeError
		if !stderrors.As(err, &coded) || coded.err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "battcheck",
		Short:         "Evaluate battery discharge test data against voltage, current and capacity limits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newBatchCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}
