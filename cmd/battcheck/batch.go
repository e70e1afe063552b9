package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"battcheck/app"
	"battcheck/internal/errors"
)

func newBatchCmd() *cobra.Command {
	var flags limitFlags
	var parallel int
	var failExit bool

	cmd := &cobra.Command{
		Use:   "batch [data-file...]",
		Short: "Evaluate several independent measurement files concurrently",
		Long: `Evaluate several measurement files with the same limits. Files are
independent; a malformed file does not stop the others.

Example: battcheck batch runs/*.txt --parallel 4 --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolveConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("parallel") {
				cfg.Batch.Parallelism = parallel
			}
			svc, err := buildService(cfg, flags.trace)
			if err != nil {
				return err
			}

			reqs := make([]app.TestRunRequest, len(args))
			for i, path := range args {
				reqs[i] = app.TestRunRequest{DataFile: path, Limits: cfg.Limits}
			}

			outcomes := svc.RunBatch(cmd.Context(), reqs, cfg.Batch.Parallelism)

			out := cmd.OutOrStdout()
			var failed, errored int
			for _, outcome := range outcomes {
				switch {
				case outcome.Err != nil:
					errored++
					fmt.Fprintf(out, "%s: ERROR [%s] %v\n", outcome.Request.DataFile, errors.GetCode(outcome.Err), outcome.Err)
				case !outcome.Result.Record.Passed():
					failed++
					fmt.Fprintf(out, "%s: FAIL (%.4f Ah, %d reasons)\n", outcome.Request.DataFile,
						outcome.Result.Record.Verdict.Capacity.TotalAh, len(outcome.Result.Record.Verdict.Reasons))
				default:
					fmt.Fprintf(out, "%s: PASS (%.4f Ah)\n", outcome.Request.DataFile, outcome.Result.Record.Verdict.Capacity.TotalAh)
				}
			}
			fmt.Fprintf(out, "%d files, %d passed, %d failed, %d errors\n",
				len(outcomes), len(outcomes)-failed-errored, failed, errored)

			if errored > 0 {
				return &exitCodeError{code: exitError, err: fmt.Errorf("%d of %d files could not be evaluated", errored, len(outcomes))}
			}
			if failExit && failed > 0 {
				return &exitCodeError{code: exitFail}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Maximum files evaluated at once (overrides BATCH_PARALLELISM)")
	cmd.Flags().BoolVar(&failExit, "fail-exit", false, "Exit with status 2 when any test fails")
	return cmd
}
