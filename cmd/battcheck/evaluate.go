package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"battcheck/app"
	"battcheck/domain/core"
	"battcheck/domain/run"
	"battcheck/internal/errors"
)

func newEvaluateCmd() *cobra.Command {
	var flags limitFlags
	var battery, device, dutID string
	var failExit, asJSON bool

	cmd := &cobra.Command{
		Use:   "evaluate [data-file]",
		Short: "Evaluate one measurement file and write the reports",
		Long: `Evaluate one measurement file against the configured limits.

The data file is either two whitespace separated columns (voltage current) per
line, or a .csv/.xlsx sheet with voltage and current header columns. Limits come
from the environment (MIN_VOLTAGE, MAX_VOLTAGE, MIN_CURRENT, MAX_CURRENT,
MIN_CAPACITY, TOLERANCE), then --profile, then the flags.

Example: battcheck evaluate run42.txt --battery CellA --device Rig1 --min-capacity 2.5 --format text,xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolveConfig(cmd)
			if err != nil {
				return err
			}
			var explicitID core.DUTID
			if cmd.Flags().Changed("dut-id") {
				if explicitID, err = core.ParseDUTID(dutID); err != nil {
					return errors.WithCode(errors.CodeInvalidInput, err)
				}
			}
			svc, err := buildService(cfg, flags.trace)
			if err != nil {
				return err
			}

			result, err := svc.Run(cmd.Context(), app.TestRunRequest{
				DataFile:    args[0],
				BatteryName: battery,
				DeviceName:  device,
				DUTID:       explicitID,
				Limits:      cfg.Limits,
			})
			if result != nil {
				out := cmd.OutOrStdout()
				if asJSON {
					if jsonErr := writeJSON(out, result.Record); jsonErr != nil {
						return jsonErr
					}
				} else {
					printResult(out, result)
				}
			}
			if err != nil {
				return err
			}

			if failExit && !result.Record.Passed() {
				return &exitCodeError{code: exitFail}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&battery, "battery", "", "Battery name, used for the DUT-ID")
	cmd.Flags().StringVar(&device, "device", "", "Device name, used for the DUT-ID")
	cmd.Flags().StringVar(&dutID, "dut-id", "", "Explicit DUT-ID (overrides --battery/--device)")
	cmd.Flags().BoolVar(&failExit, "fail-exit", false, "Exit with status 2 when the test fails")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run record as JSON")
	return cmd
}

func printResult(w io.Writer, result *app.TestRunResult) {
	rec := result.Record
	v := rec.Verdict

	if id := rec.DUTID(); id != "" {
		fmt.Fprintf(w, "DUT-ID: %s\n", id)
	}
	fmt.Fprintf(w, "Run-ID: %s\n", rec.RunID())
	fmt.Fprintf(w, "Samples: %d\n", rec.Samples.Len())
	fmt.Fprintf(w, "Measured Capacity: %.4f Ah (minimum %.4f Ah)\n", v.Capacity.TotalAh, rec.Limits().MinCapacity)
	fmt.Fprintf(w, "Test Result: %s\n", v.Status())
	for _, reason := range v.Reasons {
		fmt.Fprintf(w, "- %s\n", reason)
	}
	for _, path := range result.Artifacts {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
}

func writeJSON(w io.Writer, rec *run.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
