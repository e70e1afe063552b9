package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"battcheck/internal/testkit"
)

func newGenerateCmd() *cobra.Command {
	profile := testkit.DefaultDischargeProfile()

	cmd := &cobra.Command{
		Use:   "generate [out-file]",
		Short: "Write a synthetic discharge measurement file",
		Long: `Write a synthetic two-column discharge curve for trying out the evaluator.

Example: battcheck generate sample.txt --samples 450 --current 100 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile.Samples < 0 {
				return fmt.Errorf("--samples must not be negative")
			}
			samples := testkit.NewDischargeGenerator(profile).Generate()

			path, err := testkit.WriteTextFixture(filepath.Dir(args[0]), filepath.Base(args[0]), samples)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples to %s\n", samples.Len(), path)
			return nil
		},
	}

	cmd.Flags().IntVar(&profile.Samples, "samples", profile.Samples, "Number of samples")
	cmd.Flags().Float64Var(&profile.StartVoltage, "start-voltage", profile.StartVoltage, "Voltage at the start of the discharge")
	cmd.Flags().Float64Var(&profile.EndVoltage, "end-voltage", profile.EndVoltage, "Voltage at the end of the discharge")
	cmd.Flags().Float64Var(&profile.Current, "current", profile.Current, "Constant discharge current in A")
	cmd.Flags().Float64Var(&profile.NoiseAmplitude, "noise", profile.NoiseAmplitude, "Peak current noise in A")
	cmd.Flags().Int64Var(&profile.Seed, "seed", profile.Seed, "Random seed")
	return cmd
}
