package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/opencv"
)

func newCompareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <probe-image> <candidate-image>",
		Short: "Print the fusion score of two prints",
		Long: `The score is the share of the probe's keypoints that found a close
cross-checked partner in the candidate, so swapping the arguments can
change it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureLogger(); err != nil {
				return err
			}
			tc := ctx.templateCreator()
			probe, err := ctx.template(tc, args[0])
			if err != nil {
				return err
			}
			candidate, err := ctx.template(tc, args[1])
			if err != nil {
				return err
			}

			m, err := fingerknuckle.NewMatcher(opencv.ORB{}, nil, probe)
			if err != nil {
				return err
			}
			score, err := m.Match(cmd.Context(), candidate)
			if err != nil {
				return err
			}
			threshold := config.Config.Decision.FingerThreshold
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Score", "Threshold", "Match"},
				[][]string{{fmt.Sprintf("%.4f", score), fmt.Sprintf("%.2f", threshold), yesNo(score >= threshold)}},
				[]columnAlignment{alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
