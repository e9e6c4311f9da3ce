package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/decision"
	"github.com/jtejido/fingerknuckle/opencv"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var noEnroll bool

	cmd := &cobra.Command{
		Use:   "identify <finger-image> <knuckle-image>",
		Short: "Search the reference store for a finger/knuckle pair",
		Long: `Compare the pair against every stored reference in enrollment order and
stop at the first one whose finger and knuckle scores both reach their
thresholds. When nothing matches the pair is enrolled unless --no-enroll
is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			tc := ctx.templateCreator()
			finger, err := ctx.template(tc, args[0])
			if err != nil {
				return err
			}
			knuckle, err := ctx.template(tc, args[1])
			if err != nil {
				return err
			}

			s, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			id := fingerknuckle.NewIdentifier(opencv.ORB{}, s, nil, logger)
			res, err := id.Identify(cmd.Context(), finger, knuckle, !noEnroll)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderIdentification(res))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noEnroll, "no-enroll", false, "Do not enroll the pair when no reference matches")
	return cmd
}

func renderIdentification(res *fingerknuckle.Identification) string {
	rows := [][]string{
		{"Status", res.Status.String()},
		{"Compared", fmt.Sprintf("%d", res.Compared)},
		{"Skipped", fmt.Sprintf("%d", res.Skipped)},
	}
	if r := res.Record; r != nil {
		label := "Reference"
		if res.Status == decision.StatusNoMatch {
			label = "Closest reference"
		}
		rows = append(rows,
			[]string{label, r.ReferenceID},
			[]string{"Finger score", fmt.Sprintf("%.4f", r.FingerScore)},
			[]string{"Knuckle score", fmt.Sprintf("%.4f", r.KnuckleScore)},
			[]string{"Match", yesNo(r.Verdict)},
		)
	}
	if res.EnrolledID != "" {
		rows = append(rows, []string{"Enrolled as", res.EnrolledID})
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
