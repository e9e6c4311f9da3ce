package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/features"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var pgmPath string

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "List the minutiae of one print",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureLogger(); err != nil {
				return err
			}
			t, err := ctx.template(ctx.templateCreator(), args[0])
			if err != nil {
				return err
			}
			if pgmPath != "" {
				if err := writeSkeleton(pgmPath, t); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderMinutiae(t))
			fmt.Fprintf(out, "%d terminations, %d bifurcations, %d discarded near the border\n",
				len(t.Terminations), len(t.Bifurcations), t.Discarded)
			return nil
		},
	}
	cmd.Flags().StringVar(&pgmPath, "pgm", "", "Write the rendered skeleton to this PGM file")
	return cmd
}

func renderMinutiae(t *fingerknuckle.Template) string {
	var rows [][]string
	add := func(set features.FeatureSet) {
		for _, m := range set {
			rows = append(rows, []string{
				m.Kind.String(),
				fmt.Sprintf("%d", m.Row),
				fmt.Sprintf("%d", m.Col),
				m.Orientation.String(),
			})
		}
	}
	add(t.Terminations)
	add(t.Bifurcations)
	return renderTable(
		[]string{"Kind", "Row", "Col", "Orientation"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	)
}

func writeSkeleton(path string, t *fingerknuckle.Template) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fingerknuckle.WritePGM(f, t.Rendered); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
