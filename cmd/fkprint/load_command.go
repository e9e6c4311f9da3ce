package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "load <finger-dir> <knuckle-dir>",
		Short: "Enroll finger/knuckle pairs from two directories",
		Long: `Files matching --pattern in each directory are sorted by name and paired
by position: the first finger image with the first knuckle image, and so on.
Unpaired files are reported and skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			pairs, unpaired, err := pairImages(args[0], args[1], pattern)
			if err != nil {
				return err
			}
			if unpaired > 0 {
				logger.Warn("directories differ in size, extra images skipped", "unpaired", unpaired)
			}

			s, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			tc := ctx.templateCreator()
			rows := make([][]string, 0, len(pairs))
			for _, p := range pairs {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				finger, err := ctx.template(tc, p.finger)
				if err != nil {
					return err
				}
				knuckle, err := ctx.template(tc, p.knuckle)
				if err != nil {
					return err
				}
				id, err := s.Enroll(cmd.Context(), finger, knuckle)
				if err != nil {
					return err
				}
				logger.Debug("reference enrolled", "reference", id, "finger", p.finger, "knuckle", p.knuckle)
				rows = append(rows, []string{id, filepath.Base(p.finger), filepath.Base(p.knuckle)})
			}
			logger.Info("bulk load finished", "enrolled", len(rows))
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Finger", "Knuckle"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "*.BMP", "Glob selecting images in both directories")
	return cmd
}

type imagePair struct {
	finger  string
	knuckle string
}

// pairImages matches the i-th sorted finger image with the i-th sorted
// knuckle image. unpaired counts the leftovers of the longer list.
func pairImages(fingerDir, knuckleDir, pattern string) (pairs []imagePair, unpaired int, err error) {
	fingers, err := filepath.Glob(filepath.Join(fingerDir, pattern))
	if err != nil {
		return nil, 0, fmt.Errorf("list finger images: %w", err)
	}
	knuckles, err := filepath.Glob(filepath.Join(knuckleDir, pattern))
	if err != nil {
		return nil, 0, fmt.Errorf("list knuckle images: %w", err)
	}
	sort.Strings(fingers)
	sort.Strings(knuckles)

	n := min(len(fingers), len(knuckles))
	pairs = make([]imagePair, n)
	for i := 0; i < n; i++ {
		pairs[i] = imagePair{finger: fingers[i], knuckle: knuckles[i]}
	}
	return pairs, max(len(fingers), len(knuckles)) - n, nil
}
