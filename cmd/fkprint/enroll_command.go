package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnrollCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <finger-image> <knuckle-image>",
		Short: "Add a finger/knuckle pair to the reference store",
		Args:  cobra.ExactArgs(2),
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

			id, err := s.Enroll(cmd.Context(), finger, knuckle)
			if err != nil {
				return err
			}
			logger.Info("reference enrolled", "reference", id, "finger", args[0], "knuckle", args[1])
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
