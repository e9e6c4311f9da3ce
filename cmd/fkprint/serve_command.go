package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/opencv"
	"github.com/jtejido/fingerknuckle/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP matching API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			s, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			srv := server.New(server.Options{
				Morphology: opencv.Morphology{},
				Keypoints:  opencv.ORB{},
				Gallery:    s,
				Logger:     logger,
			})
			if address == "" {
				address = config.Config.Server.Address
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.Listen(address) }()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Listen address (defaults to server.address)")
	return cmd
}
