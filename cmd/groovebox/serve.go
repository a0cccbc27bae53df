package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-groovebox/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		audio bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON control API",
		Long: `Serve a JSON API for editing the rack, patterns, transport, groove and
slicer, and for reading the limiter meter. With --audio the session is
also played on the default audio device.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Rack().Close()

			if audio {
				out, err := newOutput(e, flags.blockSize)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := out.Start(); err != nil {
					return err
				}
			}

			srv, err := server.New(server.Config{Addr: addr}, e, slog.Default())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&audio, "audio", false, "play audio on the default device")
	return cmd
}
