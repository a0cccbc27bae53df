package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a session on the default audio device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Rack().Close()

			out, err := newOutput(e, flags.blockSize)
			if err != nil {
				return err
			}
			defer out.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			e.SetRunning(true)
			if err := out.Start(); err != nil {
				return err
			}
			slog.Info("playing", slog.Float64("tempo", e.Tempo()), slog.Int("slots", e.Rack().Len()))

			<-ctx.Done()
			e.SetRunning(false)
			slog.Info("stopped")
			return nil
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "stop after this long (default: until interrupted)")
	return cmd
}
