package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-groovebox/internal/host"
	"github.com/cwbudde/algo-groovebox/internal/wavio"
)

func newRenderCmd() *cobra.Command {
	var (
		out      string
		bars     int
		bitDepth int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a session to a WAV file",
		RunE: func(*cobra.Command, []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if bars < 1 {
				return fmt.Errorf("--bars must be >= 1: %d", bars)
			}

			e, err := newEngine()
			if err != nil {
				return err
			}
			defer e.Rack().Close()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			start := time.Now()
			seconds := float64(bars) * host.StepCount * e.StepDuration()
			frames := int(seconds * flags.sampleRate)
			if err := renderWAV(e, frames, flags.blockSize, bitDepth, f); err != nil {
				return err
			}
			slog.Info("rendered",
				slog.String("file", out),
				slog.Int("bars", bars),
				slog.Float64("seconds", seconds),
				slog.Duration("elapsed", time.Since(start)))
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output WAV path")
	cmd.Flags().IntVar(&bars, "bars", 4, "number of bars to render")
	cmd.Flags().IntVar(&bitDepth, "bit-depth", wavio.DefaultBitDepth, "output bit depth (16, 24, 32)")
	return cmd
}

// renderWAV runs the transport for frames frames in blocks of block frames
// and writes the stereo result to w.
func renderWAV(e *host.Engine, frames, block, bitDepth int, w io.WriteSeeker) error {
	if block < 1 {
		return fmt.Errorf("block size must be >= 1: %d", block)
	}
	data := make([]float32, 2*frames)
	e.SetRunning(true)
	for off := 0; off < frames; off += block {
		n := min(block, frames-off)
		e.Render(data[2*off : 2*(off+n)])
	}
	e.SetRunning(false)

	sr := int(e.Rack().Clock().SampleRate())
	return wavio.WriteInterleaved(w, sr, 2, bitDepth, data)
}
