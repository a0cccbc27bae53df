package rack

import (
	"log/slog"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

// Context provides environmental information that plugins need.
type Context struct {
	SampleRate float64
	BlockSize  int
	Clock      *core.Clock
	// Seed is the random seed for plugins that draw noise.
	Seed   int64
	Logger *slog.Logger
}
