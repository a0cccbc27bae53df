package host

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-groovebox/dsp/rack"
	"github.com/cwbudde/algo-groovebox/dsp/slicer"
)

// ErrWrongType is returned when a handle names a plugin of another type.
var ErrWrongType = errors.New("host: wrong plugin type")

// Slicer returns the slicer behind handle h.
func (e *Engine) Slicer(h rack.Handle) (*slicer.Slicer, error) {
	p, ok := e.rack.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", rack.ErrUnknownHandle, h)
	}
	sp, ok := p.(*rack.SlicerPlugin)
	if !ok {
		return nil, fmt.Errorf("%w: %d is %s", ErrWrongType, h, p.Type())
	}
	return sp.Slicer(), nil
}

// Limiter returns the limiter behind handle h.
func (e *Engine) Limiter(h rack.Handle) (*rack.LimiterPlugin, error) {
	p, ok := e.rack.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", rack.ErrUnknownHandle, h)
	}
	lp, ok := p.(*rack.LimiterPlugin)
	if !ok {
		return nil, fmt.Errorf("%w: %d is %s", ErrWrongType, h, p.Type())
	}
	return lp, nil
}

// LoadSample decodes r into the slicer behind h.
func (e *Engine) LoadSample(ctx context.Context, h rack.Handle, r io.Reader, dec slicer.Decoder) error {
	s, err := e.Slicer(h)
	if err != nil {
		return err
	}
	return s.Load(ctx, r, dec)
}

// SlicerPlayhead reports the slice sounding on h at the current clock time.
func (e *Engine) SlicerPlayhead(h rack.Handle) (slicer.Playback, error) {
	s, err := e.Slicer(h)
	if err != nil {
		return slicer.Playback{}, err
	}
	return s.Playback(e.rack.Clock().Now()), nil
}
