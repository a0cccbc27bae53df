package rack

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

// ErrTypeMismatch is returned when a state record is applied to a plugin of
// another type.
var ErrTypeMismatch = errors.New("rack: state type mismatch")

// Plugin is the contract shared by instruments and effects.
type Plugin interface {
	Type() string
	Schema() Schema
	// Parameters returns the current values of every field.
	Parameters() Params
	// SetParameters merges p into the current values. Values are clamped
	// to the schema; unknown keys are ignored.
	SetParameters(p Params) error
	State() SlotState
	// SetState replaces all parameters, starting from defaults.
	SetState(s SlotState) error
	// Dispose releases buffers and voices and stops background work.
	Dispose()
}

// Instrument is a note-driven plugin.
type Instrument interface {
	Plugin
	Trigger(freq, t, velocity float64)
	Release(t float64)
	// Render replaces Output with frames frames starting at time t0.
	Render(frames int, t0 float64)
	Output() *core.Bus
}

// Effect transforms its input bus into its output bus.
type Effect interface {
	Plugin
	Input() *core.Bus
	Output() *core.Bus
	// Process reads frames frames from Input and writes Output.
	Process(frames int)
}

// base implements parameter storage and state for every adapter.
type base struct {
	typ    string
	schema Schema
	apply  func(Params) error

	mu     sync.Mutex
	params Params
}

func (b *base) init(typ string, schema Schema, apply func(Params) error) error {
	b.typ, b.schema, b.apply = typ, schema, apply
	b.params = schema.Defaults()
	return b.apply(b.params.Clone())
}

func (b *base) Type() string   { return b.typ }
func (b *base) Schema() Schema { return b.schema }

func (b *base) Parameters() Params {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params.Clone()
}

func (b *base) SetParameters(p Params) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store(b.schema.Merge(b.params, p))
}

func (b *base) State() SlotState {
	return SlotState{Type: b.typ, Params: b.Parameters()}
}

func (b *base) SetState(s SlotState) error {
	if s.Type != b.typ {
		return fmt.Errorf("%w: %q applied to %q", ErrTypeMismatch, s.Type, b.typ)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store(b.schema.Merge(b.schema.Defaults(), s.Params))
}

func (b *base) store(next Params) error {
	if err := b.apply(next.Clone()); err != nil {
		return fmt.Errorf("rack: %s: %w", b.typ, err)
	}
	b.params = next
	return nil
}
