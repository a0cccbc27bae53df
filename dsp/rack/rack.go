package rack

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

var (
	// ErrUnknownHandle is returned for handles not owned by the rack.
	ErrUnknownHandle = errors.New("rack: unknown handle")
	// ErrNotInstrument is returned when a note is sent to an effect.
	ErrNotInstrument = errors.New("rack: plugin is not an instrument")
)

// Handle identifies a plugin for the lifetime of a Rack. Handles are never
// reused.
type Handle uint64

// Option configures a Rack.
type Option func(*rackConfig) error

type rackConfig struct {
	registry *Registry
	logger   *slog.Logger
}

// WithRegistry replaces the default registry.
func WithRegistry(r *Registry) Option {
	return func(c *rackConfig) error {
		if r == nil {
			return errors.New("rack: nil registry")
		}
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *rackConfig) error {
		if l == nil {
			return errors.New("rack: nil logger")
		}
		c.logger = l
		return nil
	}
}

type slot struct {
	handle Handle
	plugin Plugin
}

// Rack owns plugins and renders them on a shared clock.
//
// Render is called from the audio goroutine. The other methods may be
// called from any goroutine.
type Rack struct {
	ctx      Context
	registry *Registry
	logger   *slog.Logger

	mu    sync.RWMutex
	next  Handle
	slots []slot
	mix   *core.Bus
}

// New creates an empty rack. Zero BlockSize and nil Clock are filled with
// defaults.
func New(ctx Context, opts ...Option) (*Rack, error) {
	pc := core.ProcessorConfig{SampleRate: ctx.SampleRate, BlockSize: ctx.BlockSize}.WithDefaults()
	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("rack: %w", err)
	}
	ctx.BlockSize = pc.BlockSize
	if ctx.Clock == nil {
		ctx.Clock = core.NewClock(ctx.SampleRate)
	}

	cfg := rackConfig{logger: ctx.Logger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	ctx.Logger = cfg.logger

	return &Rack{
		ctx:      ctx,
		registry: cfg.registry,
		logger:   cfg.logger,
		next:     1,
		mix:      core.NewBus(ctx.BlockSize),
	}, nil
}

// Context returns the rack context.
func (r *Rack) Context() Context { return r.ctx }

// Clock returns the shared clock.
func (r *Rack) Clock() *core.Clock { return r.ctx.Clock }

// Registry returns the plugin registry.
func (r *Rack) Registry() *Registry { return r.registry }

// Add creates a plugin of the given type at default parameters and appends
// it to the rack.
func (r *Rack) Add(pluginType string) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.next
	p, err := r.create(pluginType, h)
	if err != nil {
		return 0, err
	}
	r.next++
	r.slots = append(r.slots, slot{handle: h, plugin: p})
	r.logger.Info("plugin added", "handle", h, "type", pluginType)
	return h, nil
}

// Remove disposes the plugin and drops it from the rack.
func (r *Rack) Remove(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(h)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	p := r.slots[i].plugin
	r.slots = slices.Delete(r.slots, i, i+1)
	p.Dispose()
	r.logger.Info("plugin removed", "handle", h, "type", p.Type())
	return nil
}

// Get returns the plugin behind h.
func (r *Rack) Get(h Handle) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexLocked(h); i >= 0 {
		return r.slots[i].plugin, true
	}
	return nil, false
}

// Handles returns the handles in processing order.
func (r *Rack) Handles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hs := make([]Handle, len(r.slots))
	for i, s := range r.slots {
		hs[i] = s.handle
	}
	return hs
}

// Len returns the number of plugins.
func (r *Rack) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// SetParameters merges p into the parameters of plugin h.
func (r *Rack) SetParameters(h Handle, p Params) error {
	pl, ok := r.Get(h)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return pl.SetParameters(p)
}

// Trigger schedules a note on instrument h at clock time t.
func (r *Rack) Trigger(h Handle, freq, t, velocity float64) error {
	in, err := r.instrument(h)
	if err != nil {
		return err
	}
	in.Trigger(freq, t, velocity)
	return nil
}

// Release forwards a note release to instrument h.
func (r *Rack) Release(h Handle, t float64) error {
	in, err := r.instrument(h)
	if err != nil {
		return err
	}
	in.Release(t)
	return nil
}

// Render produces the next frames frames at the current clock time and
// advances the clock. The returned bus is owned by the rack and valid until
// the next call.
func (r *Rack) Render(frames int) *core.Bus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t0 := r.ctx.Clock.Now()
	r.mix.Resize(frames)
	r.mix.Clear()

	for _, s := range r.slots {
		if in, ok := s.plugin.(Instrument); ok {
			in.Render(frames, t0)
			r.mix.Mix(in.Output())
		}
	}
	for _, s := range r.slots {
		if fx, ok := s.plugin.(Effect); ok {
			fx.Input().CopyFrom(r.mix)
			fx.Process(frames)
			r.mix.CopyFrom(fx.Output())
		}
	}

	r.ctx.Clock.Advance(frames)
	return r.mix
}

// Snapshot returns the state of every slot in processing order.
func (r *Rack) Snapshot() []SlotState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	states := make([]SlotState, len(r.slots))
	for i, s := range r.slots {
		states[i] = s.plugin.State()
	}
	return states
}

// Restore replaces every plugin with ones rebuilt from states. On error the
// rack is left unchanged.
func (r *Rack) Restore(states []SlotState) ([]Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	built := make([]slot, 0, len(states))
	fail := func(err error) ([]Handle, error) {
		for _, s := range built {
			s.plugin.Dispose()
		}
		return nil, err
	}

	next := r.next
	for i, st := range states {
		p, err := r.create(st.Type, next)
		if err != nil {
			return fail(fmt.Errorf("rack: restore slot %d: %w", i, err))
		}
		built = append(built, slot{handle: next, plugin: p})
		if err := p.SetState(st); err != nil {
			return fail(fmt.Errorf("rack: restore slot %d: %w", i, err))
		}
		next++
	}

	for _, s := range r.slots {
		s.plugin.Dispose()
	}
	r.slots = built
	r.next = next

	handles := make([]Handle, len(built))
	for i, s := range built {
		handles[i] = s.handle
	}
	r.logger.Info("rack restored", "slots", len(built))
	return handles, nil
}

// Close disposes every plugin and empties the rack.
func (r *Rack) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		s.plugin.Dispose()
		r.logger.Info("plugin disposed", "handle", s.handle, "type", s.plugin.Type())
	}
	r.slots = nil
}

func (r *Rack) instrument(h Handle) (Instrument, error) {
	p, ok := r.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	in, ok := p.(Instrument)
	if !ok {
		return nil, fmt.Errorf("%w: %d is %s", ErrNotInstrument, h, p.Type())
	}
	return in, nil
}

func (r *Rack) create(pluginType string, h Handle) (Plugin, error) {
	ctx := r.ctx
	ctx.Seed += int64(h)
	return r.registry.New(pluginType, ctx)
}

func (r *Rack) indexLocked(h Handle) int {
	return slices.IndexFunc(r.slots, func(s slot) bool { return s.handle == h })
}
