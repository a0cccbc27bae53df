//go:build !headless

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-groovebox/internal/host"
)

type otoOutput struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	started bool
}

func newOutput(e *host.Engine, bufferFrames int) (output, error) {
	sr := int(e.Rack().Clock().SampleRate())
	op := &oto.NewContextOptions{
		SampleRate:   sr,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	if bufferFrames > 0 {
		op.BufferSize = framesToDuration(bufferFrames, sr)
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio device: %w", err)
	}
	<-ready

	return &otoOutput{ctx: ctx, player: ctx.NewPlayer(newEngineReader(e))}, nil
}

func (o *otoOutput) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		o.player.Play()
		o.started = true
	}
	return nil
}

func (o *otoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	o.started = false
	return err
}

func framesToDuration(frames, sampleRate int) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
