//go:build headless

package main

import (
	"log/slog"

	"github.com/cwbudde/algo-groovebox/internal/host"
)

type headlessOutput struct{}

func newOutput(*host.Engine, int) (output, error) {
	slog.Warn("built without audio output; nothing will be heard")
	return headlessOutput{}, nil
}

func (headlessOutput) Start() error { return nil }
func (headlessOutput) Close() error { return nil }
