//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/cwbudde/algo-groovebox/dsp/rack"
	"github.com/cwbudde/algo-groovebox/dsp/slicer"
	"github.com/cwbudde/algo-groovebox/internal/host"
	"github.com/cwbudde/algo-groovebox/internal/wavio"
)

var (
	engine *host.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		r, err := rack.New(rack.Context{SampleRate: sr})
		if err != nil {
			return err.Error()
		}
		e, err := host.NewEngine(r)
		if err != nil {
			return err.Error()
		}
		if engine != nil {
			engine.Rack().Close()
		}
		engine = e
		return js.Null()
	}))

	api.Set("types", export(func([]js.Value) any {
		types := rack.DefaultRegistry().Types()
		out := make([]any, len(types))
		for i, t := range types {
			out[i] = t
		}
		return out
	}))

	api.Set("addPlugin", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return -1
		}
		h, err := engine.Add(args[0].String())
		if err != nil {
			return -1
		}
		return float64(h)
	}))

	api.Set("removePlugin", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		return errValue(engine.Remove(handle(args[0])))
	}))

	api.Set("setParameters", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		return errValue(engine.Rack().SetParameters(handle(args[0]), params(args[1])))
	}))

	api.Set("trigger", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		vel := 1.0
		if len(args) > 2 {
			vel = args[2].Float()
		}
		now := engine.Rack().Clock().Now()
		return errValue(engine.Rack().Trigger(handle(args[0]), args[1].Float(), now, vel))
	}))

	api.Set("getState", export(func([]js.Value) any {
		if engine == nil {
			return js.Null()
		}
		raw, err := json.Marshal(engine.Session())
		if err != nil {
			return js.Null()
		}
		return string(raw)
	}))

	api.Set("setState", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		var s host.Session
		if err := json.Unmarshal([]byte(args[0].String()), &s); err != nil {
			return err.Error()
		}
		return errValue(engine.Restore(s))
	}))

	api.Set("setTransport", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		return errValue(engine.SetTransport(args[0].Float()))
	}))

	api.Set("setRunning", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		engine.SetRunning(args[0].Bool())
		return js.Null()
	}))

	api.Set("setGroove", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		return errValue(engine.SetGroove(args[0].String(), args[1].Float()))
	}))

	api.Set("setSteps", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		arr := args[1]
		steps := make([]host.Step, arr.Length())
		for i := range steps {
			item := arr.Index(i)
			steps[i] = host.Step{
				Enabled:  item.Get("enabled").Truthy(),
				Freq:     number(item.Get("freq")),
				Velocity: number(item.Get("velocity")),
			}
		}
		return errValue(engine.SetSteps(handle(args[0]), steps))
	}))

	api.Set("render", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		n := args[0].Int()
		buf := make([]float32, n)
		engine.Render(buf)
		arr := js.Global().Get("Float32Array").New(n)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, buf[i])
		}
		return arr
	}))

	api.Set("currentStep", export(func([]js.Value) any {
		if engine == nil {
			return -1
		}
		return engine.CurrentStep()
	}))

	api.Set("loadSample", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		data := make([]byte, args[1].Get("length").Int())
		js.CopyBytesToGo(data, args[1])
		return errValue(engine.LoadSample(context.Background(), handle(args[0]), bytes.NewReader(data), wavio.Decoder{}))
	}))

	api.Set("setSampleBuffer", export(func(args []js.Value) any {
		if engine == nil || len(args) < 3 {
			return js.Null()
		}
		s, err := engine.Slicer(handle(args[0]))
		if err != nil {
			return err.Error()
		}
		chans := make([][]float64, args[2].Length())
		for c := range chans {
			src := args[2].Index(c)
			chans[c] = make([]float64, src.Length())
			for i := range chans[c] {
				chans[c][i] = src.Index(i).Float()
			}
		}
		buf, err := slicer.NewBuffer(args[1].Float(), chans...)
		if err != nil {
			return err.Error()
		}
		return errValue(s.SetBuffer(buf))
	}))

	api.Set("slicerClick", export(func(args []js.Value) any {
		if engine == nil || len(args) < 3 {
			return 0
		}
		s, err := engine.Slicer(handle(args[0]))
		if err != nil {
			return 0
		}
		return int(s.Click(args[1].Float(), args[2].Float()))
	}))

	api.Set("slicerDrag", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		if s, err := engine.Slicer(handle(args[0])); err == nil {
			if args[1].IsNull() {
				s.EndDrag()
			} else {
				s.DragTo(args[1].Float())
			}
		}
		return js.Null()
	}))

	api.Set("slicerToggleMode", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		s, err := engine.Slicer(handle(args[0]))
		if err != nil {
			return js.Null()
		}
		return s.ToggleMode().String()
	}))

	api.Set("slicerView", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		s, err := engine.Slicer(handle(args[0]))
		if err != nil {
			return js.Null()
		}
		ov := s.Peaks(args[1].Int())
		mins := js.Global().Get("Float32Array").New(len(ov.Columns))
		maxs := js.Global().Get("Float32Array").New(len(ov.Columns))
		for i, p := range ov.Columns {
			mins.SetIndex(i, p.Min)
			maxs.SetIndex(i, p.Max)
		}
		markers := make([]any, len(ov.Markers))
		for i, m := range ov.Markers {
			markers[i] = m
		}
		return map[string]any{
			"min":     mins,
			"max":     maxs,
			"markers": markers,
			"mode":    ov.Mode.String(),
			"status":  s.StatusText(),
		}
	}))

	api.Set("playback", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		pb, err := engine.SlicerPlayhead(handle(args[0]))
		if err != nil || !pb.Active {
			return js.Null()
		}
		return map[string]any{
			"slice":    pb.Slice,
			"offset":   pb.Offset,
			"duration": pb.Duration,
			"position": pb.Position,
		}
	}))

	api.Set("meter", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		lp, err := engine.Limiter(handle(args[0]))
		if err != nil {
			return js.Null()
		}
		lv := lp.Levels()
		spec := js.Global().Get("Float32Array").New(len(lv.Spectrum))
		for i, v := range lv.Spectrum {
			spec.SetIndex(i, v)
		}
		return map[string]any{
			"peak":      lv.Peak,
			"rms":       lv.RMS,
			"reduction": lv.GainReductionDB,
			"spectrum":  spec,
		}
	}))

	js.Global().Set("Groovebox", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}

func handle(v js.Value) rack.Handle {
	return rack.Handle(v.Int())
}

func number(v js.Value) float64 {
	if v.Type() != js.TypeNumber {
		return 0
	}
	return v.Float()
}

// params converts a flat JS object into rack parameters.
func params(obj js.Value) rack.Params {
	p := rack.Params{Num: map[string]float64{}, Str: map[string]string{}}
	keys := js.Global().Get("Object").Call("keys", obj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		switch v := obj.Get(k); v.Type() {
		case js.TypeNumber:
			p.Num[k] = v.Float()
		case js.TypeString:
			p.Str[k] = v.String()
		}
	}
	return p
}

func errValue(err error) any {
	if err != nil {
		return err.Error()
	}
	return js.Null()
}
