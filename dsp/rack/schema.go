package rack

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

// Field declares one parameter. A field with Choices is a string parameter
// whose default is the first choice; otherwise it is numeric.
type Field struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Choices []string
}

// IsString reports whether the field takes a string value.
func (f Field) IsString() bool { return len(f.Choices) > 0 }

// Schema lists the parameters of a plugin type.
type Schema []Field

// Field returns the field called name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns every field at its default.
func (s Schema) Defaults() Params {
	p := Params{Num: make(map[string]float64), Str: make(map[string]string)}
	for _, f := range s {
		if f.IsString() {
			p.Str[f.Name] = f.Choices[0]
		} else {
			p.Num[f.Name] = f.Default
		}
	}
	return p
}

// Clamp returns the known fields of p brought into range. Numbers are
// clamped and non-finite numbers dropped. Strings are matched against the
// choices ignoring case; unknown strings become the default choice.
func (s Schema) Clamp(p Params) Params {
	out := Params{Num: make(map[string]float64), Str: make(map[string]string)}
	for _, f := range s {
		if f.IsString() {
			if v, ok := p.Str[f.Name]; ok {
				out.Str[f.Name] = f.choose(v)
			}
			continue
		}
		if v, ok := p.Num[f.Name]; ok && !math.IsNaN(v) {
			out.Num[f.Name] = core.Clamp(v, f.Min, f.Max)
		}
	}
	return out
}

// Merge overlays the clamped partial onto cur and returns the result. cur
// is not modified.
func (s Schema) Merge(cur, partial Params) Params {
	out := cur.Clone()
	if out.Num == nil {
		out.Num = make(map[string]float64)
	}
	if out.Str == nil {
		out.Str = make(map[string]string)
	}
	c := s.Clamp(partial)
	for k, v := range c.Num {
		out.Num[k] = v
	}
	for k, v := range c.Str {
		out.Str[k] = v
	}
	return out
}

func (f Field) choose(v string) string {
	v = strings.TrimSpace(v)
	for _, c := range f.Choices {
		if strings.EqualFold(c, v) {
			return c
		}
	}
	return f.Choices[0]
}
