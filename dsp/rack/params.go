package rack

import (
	"encoding/json"
	"maps"
	"math"
)

// Params holds the numeric and string parameters of one plugin. In JSON
// both maps flatten into a single object.
type Params struct {
	Num map[string]float64
	Str map[string]string
}

// NumParams wraps a numeric map.
func NumParams(num map[string]float64) Params {
	return Params{Num: num}
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr returns a string parameter, or def if missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}
	return def
}

// Clone returns a deep copy.
func (p Params) Clone() Params {
	return Params{Num: maps.Clone(p.Num), Str: maps.Clone(p.Str)}
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.Num) + len(p.Str) }

// MarshalJSON encodes p as one flat object.
func (p Params) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, p.Len())
	for k, v := range p.Num {
		out[k] = v
	}
	for k, v := range p.Str {
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat object. Numbers go to Num, strings to Str;
// other values are ignored.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Num, p.Str = nil, nil
	for k, v := range raw {
		switch v := v.(type) {
		case float64:
			if p.Num == nil {
				p.Num = make(map[string]float64)
			}
			p.Num[k] = v
		case string:
			if p.Str == nil {
				p.Str = make(map[string]string)
			}
			p.Str[k] = v
		}
	}
	return nil
}

// SlotState is the persisted form of one rack slot.
type SlotState struct {
	Type   string    `json:"type"`
	Params Params    `json:"params"`
	Chops  []float64 `json:"chops,omitempty"`
}
