package audio

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// atomicFloat is a float64 that can be read and written from different goroutines
// without locks.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// Param is one normalized parameter in [0, 1]. Every Param is independently
// consistent; there is no atomicity across several of them.
type Param struct {
	atomicFloat
	name  string
	label string
	unit  string
}

func (p *Param) Name() string  { return p.name }
func (p *Param) Label() string { return p.label }

// HostParameters is the index-addressed surface a plugin host or editor uses to
// enumerate and automate parameters. The synth core only reads values through it.
type HostParameters interface {
	Count() int
	Parameter(index int) float64
	SetParameter(index int, value float64)
	Name(index int) string
	Label(index int) string
	Text(index int) string
}

// Params stores synth configuration that can be updated without locks. All parameters
// must be registered before any reads take place; indices follow registration order.
type Params struct {
	params []*Param
	index  map[string]int
}

var _ HostParameters = (*Params)(nil)

func NewParams() *Params {
	return &Params{index: make(map[string]int)}
}

// Register adds a new parameter and returns its cell.
func (p *Params) Register(name, label, unit string, init float64) (*Param, error) {
	if _, ok := p.index[name]; ok {
		return nil, fmt.Errorf("duplicate parameter %s", name)
	}
	if err := checkNormalized(init); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	prop := &Param{name: name, label: label, unit: unit}
	prop.Store(init)
	p.index[name] = len(p.params)
	p.params = append(p.params, prop)
	return prop, nil
}

func (p *Params) MustRegister(name, label, unit string, init float64) *Param {
	if prop, err := p.Register(name, label, unit, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

// Set updates the parameter called key. Unlike SetParameter, values outside [0, 1]
// are rejected.
func (p *Params) Set(key string, value float64) error {
	i, ok := p.index[key]
	if !ok {
		return fmt.Errorf("unknown parameter %s", key)
	}
	if err := checkNormalized(value); err != nil {
		return fmt.Errorf("set parameter %s: %w", key, err)
	}
	p.params[i].Store(value)
	return nil
}

func (p *Params) Get(key string) (float64, error) {
	i, ok := p.index[key]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %s", key)
	}
	return p.params[i].Load(), nil
}

// Index returns the index of the parameter called key.
func (p *Params) Index(key string) (int, bool) {
	i, ok := p.index[key]
	return i, ok
}

// Keys returns the parameter names in index order.
func (p *Params) Keys() []string {
	keys := make([]string, len(p.params))
	for i, prop := range p.params {
		keys[i] = prop.name
	}
	return keys
}

func (p *Params) Count() int { return len(p.params) }

func (p *Params) Parameter(index int) float64 {
	if index < 0 || index >= len(p.params) {
		return 0
	}
	return p.params[index].Load()
}

// SetParameter is the host write path. It never fails: unknown indices are ignored
// and values are clamped into [0, 1].
func (p *Params) SetParameter(index int, value float64) {
	if index < 0 || index >= len(p.params) || math.IsNaN(value) {
		return
	}
	p.params[index].Store(clamp(value, 0, 1))
}

func (p *Params) Name(index int) string {
	if index < 0 || index >= len(p.params) {
		return ""
	}
	return p.params[index].name
}

func (p *Params) Label(index int) string {
	if index < 0 || index >= len(p.params) {
		return ""
	}
	return p.params[index].label
}

// Text formats the current value for display, e.g. "0.250 s".
func (p *Params) Text(index int) string {
	if index < 0 || index >= len(p.params) {
		return ""
	}
	prop := p.params[index]
	s := strconv.FormatFloat(prop.Load(), 'f', 3, 64)
	if prop.unit != "" {
		s += " " + prop.unit
	}
	return s
}

func checkNormalized(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("value is not in valid range 0 - 1: %v", v)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
