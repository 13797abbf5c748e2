package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type Device interface {
	Set(key string, val float64) error
	Get(key string) (float64, error)
}

type preset map[string]float64

var presets = map[string]preset{
	"init": {
		"attack":      0.01,
		"decay":       0.1,
		"sustain":     0.8,
		"release":     0.2,
		"cutoff":      1,
		"warp":        0,
		"warp.amount": 0,
		"sine.level":  0,
		"table.level": 1,
	},
	"pluck": {
		"attack":      0.002,
		"decay":       0.3,
		"sustain":     0,
		"release":     0.1,
		"cutoff":      0.4,
		"warp":        0.6,
		"table.level": 1,
	},
	"pad": {
		"attack":      0.8,
		"decay":       0.5,
		"sustain":     0.7,
		"release":     1,
		"cutoff":      0.25,
		"sine.level":  0.5,
		"table.level": 0.5,
	},
	"warp-bass": {
		"attack":       0.005,
		"decay":        0.2,
		"sustain":      0.9,
		"release":      0.08,
		"cutoff":       0.15,
		"warp":         0.2,
		"warp.attack":  0.001,
		"warp.decay":   0.25,
		"warp.sustain": 0,
		"warp.amount":  0.8,
		"table.level":  1,
	},
}

// Presets returns the names of the built-in presets.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	return p.apply(d)
}

// PresetFile is the JSON schema of a preset file.
type PresetFile struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params"`
}

// LoadPresetFile reads a JSON preset such as {"params": {"attack": 0.2}} and applies
// it to d. Every parameter is validated before any is set.
func LoadPresetFile(path string, d Device) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f PresetFile
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse preset %s: %w", path, err)
	}
	if len(f.Params) == 0 {
		return fmt.Errorf("preset %s has no params", path)
	}
	if err := preset(f.Params).apply(d); err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	return nil
}

func (p preset) apply(d Device) error {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if _, err := d.Get(k); err != nil {
			return err
		}
		if err := checkNormalized(v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := d.Set(k, p[k]); err != nil {
			return err
		}
	}
	return nil
}
