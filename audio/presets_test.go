package audio

import (
	"path/filepath"
	"testing"
)

func TestPresets(t *testing.T) {
	for _, name := range Presets() {
		inst := newTestSynth(t)
		if err := LoadPreset(name, inst); err != nil {
			t.Errorf("preset %v: %v", name, err)
		}
	}
	if err := LoadPreset("missing", newTestSynth(t)); err == nil {
		t.Errorf("want error for unknown preset")
	}
}

func TestLoadPresetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soft.json")
	writeFile(t, path, `{"name": "soft", "params": {"attack": 0.3, "cutoff": 0.5}}`)

	inst := newTestSynth(t)
	if err := LoadPresetFile(path, inst); err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]float64{"attack": 0.3, "cutoff": 0.5} {
		if got, _ := inst.Get(key); want != got {
			t.Errorf("%v: want %v, got %v", key, want, got)
		}
	}
}

func TestLoadPresetFileErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"broken.json":  `{"params": `,
		"empty.json":   `{"params": {}}`,
		"unknown.json": `{"params": {"attack": 0.5, "resonance": 0.5}}`,
		"range.json":   `{"params": {"attack": 0.5, "cutoff": 1.5}}`,
	}
	for name, content := range tests {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		inst := newTestSynth(t)
		if err := LoadPresetFile(path, inst); err == nil {
			t.Errorf("%v: want error", name)
		}
		// Nothing is applied when any parameter is invalid.
		if got, _ := inst.Get("attack"); got != 0.01 {
			t.Errorf("%v: attack changed to %v", name, got)
		}
	}
	if err := LoadPresetFile(filepath.Join(dir, "missing.json"), newTestSynth(t)); err == nil {
		t.Errorf("want error for missing file")
	}
}
