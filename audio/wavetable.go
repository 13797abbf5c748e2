package audio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/youpy/go-wav"
)

// DefaultTableLength is the number of samples per waveform in the built-in table.
const DefaultTableLength = 4096

// WaveTable is an ordered family of equal-length waveforms used for morphing.
// It is built once at startup and never mutated, so oscillators share it freely.
type WaveTable struct {
	names []string
	waves [][]float64
}

// NewWaveTable validates and copies waves. It fails when there are no waves, a wave
// is empty, lengths differ or a sample is not finite.
func NewWaveTable(names []string, waves [][]float64) (*WaveTable, error) {
	if len(waves) == 0 {
		return nil, errors.New("wave table is empty")
	}
	if len(names) != len(waves) {
		return nil, fmt.Errorf("wave table has %d names for %d waves", len(names), len(waves))
	}
	size := len(waves[0])
	t := &WaveTable{
		names: make([]string, len(names)),
		waves: make([][]float64, len(waves)),
	}
	copy(t.names, names)
	for i, w := range waves {
		if len(w) == 0 {
			return nil, fmt.Errorf("wave %s has no samples", names[i])
		}
		if len(w) != size {
			return nil, fmt.Errorf("wave %s has %d samples, want %d", names[i], len(w), size)
		}
		for n, s := range w {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return nil, fmt.Errorf("wave %s: sample %d is not finite", names[i], n)
			}
		}
		t.waves[i] = append([]float64(nil), w...)
	}
	return t, nil
}

// Len returns the number of waveforms.
func (t *WaveTable) Len() int { return len(t.waves) }

// Size returns the number of samples in every waveform.
func (t *WaveTable) Size() int { return len(t.waves[0]) }

func (t *WaveTable) Names() []string { return append([]string(nil), t.names...) }

// segment picks the two adjacent waveforms around morph in [0, 1] and the
// fraction between them. N waveforms split the morph range into N-1 segments.
func (t *WaveTable) segment(morph float64) (a, b []float64, frac float64) {
	morph = clamp(morph, 0, 1)
	switch n := len(t.waves); n {
	case 1:
		return t.waves[0], t.waves[0], 0
	case 2:
		return t.waves[0], t.waves[1], morph
	default:
		pos := morph * float64(n-1)
		seg := int(pos)
		if seg > n-2 {
			seg = n - 2
		}
		return t.waves[seg], t.waves[seg+1], clamp(pos-float64(seg), 0, 1)
	}
}

// BuiltinWaveTable generates sine, triangle, saw and square waves, in that order.
func BuiltinWaveTable(length int) *WaveTable {
	if length <= 0 {
		length = DefaultTableLength
	}
	names := []string{"sine", "triangle", "saw", "square"}
	waves := make([][]float64, len(names))
	for i := range waves {
		waves[i] = make([]float64, length)
	}
	for n := 0; n < length; n++ {
		phase := float64(n) / float64(length)
		waves[0][n] = math.Sin(twoPi * phase)
		waves[1][n] = 1 - 4*math.Abs(math.Mod(phase+0.25, 1)-0.5)
		waves[2][n] = 2*phase - 1
		if phase < 0.5 {
			waves[3][n] = 1
		} else {
			waves[3][n] = -1
		}
	}
	t, err := NewWaveTable(names, waves)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadWaveTable reads every .json and .wav file in dir, ordered by file name.
// A JSON asset looks like {"samples": [0, 0.1, ...]}; for WAV files the first
// channel is used.
func LoadWaveTable(dir string) (*WaveTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load wave table: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".wav":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var names []string
	var waves [][]float64
	for _, name := range files {
		w, err := loadWave(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("load wave %s: %w", name, err)
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
		waves = append(waves, w)
	}
	t, err := NewWaveTable(names, waves)
	if err != nil {
		return nil, fmt.Errorf("load wave table %s: %w", dir, err)
	}
	return t, nil
}

func loadWave(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".wav" {
		return DecodeWAVWave(f)
	}
	return DecodeJSONWave(f)
}

type jsonWave struct {
	Samples []float64 `json:"samples"`
}

func DecodeJSONWave(r io.Reader) ([]float64, error) {
	var w jsonWave
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, err
	}
	if len(w.Samples) == 0 {
		return nil, errors.New("no samples")
	}
	return w.Samples, nil
}

// wavSource is what the wav reader needs to seek around the RIFF chunks.
type wavSource interface {
	io.Reader
	io.ReaderAt
}

func DecodeWAVWave(src wavSource) ([]float64, error) {
	r := wav.NewReader(src)
	var samples []float64
	for {
		chunk, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range chunk {
			samples = append(samples, r.FloatValue(sample, 0))
		}
	}
	if len(samples) == 0 {
		return nil, errors.New("no samples")
	}
	return samples, nil
}
