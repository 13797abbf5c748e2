package audio

import "math"

const twoPi = 2 * math.Pi

// Oscillator is a pure function of absolute time since note on.
type Oscillator interface {
	Process(time float64) float64
}

type Sine struct {
	freq float64
}

var _ Oscillator = Sine{}

func NewSine(freq float64) Sine { return Sine{freq: freq} }

func (o Sine) Process(time float64) float64 {
	return math.Sin(twoPi * o.freq * time)
}

// WaveTableOscillator plays one cycle of the table per period, interpolating
// between two adjacent waveforms. The morph position is fixed at construction.
type WaveTableOscillator struct {
	sampleRate      float64
	samplesPerCycle float64
	scale           float64
	a, b            []float64
	frac            float64
}

var _ Oscillator = WaveTableOscillator{}

// NewWaveTableOscillator builds an oscillator over table. morph is clamped to [0, 1];
// 0 plays the first waveform and 1 the last.
func NewWaveTableOscillator(table *WaveTable, freq, sampleRate, morph float64) WaveTableOscillator {
	samplesPerCycle := sampleRate / freq
	a, b, frac := table.segment(morph)
	return WaveTableOscillator{
		sampleRate:      sampleRate,
		samplesPerCycle: samplesPerCycle,
		scale:           float64(table.Size()) / samplesPerCycle,
		a:               a,
		b:               b,
		frac:            frac,
	}
}

func (o WaveTableOscillator) Process(time float64) float64 {
	offset := math.Mod(time*o.sampleRate, o.samplesPerCycle)
	i := int(offset * o.scale)
	if i < 0 {
		i = 0
	} else if i >= len(o.a) {
		i = len(o.a) - 1
	}
	return (1-o.frac)*o.a[i] + o.frac*o.b[i]
}

func midiToFreq(note int) float64 {
	f := math.Pow(2, float64((note-69))/12.0) * 440
	return f
}
