package audio

import "log"

// Parameter indices. They are fixed at initialization, in registration order.
const (
	ParamVolume = iota
	ParamAttack
	ParamDecay
	ParamSustain
	ParamRelease
	ParamCutoff
	ParamWarp
	ParamWarpAttack
	ParamWarpDecay
	ParamWarpSustain
	ParamWarpRelease
	ParamWarpAmount
	ParamSineLevel
	ParamTableLevel
	ParamVelocity
	numParams
)

type paramDef struct {
	name, label, unit string
	init              float64
}

// Envelope times are in seconds, so the normalized range covers 0 - 1 s.
var synthParams = [numParams]paramDef{
	ParamVolume:      {"volume", "Main Volume", "", 0.5},
	ParamAttack:      {"attack", "Attack", "s", 0.01},
	ParamDecay:       {"decay", "Decay", "s", 0.1},
	ParamSustain:     {"sustain", "Sustain", "", 0.8},
	ParamRelease:     {"release", "Release", "s", 0.2},
	ParamCutoff:      {"cutoff", "Filter Cutoff", "", 1},
	ParamWarp:        {"warp", "Wave Warp", "", 0},
	ParamWarpAttack:  {"warp.attack", "Warp Attack", "s", 0.01},
	ParamWarpDecay:   {"warp.decay", "Warp Decay", "s", 0.1},
	ParamWarpSustain: {"warp.sustain", "Warp Sustain", "", 0},
	ParamWarpRelease: {"warp.release", "Warp Release", "s", 0.2},
	ParamWarpAmount:  {"warp.amount", "Warp Amount", "", 0},
	ParamSineLevel:   {"sine.level", "Sine Level", "", 0},
	ParamTableLevel:  {"table.level", "Table Level", "", 1},
	ParamVelocity:    {"velocity", "Velocity Sensitivity", "", 0},
}

// Synth registers the synth parameters on params and returns an instrument playing
// the waveforms of table.
func Synth(params *Params, table *WaveTable) *Instrument {
	if table == nil {
		log.Printf("synth: no wave table, only the sine oscillator will sound")
	}
	var cells [numParams]*Param
	for i, def := range synthParams {
		cells[i] = params.MustRegister(def.name, def.label, def.unit, def.init)
	}
	return NewInstrument(params, cells, table)
}

// settings reads the current parameter values. Each is read once, so a block sees
// a value that is at most one update stale.
func (i *Instrument) settings(dst *VoiceSettings) {
	p := &i.cells
	dst.SampleRate = i.SampleRate()
	dst.Amp = NewADSR(p[ParamAttack].Load(), p[ParamDecay].Load(), p[ParamSustain].Load(), p[ParamRelease].Load())
	dst.Warp = NewADSR(p[ParamWarpAttack].Load(), p[ParamWarpDecay].Load(), p[ParamWarpSustain].Load(), p[ParamWarpRelease].Load())
	dst.WarpBase = p[ParamWarp].Load()
	dst.WarpAmount = p[ParamWarpAmount].Load()
	dst.SineLevel = p[ParamSineLevel].Load()
	dst.TableLevel = p[ParamTableLevel].Load()
}

// velocityGain maps velocity 0..127 to a voice gain. With sensitivity 0 every
// voice is mixed at unity.
func velocityGain(velocity int, sensitivity float64) float64 {
	return 1 - sensitivity + sensitivity*float64(velocity)/127
}
