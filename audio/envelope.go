package audio

import "math"

// minDuration stands in for attack, decay or release times of zero or less, so
// that the phase completes immediately instead of dividing by zero.
const minDuration = 1e-9

type envelopeStage int

const (
	stageAttack envelopeStage = iota
	stageDecay
	stageSustain
	stageRelease
	stageSilent
)

func (s envelopeStage) String() string {
	switch s {
	case stageAttack:
		return "attack"
	case stageDecay:
		return "decay"
	case stageSustain:
		return "sustain"
	case stageRelease:
		return "release"
	default:
		return "silent"
	}
}

// Envelope maps note time to an amplitude multiplier.
type Envelope interface {
	// Process returns the amplitude at time (seconds since note on). on reports
	// whether the gate is still open and offTime is the time at which it closed.
	Process(time float64, on bool, offTime float64) float64
}

// ADSR is a linear attack/decay/sustain/release envelope. It holds no state: the
// level reached before an early release is derived from offTime, so a fresh ADSR
// built in a later block releases from the same level.
type ADSR struct {
	attack  float64
	decay   float64
	sustain float64
	release float64
}

var _ Envelope = ADSR{}

func NewADSR(attack, decay, sustain, release float64) ADSR {
	return ADSR{
		attack:  math.Max(attack, minDuration),
		decay:   math.Max(decay, minDuration),
		sustain: clamp(sustain, 0, 1),
		release: math.Max(release, minDuration),
	}
}

func (e ADSR) Process(time float64, on bool, offTime float64) float64 {
	if on {
		switch {
		case time < e.attack:
			return math.Max(0, time/e.attack)
		case time < e.attack+e.decay:
			return 1 - (time-e.attack)*((1-e.sustain)/e.decay)
		default:
			return e.sustain
		}
	}

	// Releasing during the attack starts from the level actually reached.
	if time >= offTime+e.release {
		return 0
	}
	from := math.Min(e.peak(offTime), e.sustain)
	since := time - offTime
	// The slope is sustain/release whatever the starting level, so a partial
	// release hits zero early.
	return math.Max(0, from-since*(e.sustain/e.release))
}

// peak is the highest attack level reached by time t.
func (e ADSR) peak(t float64) float64 {
	if t < e.attack {
		return math.Max(0, t/e.attack)
	}
	return 1
}

func (e ADSR) stage(time float64, on bool, offTime float64) envelopeStage {
	if on {
		switch {
		case time < e.attack:
			return stageAttack
		case time < e.attack+e.decay:
			return stageDecay
		default:
			return stageSustain
		}
	}
	if time >= offTime+e.release || e.Process(time, on, offTime) == 0 {
		return stageSilent
	}
	return stageRelease
}
