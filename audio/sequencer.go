package audio

import (
	"math"
	"sort"
	"sync/atomic"
)

// Pulses per quarter note
const PPQN = 960.

// Clip is a looping sequence of notes.
type Clip struct {
	Length int // in pulses
	notes  []clipNote
}

type clipNote struct {
	pos      int // position of the note measured in PPQN from the start of a clip
	pitch    int // pitch as a midi note number
	velocity int
	length   int // in pulses
}

// NewClip returns an empty clip that loops every beats quarter notes.
func NewClip(beats float64) *Clip {
	return &Clip{Length: int(beats * PPQN)}
}

// AddNote adds a note at position beats from the start of the clip, held for
// length beats.
func (c *Clip) AddNote(position float64, pitch, velocity int, length float64) {
	if pitch < 0 || pitch > 127 {
		return
	}
	n := clipNote{
		pos:      int(position * PPQN),
		pitch:    pitch,
		velocity: velocity,
		length:   int(length * PPQN),
	}
	if n.length < 1 {
		n.length = 1
	}
	c.notes = append(c.notes, n)
}

// Player receives the note events of a sequencer.
type Player interface {
	NoteOn(pitch, velocity int)
	NoteOff(pitch int)
	SampleRate() float64
}

// Sequencer loops clips against a player. Tick runs on the audio thread before the
// block is rendered, so its events land at block granularity.
type Sequencer struct {
	player      Player
	bpm         atomicFloat
	clips       atomic.Pointer[map[string]*Clip]
	totalPulses uint64
	// One pending note-off per pitch, at an absolute pulse. A fixed table keeps
	// Tick free of allocations however many notes are held.
	offAt   [numPitches]uint64
	pending [numPitches]bool
}

func NewSequencer(player Player) *Sequencer {
	seq := &Sequencer{player: player}
	seq.bpm.Store(120)
	clips := make(map[string]*Clip)
	seq.clips.Store(&clips)
	return seq
}

func (s *Sequencer) BPM() float64 { return s.bpm.Load() }

func (s *Sequencer) SetBPM(bpm float64) {
	if bpm >= 0 && bpm <= 500 {
		s.bpm.Store(bpm)
	}
}

// SetClip adds or replaces the clip called name. Clips are copied on write; only one
// goroutine may modify them.
func (s *Sequencer) SetClip(name string, clip *Clip) {
	s.update(func(clips map[string]*Clip) { clips[name] = clip })
}

func (s *Sequencer) RemoveClip(name string) {
	s.update(func(clips map[string]*Clip) { delete(clips, name) })
}

// Clips returns the names of the looping clips.
func (s *Sequencer) Clips() []string {
	clips := *s.clips.Load()
	names := make([]string, 0, len(clips))
	for name := range clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Sequencer) update(f func(map[string]*Clip)) {
	old := *s.clips.Load()
	clips := make(map[string]*Clip, len(old)+1)
	for k, v := range old {
		clips[k] = v
	}
	f(clips)
	s.clips.Store(&clips)
}

func (s *Sequencer) Tick(numSamples int) {
	bpm := s.bpm.Load()
	clips := *s.clips.Load()
	rate := s.player.SampleRate()

	// The number of pulses per buffer is fractional. Truncating it makes notes a
	// few samples early, which is not noticeable.
	numPulses := uint64(math.Floor(PPQN * (bpm / 60.) * float64(numSamples) / rate))
	start := s.totalPulses
	end := start + numPulses

	// Release first, so a note that starts again in this block is retriggered.
	for pitch := range s.pending {
		if s.pending[pitch] && s.offAt[pitch] < end {
			s.player.NoteOff(pitch)
			s.pending[pitch] = false
		}
	}

	for _, clip := range clips {
		if clip.Length <= 0 {
			continue
		}
		pos := int(start % uint64(clip.Length)) // current position within the clip
		for _, note := range clip.notes {
			// pulses until the note starts, wrapping around the end of the clip
			wait := ((note.pos-pos)%clip.Length + clip.Length) % clip.Length
			if uint64(wait) < numPulses {
				s.player.NoteOn(note.pitch, note.velocity)
				// A retriggered pitch is released at the later of its off times.
				at := start + uint64(wait) + uint64(note.length)
				if !s.pending[note.pitch] || at > s.offAt[note.pitch] {
					s.offAt[note.pitch] = at
				}
				s.pending[note.pitch] = true
			}
		}
	}
	s.totalPulses = end
}
