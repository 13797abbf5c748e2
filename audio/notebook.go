package audio

import "sync"

const numPitches = 128

// Note is one sounding (or releasing) MIDI note.
type Note struct {
	Pitch    int
	Velocity int
	// Time is the elapsed time since note on in seconds. It advances once per block
	// and every per-sample time stamp is derived from it.
	Time float64
	// OffTime is the value of Time when the gate closed.
	OffTime float64
	On      bool
}

func (n *Note) turnOff() {
	n.On = false
	n.OffTime = n.Time
}

// Notebook keeps track of the notes that are supposed to be playing, at most one
// per pitch. The audio thread snapshots it under the read lock and advances it
// under the write lock once the block has been synthesized; note events from the
// control thread take the write lock. No method allocates while holding the lock.
type Notebook struct {
	mu     sync.RWMutex
	notes  [numPitches]Note
	active [numPitches]bool
	count  int
}

func NewNotebook() *Notebook {
	return &Notebook{}
}

// NoteOn starts pitch from the beginning of its envelope, replacing any note
// already sounding at that pitch.
func (b *Notebook) NoteOn(pitch, velocity int) {
	if pitch < 0 || pitch >= numPitches {
		return
	}
	b.mu.Lock()
	b.noteOn(pitch, velocity)
	b.mu.Unlock()
}

// NoteOff closes the gate of pitch. Unknown pitches are ignored, since a host may
// send a stray off event.
func (b *Notebook) NoteOff(pitch int) {
	if pitch < 0 || pitch >= numPitches {
		return
	}
	b.mu.Lock()
	b.noteOff(pitch)
	b.mu.Unlock()
}

func (b *Notebook) noteOn(pitch, velocity int) {
	if !b.active[pitch] {
		b.active[pitch] = true
		b.count++
	}
	b.notes[pitch] = Note{
		Pitch:    pitch,
		Velocity: int(clamp(float64(velocity), 0, 127)),
		On:       true,
	}
}

func (b *Notebook) noteOff(pitch int) {
	if b.active[pitch] && b.notes[pitch].On {
		b.notes[pitch].turnOff()
	}
}

// Snapshot appends a copy of every note to dst and returns it. Order is by pitch.
func (b *Notebook) Snapshot(dst []Note) []Note {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for p := range b.notes {
		if b.active[p] {
			dst = append(dst, b.notes[p])
		}
	}
	return dst
}

func (b *Notebook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// AdvanceTime adds delta seconds to every note.
func (b *Notebook) AdvanceTime(delta float64) {
	b.mu.Lock()
	b.advance(delta)
	b.mu.Unlock()
}

// Purge removes released notes whose time since release is at least threshold
// and returns how many were removed.
func (b *Notebook) Purge(threshold float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.purge(threshold)
}

// Tick advances time and purges under a single write lock.
func (b *Notebook) Tick(delta, threshold float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(delta)
	return b.purge(threshold)
}

func (b *Notebook) advance(delta float64) {
	for p := range b.notes {
		if b.active[p] {
			b.notes[p].Time += delta
		}
	}
}

func (b *Notebook) purge(threshold float64) int {
	var n int
	for p := range b.notes {
		note := &b.notes[p]
		if b.active[p] && !note.On && note.Time-note.OffTime >= threshold {
			b.active[p] = false
			*note = Note{}
			b.count--
			n++
		}
	}
	return n
}
