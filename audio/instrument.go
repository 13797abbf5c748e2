package audio

import (
	"errors"
	"math"
)

const (
	DefaultSampleRate = 48000
	eventQueueSize    = 256
)

// Instrument renders the notes of its Notebook once per audio block:
// snapshot, per-voice synthesis, mix, filter, amp, then time advance and purge.
type Instrument struct {
	*Params
	cells      [numParams]*Param
	table      *WaveTable
	notes      *Notebook
	events     *eventBuffer
	sampleRate atomicFloat

	// Owned by the audio thread and reused across blocks.
	snapshot []Note
	voiceBuf []float64
	voice    VoiceSettings
	mixer    Mixer
	filter   *Filter
}

// NewInstrument builds an instrument from registered parameter cells. Most callers
// want Synth, which registers them.
func NewInstrument(params *Params, cells [numParams]*Param, table *WaveTable) *Instrument {
	i := &Instrument{
		Params:   params,
		cells:    cells,
		table:    table,
		notes:    NewNotebook(),
		events:   newEventBuffer(eventQueueSize),
		snapshot: make([]Note, 0, numPitches),
		filter:   NewFilter(),
	}
	i.sampleRate.Store(DefaultSampleRate)
	return i
}

func (i *Instrument) SampleRate() float64 { return i.sampleRate.Load() }

// SetSampleRate changes the rate used from the next block on. Non-positive rates
// are ignored.
func (i *Instrument) SetSampleRate(rate float64) {
	if rate > 0 && !math.IsInf(rate, 0) {
		i.sampleRate.Store(rate)
	}
}

// NoteOn and NoteOff update the notebook directly under its write lock.
func (i *Instrument) NoteOn(pitch, velocity int) { i.notes.NoteOn(pitch, velocity) }
func (i *Instrument) NoteOff(pitch int)          { i.notes.NoteOff(pitch) }

// ErrQueueFull is returned by Enqueue when the audio thread has not drained the
// event queue.
var ErrQueueFull = errors.New("note event queue is full")

// Enqueue passes a note event to the audio thread without taking the notebook
// lock. Events are applied in order before the next block is synthesized. Only one
// goroutine may enqueue, and only while something calls Render.
func (i *Instrument) Enqueue(pitch, velocity int, on bool) error {
	kind := eventNoteOff
	if on {
		kind = eventNoteOn
	}
	if !i.events.push(noteEvent{kind: kind, pitch: pitch, velocity: velocity}) {
		return ErrQueueFull
	}
	return nil
}

// NoteState describes a note for display.
type NoteState struct {
	Note
	Stage string
}

// Notes returns the current notes and their envelope stage.
func (i *Instrument) Notes() []NoteState {
	var settings VoiceSettings
	i.settings(&settings)
	notes := i.notes.Snapshot(make([]Note, 0, numPitches))
	states := make([]NoteState, len(notes))
	for n, note := range notes {
		states[n] = NoteState{
			Note:  note,
			Stage: settings.Amp.stage(note.Time, note.On, note.OffTime).String(),
		}
	}
	return states
}

// Render synthesizes one mono block of n samples. The returned slice is reused by
// the next call.
func (i *Instrument) Render(n int) []float64 {
	i.notes.applyEvents(i.events)

	i.settings(&i.voice)
	i.snapshot = i.notes.Snapshot(i.snapshot[:0])
	i.mixer.Reset(n)

	if cap(i.voiceBuf) < n {
		i.voiceBuf = make([]float64, n)
	}
	buf := i.voiceBuf[:n]
	sensitivity := i.cells[ParamVelocity].Load()
	for _, note := range i.snapshot {
		NewVoice(note, &i.voice, i.table).Play(buf)
		i.mixer.Add(buf, velocityGain(note.Velocity, sensitivity))
	}

	out := i.mixer.Output()
	if len(i.snapshot) > 0 {
		i.filter.Process(out, i.cells[ParamCutoff].Load())
		Amp{Volume: i.cells[ParamVolume].Load()}.Process(out)
	}

	// Every sample above used the clock from before this advance.
	threshold := math.Max(i.voice.Amp.release, minDuration)
	i.notes.Tick(float64(n)/i.voice.SampleRate, threshold)
	return out
}

// Process renders one block and writes it to every output channel.
func (i *Instrument) Process(samples [][]float32) {
	if len(samples) == 0 {
		return
	}
	out := i.Render(len(samples[0]))
	for _, ch := range samples {
		for n := range ch {
			if n < len(out) {
				ch[n] = float32(out[n])
			}
		}
	}
}
