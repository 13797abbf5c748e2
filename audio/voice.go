package audio

// VoiceSettings is the parameter snapshot every voice of one block shares.
type VoiceSettings struct {
	SampleRate float64
	Amp        ADSR
	// Warp modulates the wavetable morph: morph = WarpBase + WarpAmount*Warp.
	Warp       ADSR
	WarpBase   float64
	WarpAmount float64
	SineLevel  float64
	TableLevel float64
}

// Voice plays one note for one block. It is rebuilt every block from the note and
// the current settings and keeps nothing between blocks.
type Voice struct {
	note     Note
	settings *VoiceSettings
	table    *WaveTable
}

func NewVoice(note Note, settings *VoiceSettings, table *WaveTable) Voice {
	return Voice{note: note, settings: settings, table: table}
}

// Play writes len(buf) samples into buf. Sample i is taken at note time
// Time + i/SampleRate.
func (v Voice) Play(buf []float64) {
	s := v.settings
	note := v.note
	dt := 1 / s.SampleRate
	freq := midiToFreq(note.Pitch)
	sine := NewSine(freq)

	var table WaveTableOscillator
	useTable := v.table != nil && s.TableLevel != 0
	if useTable {
		// The morph is fixed for the block at its value at the block start.
		warp := s.Warp.Process(note.Time, note.On, note.OffTime)
		morph := clamp(s.WarpBase+s.WarpAmount*warp, 0, 1)
		table = NewWaveTableOscillator(v.table, freq, s.SampleRate, morph)
	}

	for i := range buf {
		t := note.Time + float64(i)*dt
		var sample float64
		if s.SineLevel != 0 {
			sample += s.SineLevel * sine.Process(t)
		}
		if useTable {
			sample += s.TableLevel * table.Process(t)
		}
		buf[i] = s.Amp.Process(t, note.On, note.OffTime) * sample
	}
}
