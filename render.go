package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mrdg/synthone/audio"
	wav "github.com/youpy/go-wav"
)

const renderChannels = 2

type renderOptions struct {
	pitches   []int
	velocity  int
	hold      float64 // seconds until the notes are released
	length    float64 // seconds
	blockSize int
}

// render runs the synth block by block without an audio device and writes the
// result as 16 bit stereo WAV. Notes are released at the first block boundary at
// or after opts.hold.
func render(w io.Writer, synth *audio.Instrument, seq *audio.Sequencer, opts renderOptions) error {
	if opts.blockSize <= 0 {
		return fmt.Errorf("invalid block size: %v", opts.blockSize)
	}
	sampleRate := synth.SampleRate()
	total := int(opts.length * sampleRate)
	if total <= 0 {
		return fmt.Errorf("invalid render length: %v", opts.length)
	}
	holdSamples := int(opts.hold * sampleRate)

	for _, p := range opts.pitches {
		synth.NoteOn(p, opts.velocity)
	}
	released := false

	writer := wav.NewWriter(w, uint32(total), renderChannels, uint32(sampleRate), 16)
	samples := make([]wav.Sample, opts.blockSize)
	for pos := 0; pos < total; pos += opts.blockSize {
		n := opts.blockSize
		if total-pos < n {
			n = total - pos
		}
		if !released && pos >= holdSamples {
			for _, p := range opts.pitches {
				synth.NoteOff(p)
			}
			released = true
		}
		if seq != nil {
			seq.Tick(n)
		}
		out := synth.Render(n)
		for i, v := range out {
			s := toInt16(v)
			samples[i] = wav.Sample{Values: [2]int{s, s}}
		}
		if err := writer.WriteSamples(samples[:n]); err != nil {
			return err
		}
	}
	return nil
}

func renderFile(path string, synth *audio.Instrument, seq *audio.Sequencer, opts renderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f, synth, seq, opts); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

func toInt16(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(-1, math.Min(1, v)) * math.MaxInt16)
}

// parseNotes parses a comma separated list of MIDI pitches such as "60,64,67".
func parseNotes(s string) ([]int, error) {
	var pitches []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		p, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad note %q: %w", field, err)
		}
		if err := checkPitch(p); err != nil {
			return nil, err
		}
		pitches = append(pitches, p)
	}
	return pitches, nil
}
