package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrdg/synthone/audio"
)

func main() {
	var (
		rate     = flag.Float64("rate", audio.DefaultSampleRate, "sample rate in Hz")
		buffer   = flag.Int("buffer", 256, "frames per audio block")
		waves    = flag.String("waves", "", "directory of .json and .wav waveforms (default: built-in)")
		preset   = flag.String("preset", "", "built-in preset name or preset .json file")
		output   = flag.String("render", "", "render to this .wav file instead of playing")
		notes    = flag.String("notes", "60", "comma separated pitches played by -render")
		velocity = flag.Int("velocity", defaultVelocity, "velocity of the notes played by -render")
		hold     = flag.Float64("hold", 1, "seconds until the rendered notes are released")
		length   = flag.Float64("length", 2, "length of the render in seconds")
		logFile  = flag.String("log", "", "append log output to this file")
		run      = flag.String("run", "", "file of commands to run on startup")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	table := audio.BuiltinWaveTable(audio.DefaultTableLength)
	if *waves != "" {
		var err error
		if table, err = audio.LoadWaveTable(*waves); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("wave table: %d waves of %d samples", table.Len(), table.Size())

	synth := audio.Synth(audio.NewParams(), table)
	synth.SetSampleRate(*rate)
	seq := audio.NewSequencer(synth)

	if *preset != "" {
		if err := loadPreset(*preset, synth); err != nil {
			log.Fatal(err)
		}
	}

	env := &env{synth: synth, sequencer: seq}
	if *run != "" {
		if err := runScript(env, *run); err != nil {
			log.Fatal(err)
		}
	}

	if *output != "" {
		pitches, err := parseNotes(*notes)
		if err != nil {
			log.Fatal(err)
		}
		opts := renderOptions{
			pitches:   pitches,
			velocity:  *velocity,
			hold:      *hold,
			length:    *length,
			blockSize: *buffer,
		}
		if err := renderFile(*output, synth, seq, opts); err != nil {
			log.Fatal(err)
		}
		return
	}

	sink, err := audio.NewSink(*rate, *buffer, renderChannels)
	if err != nil {
		log.Fatal(err)
	}
	sink.AddTicker(seq)
	sink.AddSources(synth)
	if err := sink.Start(); err != nil {
		log.Fatal(err)
	}
	defer sink.Stop()
	env.live = true

	if err := repl(env); err != nil {
		log.Print(err)
	}
}
