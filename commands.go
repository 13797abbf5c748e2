package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrdg/synthone/audio"
	"github.com/mrdg/synthone/dub"
)

const defaultVelocity = 100

type command struct {
	name  string
	run   func(*env, []dub.Node) (string, error)
	arity int // -n means len(args) must be >= n
}

var commands = []command{
	{"on", onCommand, -1},
	{"off", offCommand, 1},
	{"set", setCommand, 2},
	{"get", getCommand, 1},
	{"params", paramsCommand, 0},
	{"preset", presetCommand, 1},
	{"notes", notesCommand, 0},
	{"loop", loopCommand, -3},
	{"unloop", unloopCommand, 1},
	{"bpm", bpmCommand, 1},
}

func onCommand(env *env, args []dub.Node) (string, error) {
	if len(args) > 2 {
		return "", fmt.Errorf("wrong number of arguments: want at most 2, got %v", len(args))
	}
	pitch, velocity := 0, defaultVelocity
	if err := readArgs(args[:1], &pitch); err != nil {
		return "", err
	}
	if len(args) == 2 {
		if err := readArgs(args[1:], &velocity); err != nil {
			return "", err
		}
	}
	if err := checkPitch(pitch); err != nil {
		return "", err
	}
	return "", env.noteOn(pitch, velocity)
}

func offCommand(env *env, args []dub.Node) (string, error) {
	var pitch int
	if err := readArgs(args, &pitch); err != nil {
		return "", err
	}
	if err := checkPitch(pitch); err != nil {
		return "", err
	}
	return "", env.noteOff(pitch)
}

func setCommand(env *env, args []dub.Node) (string, error) {
	var name string
	var value float64
	if err := readArgs(args, &name, &value); err != nil {
		return "", err
	}
	return "", env.synth.Set(name, value)
}

func getCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	i, ok := env.synth.Index(name)
	if !ok {
		return "", fmt.Errorf("unknown parameter %s", name)
	}
	return env.synth.Text(i), nil
}

func paramsCommand(env *env, args []dub.Node) (string, error) {
	var b strings.Builder
	for i := 0; i < env.synth.Count(); i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-14s %-22s %s", env.synth.Name(i), env.synth.Label(i), env.synth.Text(i))
	}
	return b.String(), nil
}

func presetCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", loadPreset(name, env.synth)
}

// loadPreset applies a built-in preset, or a preset file when name ends in .json.
func loadPreset(name string, d audio.Device) error {
	if strings.HasSuffix(name, ".json") {
		return audio.LoadPresetFile(name, d)
	}
	return audio.LoadPreset(name, d)
}

func notesCommand(env *env, args []dub.Node) (string, error) {
	var b strings.Builder
	for i, n := range env.synth.Notes() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%3d vel %3d %8.3fs %s", n.Pitch, n.Velocity, n.Time, n.Stage)
	}
	return b.String(), nil
}

// loopCommand divides a clip of the given length in beats into equal steps, one per
// remaining argument. A step is a pitch or _ for a rest.
func loopCommand(env *env, args []dub.Node) (string, error) {
	var name string
	var beats float64
	if err := readArgs(args[:2], &name, &beats); err != nil {
		return "", err
	}
	if beats <= 0 {
		return "", fmt.Errorf("clip length must be positive: %v", beats)
	}
	steps := args[2:]
	stepLength := beats / float64(len(steps))
	clip := audio.NewClip(beats)
	for i, step := range steps {
		switch v := step.(type) {
		case dub.Int:
			if err := checkPitch(int(v)); err != nil {
				return "", err
			}
			clip.AddNote(float64(i)*stepLength, int(v), defaultVelocity, stepLength)
		case dub.Identifier:
			if v != "_" {
				return "", fmt.Errorf("invalid step %q", v)
			}
		default:
			return "", fmt.Errorf("invalid step %v", v)
		}
	}
	env.sequencer.SetClip(name, clip)
	return "", nil
}

func unloopCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	env.sequencer.RemoveClip(name)
	return "", nil
}

func bpmCommand(env *env, args []dub.Node) (string, error) {
	var bpm float64
	if err := readArgs(args, &bpm); err != nil {
		return "", err
	}
	if bpm <= 0 || bpm > 500 {
		return "", fmt.Errorf("bpm out of range: %v", bpm)
	}
	env.sequencer.SetBPM(bpm)
	return strconv.FormatFloat(env.sequencer.BPM(), 'f', -1, 64), nil
}

func checkPitch(pitch int) error {
	if pitch < 0 || pitch > 127 {
		return fmt.Errorf("pitch out of range 0 - 127: %v", pitch)
	}
	return nil
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Float:
				*p = float64(v)
			case dub.Int:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			v, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(v)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
