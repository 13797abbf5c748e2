package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/synthone/audio"
	"github.com/mrdg/synthone/dub"
)

// env is the control thread's view of the synth. It is the only producer of
// queued note events.
type env struct {
	synth     *audio.Instrument
	sequencer *audio.Sequencer
	// live is set once an audio thread renders blocks. Before that nothing drains
	// the event queue, so notes go to the synth directly.
	live bool
}

func (e *env) noteOn(pitch, velocity int) error {
	if !e.live {
		e.synth.NoteOn(pitch, velocity)
		return nil
	}
	return e.synth.Enqueue(pitch, velocity, true)
}

func (e *env) noteOff(pitch int) error {
	if !e.live {
		e.synth.NoteOff(pitch)
		return nil
	}
	return e.synth.Enqueue(pitch, 0, false)
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return "", err
	}
	name := string(command.Name)
	if name == "" {
		return "", nil
	}
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

// runScript evaluates every line of the file at path and stops at the first error.
func runScript(e *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		if _, err := e.eval(scanner.Text()); err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
	}
	return scanner.Err()
}

func (e *env) completer() *readline.PrefixCompleter {
	params := readline.PcItemDynamic(func(string) []string {
		return e.synth.Keys()
	})
	presets := readline.PcItemDynamic(func(string) []string {
		return audio.Presets()
	})
	clips := readline.PcItemDynamic(func(string) []string {
		return e.sequencer.Clips()
	})
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		switch cmd.name {
		case "set", "get":
			items = append(items, readline.PcItem(cmd.name, params))
		case "preset":
			items = append(items, readline.PcItem(cmd.name, presets))
		case "unloop":
			items = append(items, readline.PcItem(cmd.name, clips))
		default:
			items = append(items, readline.PcItem(cmd.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func repl(env *env) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		AutoComplete: env.completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if result, err := env.eval(line); err != nil {
			fmt.Println(err)
		} else if result != "" {
			fmt.Println(result)
		}
	}
}
