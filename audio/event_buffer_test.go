package audio

import (
	"context"
	"reflect"
	"runtime"
	"testing"
)

func TestEventBufferOrder(t *testing.T) {
	buf := newEventBuffer(8)
	buf.push(noteEvent{kind: eventNoteOn, pitch: 60})
	buf.push(noteEvent{kind: eventNoteOff, pitch: 60})

	var events []noteEvent
	buf.drain(func(ev noteEvent) {
		events = append(events, ev)
	})
	if want, got := 2, len(events); want != got {
		t.Fatalf("expected %v events, got %v", want, got)
	}
	if events[0].kind != eventNoteOn || events[1].kind != eventNoteOff {
		t.Errorf("events out of order: %+v", events)
	}

	events = events[:0]
	buf.drain(func(ev noteEvent) {
		events = append(events, ev)
	})
	if want, got := 0, len(events); want != got {
		t.Errorf("expected zero events after drain, got %v", got)
	}
}

func TestEventBufferPanicsOnBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for size that is not a power of 2")
		}
	}()
	newEventBuffer(6)
}

func TestEventBuffer(t *testing.T) {
	buf := newEventBuffer(8)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	var events []noteEvent
	go func() {
		for {
			select {
			case <-ctx.Done():
				buf.drain(func(ev noteEvent) {
					events = append(events, ev)
				})
				done <- struct{}{}
				return
			default:
				buf.drain(func(ev noteEvent) {
					events = append(events, ev)
				})
			}
		}
	}()

	const numEvents = 100_000
	for n := 0; n < numEvents; n++ {
		for !buf.push(noteEvent{pitch: n}) {
			runtime.Gosched()
		}
	}

	cancel()
	<-done

	if len(events) != numEvents {
		t.Errorf("wrong number of events: want %v, got %v", numEvents, len(events))
	}

	prev := -1
	for _, ev := range events {
		if want, got := prev+1, ev.pitch; want != got {
			t.Errorf("discontinuous event: want: %v, got %v", want, got)
		}
		prev++
	}
}

func TestEventBufferFull(t *testing.T) {
	buf := newEventBuffer(4)
	for n := 0; n < 4; n++ {
		if !buf.push(noteEvent{pitch: n}) {
			t.Fatalf("push %v failed before the queue was full", n)
		}
	}
	if buf.push(noteEvent{pitch: 4}) {
		t.Fatalf("push should fail on a full queue")
	}

	var pitches []int
	buf.drain(func(ev noteEvent) { pitches = append(pitches, ev.pitch) })
	if want, got := []int{0, 1, 2, 3}, pitches; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if !buf.push(noteEvent{pitch: 5}) {
		t.Errorf("push should succeed after drain")
	}
}

func TestApplyEvents(t *testing.T) {
	q := newEventBuffer(16)
	q.push(noteEvent{kind: eventNoteOn, pitch: 60, velocity: 100})
	q.push(noteEvent{kind: eventNoteOn, pitch: 200, velocity: 100})
	q.push(noteEvent{kind: eventNoteOff, pitch: 61})

	b := NewNotebook()
	b.applyEvents(q)

	notes := b.Snapshot(nil)
	if want, got := 1, len(notes); want != got {
		t.Fatalf("want %v notes, got %v", want, got)
	}
	if want, got := 60, notes[0].Pitch; want != got {
		t.Errorf("want pitch %v, got %v", want, got)
	}
}
