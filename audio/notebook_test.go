package audio

import (
	"reflect"
	"sync"
	"testing"
)

func TestNotebookNoteOnOff(t *testing.T) {
	b := NewNotebook()
	b.NoteOn(60, 100)
	b.AdvanceTime(0.5)
	b.NoteOff(60)

	if want, got := []Note{
		{Pitch: 60, Velocity: 100, Time: 0.5, OffTime: 0.5, On: false},
	}, b.Snapshot(nil); !reflect.DeepEqual(want, got) {
		t.Errorf("\nwant: %+v\ngot:  %+v", want, got)
	}

	// a second off keeps the original release time
	b.AdvanceTime(0.25)
	b.NoteOff(60)
	if want, got := 0.5, b.Snapshot(nil)[0].OffTime; want != got {
		t.Errorf("want release time %v, got %v", want, got)
	}
}

func TestNotebookRetrigger(t *testing.T) {
	b := NewNotebook()
	b.NoteOn(60, 100)
	b.AdvanceTime(1)
	b.NoteOff(60)
	b.NoteOn(60, 30)

	if want, got := []Note{
		{Pitch: 60, Velocity: 30, On: true},
	}, b.Snapshot(nil); !reflect.DeepEqual(want, got) {
		t.Errorf("\nwant: %+v\ngot:  %+v", want, got)
	}
	if want, got := 1, b.Len(); want != got {
		t.Errorf("want %v notes, got %v", want, got)
	}
}

func TestNotebookIgnoresUnknownPitches(t *testing.T) {
	b := NewNotebook()
	b.NoteOff(64)
	b.NoteOn(-1, 100)
	b.NoteOn(128, 100)
	b.NoteOff(200)
	if want, got := 0, b.Len(); want != got {
		t.Errorf("want %v notes, got %v", want, got)
	}
	b.NoteOn(127, 300)
	if want, got := 127, b.Snapshot(nil)[0].Velocity; want != got {
		t.Errorf("want velocity clamped to %v, got %v", want, got)
	}
}

func TestNotebookPurge(t *testing.T) {
	const (
		delta     = 0.01
		threshold = 0.1
	)
	b := NewNotebook()
	b.NoteOn(60, 100)
	b.NoteOn(62, 100)
	b.NoteOff(60)

	var elapsed float64
	for n := 0; n < 20; n++ {
		b.AdvanceTime(delta)
		elapsed += delta
		removed := b.Purge(threshold)

		present := false
		for _, note := range b.Snapshot(nil) {
			if note.Pitch == 60 {
				present = true
			}
		}
		if elapsed >= threshold {
			if present {
				t.Fatalf("after %v s: pitch 60 should have been purged", elapsed)
			}
			break
		}
		if !present || removed != 0 {
			t.Fatalf("after %v s: pitch 60 purged too early", elapsed)
		}
	}
	if want, got := 1, b.Len(); want != got {
		t.Errorf("held note should remain: want %v notes, got %v", want, got)
	}
}

func TestNotebookTick(t *testing.T) {
	b := NewNotebook()
	b.NoteOn(60, 100)
	b.NoteOff(60)
	if want, got := 0, b.Tick(0.05, 0.1); want != got {
		t.Errorf("want %v removed, got %v", want, got)
	}
	if want, got := 1, b.Tick(0.05, 0.1); want != got {
		t.Errorf("want %v removed, got %v", want, got)
	}
}

func TestNotebookSnapshotReusesStorage(t *testing.T) {
	b := NewNotebook()
	for p := 40; p < 50; p++ {
		b.NoteOn(p, 100)
	}
	buf := make([]Note, 0, numPitches)
	notes := b.Snapshot(buf[:0])
	if want, got := 10, len(notes); want != got {
		t.Fatalf("want %v notes, got %v", want, got)
	}
	if &notes[0] != &buf[:1][0] {
		t.Error("snapshot did not reuse the given slice")
	}
}

func TestNotebookConcurrent(t *testing.T) {
	b := NewNotebook()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for n := 0; n < 10000; n++ {
			b.NoteOn(n%128, 100)
			b.NoteOff((n + 64) % 128)
		}
	}()
	go func() {
		defer wg.Done()
		buf := make([]Note, 0, numPitches)
		for n := 0; n < 1000; n++ {
			buf = b.Snapshot(buf[:0])
			b.Tick(0.001, 0.01)
		}
	}()
	wg.Wait()
	if got := b.Len(); got < 0 || got > numPitches {
		t.Errorf("note count out of range: %v", got)
	}
}
