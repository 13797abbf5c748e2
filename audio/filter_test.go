package audio

import (
	"math"
	"testing"

	dspfft "github.com/maddyblue/go-dsp/fft"
)

// tones returns n samples holding one sine per bin, each periodic in the block.
func tones(n int, bins ...int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		for _, k := range bins {
			buf[i] += math.Sin(twoPi * float64(k) * float64(i) / float64(n))
		}
	}
	return buf
}

func TestFilterRemovesHighBins(t *testing.T) {
	for _, n := range []int{64, 256, 60, 100} {
		f := NewFilter()
		// the spectrum has n/2+1 bins; aim for the cutoff bin n/6
		cutoff := (float64(n/6) + 0.5) / float64(n/2+1)
		buf := tones(n, 2, n/3)
		f.Process(buf, cutoff)

		if want, got := tones(n, 2), buf; !equalSamples(want, got, 1e-9) {
			t.Errorf("n=%v: high tone not removed:\nwant: %v\ngot:  %v", n, want, got)
		}
	}
}

func TestFilterPassThrough(t *testing.T) {
	f := NewFilter()
	buf := tones(128, 1, 30, 63)
	want := append([]float64(nil), buf...)
	f.Process(buf, 1)
	if !equalSamples(want, buf, 0) {
		t.Error("cutoff at nyquist changed the block")
	}
}

func TestFilterNormalizes(t *testing.T) {
	for _, n := range []int{64, 48} {
		f := NewFilter()
		buf := tones(n, 3)
		for i := range buf {
			buf[i] += 0.25
		}
		want := append([]float64(nil), buf...)
		// removes only the nyquist bin, which holds nothing
		f.Process(buf, float64(n/2)/float64(n/2+1)+1e-6)
		if !equalSamples(want, buf, 1e-9) {
			t.Errorf("n=%v: inverse transform is not normalized:\nwant: %v\ngot:  %v", n, want, buf)
		}
	}
}

func TestFilterZeroCutoff(t *testing.T) {
	f := NewFilter()
	buf := tones(32, 0, 1, 5)
	for i := range buf {
		buf[i] += 1
	}
	f.Process(buf, 0)
	if !equalSamples(make([]float64, 32), buf, 1e-9) {
		t.Errorf("want silence, got %v", buf)
	}
}

func TestFilterChangingBlockSize(t *testing.T) {
	f := NewFilter()
	for _, n := range []int{256, 64, 512, 64} {
		buf := tones(n, 1, n/4)
		f.Process(buf, 0.25)
		if want := tones(n, 1); !equalSamples(want, buf, 1e-9) {
			t.Errorf("n=%v: wrong output", n)
		}
	}
	f.Process(nil, 0.5)
}

// referenceFilter is the direct brick-wall: full transform, zero, inverse.
func referenceFilter(buf []float64, cutoff float64) []float64 {
	spectrum := dspfft.FFTReal(buf)
	zeroAbove(spectrum, cutoffBin(len(buf), cutoff))
	out := make([]float64, len(buf))
	for i, x := range dspfft.IFFT(spectrum) {
		out[i] = real(x)
	}
	return out
}

func TestFilterMatchesReference(t *testing.T) {
	f := NewFilter()
	for _, n := range []int{3, 7, 48, 60, 100, 255, 256, 480} {
		buf := make([]float64, n)
		for i := range buf {
			// deterministic but broadband
			buf[i] = math.Sin(float64(i*i)*0.37) + 0.3*math.Cos(float64(i)*1.9)
		}
		for _, cutoff := range []float64{0, 0.1, 0.5, 0.9} {
			got := append([]float64(nil), buf...)
			f.Process(got, cutoff)
			if want := referenceFilter(buf, cutoff); !equalSamples(want, got, 1e-9) {
				t.Errorf("n=%v cutoff=%v:\nwant: %v\ngot:  %v", n, cutoff, want, got)
			}
		}
	}
}

func TestFilterSingleSample(t *testing.T) {
	f := NewFilter()
	buf := []float64{0.108}
	f.Process(buf, 0)
	if want, got := 0.0, buf[0]; want != got {
		t.Errorf("cutoff 0: want %v, got %v", want, got)
	}
	buf[0] = 0.108
	f.Process(buf, 1)
	if want, got := 0.108, buf[0]; want != got {
		t.Errorf("cutoff 1: want %v, got %v", want, got)
	}
}

func TestFilterDoesNotAllocate(t *testing.T) {
	for _, n := range []int{64, 100, 441} {
		f := NewFilter()
		buf := tones(n, 1, n/3)
		f.Process(buf, 0.5)
		allocs := testing.AllocsPerRun(20, func() { f.Process(buf, 0.5) })
		if allocs != 0 {
			t.Errorf("n=%v: want no allocations, got %v", n, allocs)
		}
	}
}

func TestCutoffBin(t *testing.T) {
	tests := []struct {
		n      int
		cutoff float64
		want   int
	}{
		{64, 0, 0},
		{64, 0.5, 16},
		{64, 1, 33},
		{64, 2, 33},
		{48, -1, 0},
		{1, 0.5, 0},
		{1, 1, 1},
	}
	for _, test := range tests {
		if got := cutoffBin(test.n, test.cutoff); got != test.want {
			t.Errorf("cutoffBin(%v, %v): want %v, got %v", test.n, test.cutoff, test.want, got)
		}
	}
}

func BenchmarkFilter(b *testing.B) {
	f := NewFilter()
	buf := tones(256, 3, 50)
	for i := 0; i < b.N; i++ {
		f.Process(buf, 0.3)
	}
}
