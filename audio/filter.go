package audio

import (
	"math"
	"math/cmplx"

	ktfft "github.com/ktye/fft"
)

// Filter is a brick-wall low-pass applied to each block on its own in the frequency
// domain. Blocks are not overlapped, so a moving cutoff can click at block edges.
//
// Transform plans and buffers are cached per block length, so after the first
// block of a given size Process does not allocate. Lengths that are not a power of
// two are transformed with Bluestein's algorithm on a power-of-two plan.
type Filter struct {
	plans    map[int]ktfft.FFT
	chirps   map[int]*chirpTransform
	spectrum []complex128
}

func NewFilter() *Filter {
	return &Filter{
		plans:  make(map[int]ktfft.FFT),
		chirps: make(map[int]*chirpTransform),
	}
}

// cutoffBin returns the first bin to zero for a spectrum of n/2+1 bins, with
// cutoff given as a fraction of the Nyquist frequency.
func cutoffBin(n int, cutoff float64) int {
	bins := n/2 + 1
	return int(clamp(cutoff, 0, 1) * float64(bins))
}

// Process filters buf in place, zeroing every bin at or above cutoff (a fraction
// of the Nyquist frequency, i.e. cutoff*sampleRate/2 Hz).
func (f *Filter) Process(buf []float64, cutoff float64) {
	n := len(buf)
	if n == 0 {
		return
	}
	c := cutoffBin(n, cutoff)
	if c > n/2 {
		// nothing to remove
		return
	}
	if n == 1 {
		// The only bin is DC and c is 0.
		buf[0] = 0
		return
	}
	spectrum := f.buffer(n)
	for i, s := range buf {
		spectrum[i] = complex(s, 0)
	}
	if n&(n-1) == 0 {
		plan, ok := f.plan(n)
		if !ok {
			return
		}
		spectrum = plan.Transform(spectrum)
		zeroAbove(spectrum, c)
		// Inverse scales by 1/n, which normalizes the spectrum.
		spectrum = plan.Inverse(spectrum)
		for i := range buf {
			buf[i] = real(spectrum[i])
		}
		return
	}

	t, ok := f.chirp(n)
	if !ok {
		return
	}
	t.transform(spectrum)
	zeroAbove(spectrum, c)
	// ifft(X) = conj(fft(conj(X)))/n; only the real part is kept.
	for i, x := range spectrum {
		spectrum[i] = cmplx.Conj(x)
	}
	t.transform(spectrum)
	scale := 1 / float64(n)
	for i := range buf {
		buf[i] = real(spectrum[i]) * scale
	}
}

func (f *Filter) buffer(n int) []complex128 {
	if cap(f.spectrum) < n {
		f.spectrum = make([]complex128, n)
	}
	return f.spectrum[:n]
}

func (f *Filter) plan(n int) (ktfft.FFT, bool) {
	plan, ok := f.plans[n]
	if !ok {
		var err error
		if plan, err = ktfft.New(n); err != nil {
			// n is a power of two, so this cannot happen; leave the block unfiltered.
			return plan, false
		}
		f.plans[n] = plan
	}
	return plan, true
}

func (f *Filter) chirp(n int) (*chirpTransform, bool) {
	t, ok := f.chirps[n]
	if ok {
		return t, true
	}
	m := 1
	for m < 2*n-1 {
		m <<= 1
	}
	plan, ok := f.plan(m)
	if !ok {
		return nil, false
	}
	t = newChirpTransform(n, plan, m)
	f.chirps[n] = t
	return t, true
}

// chirpTransform is a forward DFT of length n computed as a circular convolution
// of length m, a power of two of at least 2n-1:
//
//	X[k] = w[k] * sum_j (x[j]*w[j]) * conj(w[k-j]),  w[j] = exp(-i*pi*j*j/n)
type chirpTransform struct {
	n      int
	plan   ktfft.FFT
	chirp  []complex128 // w[0:n]
	kernel []complex128 // transform of conj(w), wrapped around m
	work   []complex128
}

func newChirpTransform(n int, plan ktfft.FFT, m int) *chirpTransform {
	t := &chirpTransform{
		n:      n,
		plan:   plan,
		chirp:  make([]complex128, n),
		kernel: make([]complex128, m),
		work:   make([]complex128, m),
	}
	for j := range t.chirp {
		// j*j mod 2n keeps the phase argument small.
		phase := math.Pi * float64((j*j)%(2*n)) / float64(n)
		t.chirp[j] = cmplx.Rect(1, -phase)
	}
	t.kernel[0] = cmplx.Conj(t.chirp[0])
	for j := 1; j < n; j++ {
		w := cmplx.Conj(t.chirp[j])
		t.kernel[j] = w
		t.kernel[m-j] = w
	}
	t.kernel = plan.Transform(t.kernel)
	return t
}

// transform replaces x, which must hold n values, with its DFT.
func (t *chirpTransform) transform(x []complex128) {
	work := t.work
	for j := range work {
		if j < t.n {
			work[j] = x[j] * t.chirp[j]
		} else {
			work[j] = 0
		}
	}
	work = t.plan.Transform(work)
	for i := range work {
		work[i] *= t.kernel[i]
	}
	work = t.plan.Inverse(work)
	for k := 0; k < t.n; k++ {
		x[k] = work[k] * t.chirp[k]
	}
}

// zeroAbove clears bin c and every bin above it, together with the mirrored
// negative-frequency bins, so the inverse stays real.
func zeroAbove(spectrum []complex128, c int) {
	n := len(spectrum)
	for k := range spectrum {
		freq := k
		if n-k < freq {
			freq = n - k
		}
		if freq >= c {
			spectrum[k] = 0
		}
	}
}
