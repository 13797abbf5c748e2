package audio

// Mixer sums equal-length inputs, each with its own gain. There is no
// normalization by the number of inputs, so a large chord can clip.
type Mixer struct {
	out []float64
}

// Reset clears the mix and sizes it to n samples, reusing storage when it can.
func (m *Mixer) Reset(n int) {
	if cap(m.out) < n {
		m.out = make([]float64, n)
		return
	}
	m.out = m.out[:n]
	for i := range m.out {
		m.out[i] = 0
	}
}

// Add mixes in with gain. Samples past the end of the shorter buffer are ignored.
func (m *Mixer) Add(in []float64, gain float64) {
	n := len(in)
	if n > len(m.out) {
		n = len(m.out)
	}
	for j := 0; j < n; j++ {
		m.out[j] += gain * in[j]
	}
}

// Output returns the mix. It is overwritten by the next Reset.
func (m *Mixer) Output() []float64 { return m.out }

// Amp is the final gain stage.
type Amp struct {
	Volume float64
}

func (a Amp) Process(buf []float64) {
	for i := range buf {
		buf[i] *= a.Volume
	}
}
