package audio

import (
	"log"

	"github.com/gordonklaus/portaudio"
)

// Source writes one block into every output channel. Instrument is a Source.
type Source interface {
	Process([][]float32)
}

// Ticker is advanced once per block before any source runs, so note events it
// produces are heard in the same block. Sequencer is a Ticker.
type Ticker interface {
	Tick(numSamples int)
}

// Sink plays its sources on the default output device. The portaudio callback is
// the audio thread.
type Sink struct {
	sources []Source
	tickers []Ticker
	stream  *portaudio.Stream
}

// NewSink opens the default output device with the given channel count and block
// size.
func NewSink(sampleRate float64, bufferSize, channels int) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Sink{}
	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, bufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	if info := stream.Info(); info != nil {
		log.Printf("sink: %d channels at %v Hz, %d frames per block, output latency %v",
			channels, info.SampleRate, bufferSize, info.OutputLatency)
	}
	return s, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	if err := s.stream.Stop(); err != nil {
		return err
	}
	s.stream.Close()
	return portaudio.Terminate()
}

// AddSources and AddTicker must be called before Start.
func (s *Sink) AddSources(sources ...Source) {
	s.sources = append(s.sources, sources...)
}

func (s *Sink) AddTicker(ticker Ticker) {
	s.tickers = append(s.tickers, ticker)
}

// Process is the stream callback. Sources overwrite the zeroed buffers.
func (s *Sink) Process(samples [][]float32) {
	for _, ch := range samples {
		for j := range ch {
			ch[j] = 0
		}
	}
	if len(samples) == 0 {
		return
	}
	for _, ticker := range s.tickers {
		ticker.Tick(len(samples[0]))
	}
	for _, source := range s.sources {
		source.Process(samples)
	}
}
