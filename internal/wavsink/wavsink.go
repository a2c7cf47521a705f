// Package wavsink records the tone of a running program to a WAV file.
package wavsink

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// SampleRate of the recording in Hz.
	SampleRate = 44100
	// ToneFrequency of the square wave in Hz.
	ToneFrequency = 440
	// SamplesPerTick is the number of samples recorded per 60 Hz timer tick.
	SamplesPerTick = SampleRate / 60

	bitDepth  = 16
	amplitude = 8192
	pcmFormat = 1
)

// Sink records a square wave while the tone is on and silence while it is
// off. Samples are produced per timer tick, so the recording length matches
// the emulated time and not the wall clock time.
type Sink struct {
	closer  io.Closer
	encoder *wav.Encoder
	buf     *audio.IntBuffer

	tone  bool
	phase int
	err   error
}

// Create creates the WAV file and returns a sink recording to it.
func Create(path string) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file '%s': %w", path, err)
	}

	s := New(file)
	s.closer = file
	return s, nil
}

// New returns a sink that encodes to the given writer.
func New(w io.WriteSeeker) *Sink {
	return &Sink{
		encoder: wav.NewEncoder(w, SampleRate, bitDepth, 1, pcmFormat),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  SampleRate,
			},
			Data:           make([]int, SamplesPerTick),
			SourceBitDepth: bitDepth,
		},
	}
}

// SetTone starts or stops the tone.
func (s *Sink) SetTone(on bool) {
	s.tone = on
}

// TimerTick records the samples of one timer tick.
func (s *Sink) TimerTick() {
	if s.err != nil {
		return
	}

	for i := range s.buf.Data {
		s.buf.Data[i] = s.sample()
	}
	if err := s.encoder.Write(s.buf); err != nil {
		s.err = fmt.Errorf("encoding samples: %w", err)
	}
}

func (s *Sink) sample() int {
	if !s.tone {
		s.phase = 0
		return 0
	}

	value := amplitude
	if (s.phase*ToneFrequency*2/SampleRate)%2 == 1 {
		value = -amplitude
	}
	s.phase = (s.phase + 1) % SampleRate
	return value
}

// Close finishes the WAV file. It returns the first error that occurred
// while recording.
func (s *Sink) Close() error {
	err := s.err
	if closeErr := s.encoder.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("finishing WAV file: %w", closeErr)
	}
	if s.closer != nil {
		if closeErr := s.closer.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing WAV file: %w", closeErr)
		}
	}
	return err
}
