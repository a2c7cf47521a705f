package window

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
	volume        = 0.15

	// bytes of one stereo frame of 32 bit float samples
	frameSize = 8
)

// squareWave is an endless stream of a square wave as stereo float32 samples.
type squareWave struct {
	phase int
}

func (s *squareWave) Read(p []byte) (int, error) {
	n := len(p) / frameSize * frameSize
	for i := 0; i < n; i += frameSize {
		value := float32(volume)
		if (s.phase*toneFrequency*2/sampleRate)%2 == 1 {
			value = -value
		}
		s.phase = (s.phase + 1) % sampleRate

		bits := math.Float32bits(value)
		binary.LittleEndian.PutUint32(p[i:], bits)
		binary.LittleEndian.PutUint32(p[i+4:], bits)
	}
	return n, nil
}

// beeper plays the tone while the sound timer is running.
type beeper struct {
	player *audio.Player
}

func newBeeper() (*beeper, error) {
	audioContext := audio.CurrentContext()
	if audioContext == nil {
		audioContext = audio.NewContext(sampleRate)
	}

	player, err := audioContext.NewPlayerF32(&squareWave{})
	if err != nil {
		return nil, fmt.Errorf("creating audio player: %w", err)
	}
	player.SetBufferSize(time.Millisecond * 50)
	return &beeper{player: player}, nil
}

// SetTone starts or stops the tone.
func (b *beeper) SetTone(on bool) {
	if on {
		b.player.Play()
	} else {
		b.player.Pause()
	}
}

func (b *beeper) close() {
	b.player.Pause()
	_ = b.player.Close()
}
