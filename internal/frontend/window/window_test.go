package window

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrogolib/assert"
)

func TestBindKeys(t *testing.T) {
	bindings, err := bindKeys(config.DefaultKeymap())
	assert.NoError(t, err)
	assert.Len(t, bindings, 16)

	keys := make(map[ebiten.Key]uint8, len(bindings))
	for _, binding := range bindings {
		keys[binding.key] = binding.chip8
	}
	assert.Equal(t, uint8(0x1), keys[ebiten.KeyDigit1])
	assert.Equal(t, uint8(0xC), keys[ebiten.KeyDigit4])
	assert.Equal(t, uint8(0x0), keys[ebiten.KeyX])
	assert.Equal(t, uint8(0xF), keys[ebiten.KeyV])
}

func TestBindKeys_Unsupported(t *testing.T) {
	keymap := config.Keymap{
		Version: config.KeymapVersion,
		Keys:    map[string]string{"1": "+"},
	}
	_, err := bindKeys(keymap)
	assert.ErrorContains(t, err, "not supported")
}

func TestSquareWave(t *testing.T) {
	wave := &squareWave{}

	// a partial frame at the end is not filled
	buf := make([]byte, 101*frameSize+3)
	n, err := wave.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 101*frameSize, n)

	sample := func(frame, channel int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[frame*frameSize+channel*4:]))
	}
	assert.Equal(t, float32(volume), sample(0, 0))
	assert.Equal(t, float32(volume), sample(0, 1))
	assert.Equal(t, float32(volume), sample(50, 0))
	assert.Equal(t, float32(-volume), sample(51, 1))
	assert.Equal(t, 101, wave.phase)
}
