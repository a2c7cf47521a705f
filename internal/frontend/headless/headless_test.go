package headless

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestRunner(t *testing.T, program []byte) *runner.Runner {
	t.Helper()
	m := chip8.New(chip8.DefaultConfig())
	assert.NoError(t, m.LoadProgram(program))
	return runner.New(log.NewTestLogger(t), m, runner.Config{})
}

func TestRun(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	// LD F, V0; DRW V0, V0, 5; JP $204 draws the glyph of 0 at the top left
	r := newTestRunner(t, []byte{0xF0, 0x29, 0xD0, 0x05, 0x12, 0x04})

	var buf bytes.Buffer
	fe, err := Factory(log.NewTestLogger(t), frontend.Settings{Output: &buf, Cycles: 10})
	assert.NoError(t, err)
	assert.NoError(t, fe.Run(context.Background(), r))

	output := buf.String()
	lines := strings.Split(output, "\n")
	assert.Equal(t, "####"+strings.Repeat(".", chip8.ScreenWidth-4), lines[0])
	assert.Equal(t, "#..#"+strings.Repeat(".", chip8.ScreenWidth-4), lines[1])
	assert.True(t, strings.Contains(output, "instructions: 10\n"))
	assert.True(t, strings.Contains(output, "sha256: "+verification.Digest(r.Framebuffer())+"\n"))
}

func TestRun_Failure(t *testing.T) {
	m := chip8.New(chip8.DefaultConfig())
	assert.NoError(t, m.LoadProgram([]byte{0x00, 0xEE}))
	r := runner.New(log.NewNop(), m, runner.Config{})

	var buf bytes.Buffer
	err := New(log.NewNop(), &buf, 10).Run(context.Background(), r)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.True(t, strings.Contains(buf.String(), "sha256: "))
}

func TestRun_NoOutput(t *testing.T) {
	r := newTestRunner(t, []byte{0x12, 0x00})

	assert.NoError(t, New(log.NewTestLogger(t), nil, 100).Run(context.Background(), r))
	assert.Equal(t, uint64(100), r.Stats().Instructions)
}
