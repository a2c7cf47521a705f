package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestExecute_ControlFlow(t *testing.T) {
	tests := []struct {
		name   string
		words  []uint16
		setup  func(m *Machine)
		steps  int
		wantPC uint16
		wantSP uint8
	}{
		{
			name:   "jump",
			words:  []uint16{0x1300},
			steps:  1,
			wantPC: 0x300,
		},
		{
			name:   "call",
			words:  []uint16{0x2300},
			steps:  1,
			wantPC: 0x300,
			wantSP: 1,
		},
		{
			name:  "jump with offset",
			words: []uint16{0xB300},
			setup: func(m *Machine) {
				m.v[0] = 0x12
			},
			steps:  1,
			wantPC: 0x312,
		},
		{
			name:  "skip if equal immediate taken",
			words: []uint16{0x3305},
			setup: func(m *Machine) {
				m.v[3] = 0x05
			},
			steps:  1,
			wantPC: 0x204,
		},
		{
			name:   "skip if equal immediate not taken",
			words:  []uint16{0x3305},
			steps:  1,
			wantPC: 0x202,
		},
		{
			name:   "skip if not equal immediate taken",
			words:  []uint16{0x4305},
			steps:  1,
			wantPC: 0x204,
		},
		{
			name:  "skip if registers equal",
			words: []uint16{0x5120},
			setup: func(m *Machine) {
				m.v[1], m.v[2] = 7, 7
			},
			steps:  1,
			wantPC: 0x204,
		},
		{
			name:  "skip if registers not equal not taken",
			words: []uint16{0x9120},
			setup: func(m *Machine) {
				m.v[1], m.v[2] = 7, 7
			},
			steps:  1,
			wantPC: 0x202,
		},
		{
			name:  "skip if key pressed",
			words: []uint16{0xE59E},
			setup: func(m *Machine) {
				m.v[5] = 0xC
				m.keypad[0xC] = true
			},
			steps:  1,
			wantPC: 0x204,
		},
		{
			name:  "skip if key not pressed",
			words: []uint16{0xE5A1},
			setup: func(m *Machine) {
				m.v[5] = 0xC
			},
			steps:  1,
			wantPC: 0x204,
		},
		{
			name:  "key index above 0xF is never pressed",
			words: []uint16{0xE59E},
			setup: func(m *Machine) {
				m.v[5] = 0x1C
				m.keypad = [KeyCount]bool{0xC: true}
			},
			steps:  1,
			wantPC: 0x202,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.words...)
			if tt.setup != nil {
				tt.setup(m)
			}
			for range tt.steps {
				assert.NoError(t, m.Step())
			}

			state := m.State()
			assert.Equal(t, tt.wantPC, state.PC)
			assert.Equal(t, tt.wantSP, state.SP)
		})
	}
}

func TestExecute_CallStoresReturnAddress(t *testing.T) {
	m := newTestMachine(t, 0x2300)
	assert.NoError(t, m.Step())

	state := m.State()
	assert.Equal(t, uint8(1), state.SP)
	assert.Equal(t, uint16(0x202), state.Stack[0])
	assert.Equal(t, uint16(0x300), state.PC)
}

func TestExecute_CallReturnRoundTrip(t *testing.T) {
	m := newTestMachine(t, 0x6001, 0x2400)
	storeWords(m, 0x400, 0x2500, 0x00EE)
	storeWords(m, 0x500, 0x00EE)

	assert.NoError(t, m.Step())
	before := m.State()

	for range 4 {
		assert.NoError(t, m.Step())
	}

	after := m.State()
	assert.Equal(t, uint16(0x204), after.PC)
	assert.Equal(t, before.SP, after.SP)
}

func TestExecute_StackOverflow(t *testing.T) {
	m := newTestMachine(t, 0x2200)

	for range StackDepth {
		assert.NoError(t, m.Step())
	}
	before := m.State()

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))

	var execErr *ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint16(0x200), execErr.PC)
	assert.Equal(t, uint16(0x2200), execErr.Word)
	assert.Equal(t, before, m.State())
}

func TestExecute_StackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(ProgramStart), m.State().PC)
}

func TestExecute_UnknownOpcode(t *testing.T) {
	m := New(DefaultConfig())

	for _, word := range []uint16{0x0000, 0x0FFF, 0x5121, 0x8128, 0xE000, 0xF0FF} {
		err := m.Execute(Decode(word))
		assert.True(t, errors.Is(err, ErrUnknownOpcode))
	}

	err := m.Execute(Operation{Kind: OpLdImm, X: RegisterCount})
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, uint16(ProgramStart), m.State().PC)
}

func TestExecute_AddImmediateWraps(t *testing.T) {
	tests := []struct {
		a, b byte
	}{
		{0x01, 0x02},
		{0xFF, 0x01},
		{0x80, 0x80},
		{0xFE, 0xFE},
		{0x00, 0x00},
	}

	for _, tt := range tests {
		for x := range uint16(RegisterCount) {
			twice := newTestMachine(t,
				0x7000|x<<8|uint16(tt.a),
				0x7000|x<<8|uint16(tt.b))
			once := newTestMachine(t,
				0x7000|x<<8|uint16(tt.a+tt.b))
			twice.v[flagRegister] = 0x42
			once.v[flagRegister] = 0x42

			assert.NoError(t, twice.Step())
			assert.NoError(t, twice.Step())
			assert.NoError(t, once.Step())

			assert.Equal(t, once.v, twice.v)
		}
	}
}

//nolint:funlen // test functions can be long
func TestExecute_ALU(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		vx, vy byte
		want   byte
		wantVF byte
	}{
		{"load", 0x8120, 0x11, 0x22, 0x22, 0x00},
		{"or", 0x8121, 0xF0, 0x0F, 0xFF, 0x00},
		{"and", 0x8122, 0xF3, 0x3F, 0x33, 0x00},
		{"xor", 0x8123, 0xFF, 0x0F, 0xF0, 0x00},
		{"add without carry", 0x8124, 0x10, 0x20, 0x30, 0x00},
		{"add with carry", 0x8124, 0xFF, 0x02, 0x01, 0x01},
		{"sub without borrow", 0x8125, 0x30, 0x10, 0x20, 0x01},
		{"sub equal", 0x8125, 0x30, 0x30, 0x00, 0x01},
		{"sub with borrow", 0x8125, 0x10, 0x30, 0xE0, 0x00},
		{"shift right", 0x8126, 0x05, 0x00, 0x02, 0x01},
		{"shift right even", 0x8126, 0x04, 0xFF, 0x02, 0x00},
		{"reverse sub without borrow", 0x8127, 0x10, 0x30, 0x20, 0x01},
		{"reverse sub with borrow", 0x8127, 0x30, 0x10, 0xE0, 0x00},
		{"shift left", 0x812E, 0x81, 0x00, 0x02, 0x01},
		{"shift left no carry", 0x812E, 0x41, 0xFF, 0x82, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.v[1] = tt.vx
			m.v[2] = tt.vy
			m.v[flagRegister] = 0x00

			assert.NoError(t, m.Step())
			assert.Equal(t, tt.want, m.v[1])
			assert.Equal(t, tt.vy, m.v[2])
			assert.Equal(t, tt.wantVF, m.v[flagRegister])
			assert.Equal(t, uint16(0x202), m.pc)
		})
	}
}

func TestExecute_ALUFlagRegisterAsOperand(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		vf, vy byte
		wantVF byte
	}{
		// the flag overwrites the result when VF is the destination
		{"add into VF with carry", 0x8F14, 0xFF, 0x01, 0x01},
		{"add into VF without carry", 0x8F14, 0x10, 0x01, 0x00},
		{"sub from VF", 0x8F15, 0x05, 0x01, 0x01},
		{"shift VF right", 0x8F06, 0x02, 0x00, 0x00},
		{"shift VF left", 0x8F0E, 0x80, 0x00, 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.v[flagRegister] = tt.vf
			m.v[1] = tt.vy

			assert.NoError(t, m.Step())
			assert.Equal(t, tt.wantVF, m.v[flagRegister])
		})
	}

	// VF as source operand is read before the flag is written
	m := newTestMachine(t, 0x81F4)
	m.v[1] = 0xF0
	m.v[flagRegister] = 0x20
	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0x10), m.v[1])
	assert.Equal(t, byte(0x01), m.v[flagRegister])
}

func TestExecute_Registers(t *testing.T) {
	m := newTestMachine(t,
		0x6A42, // LD VA, $42
		0x7A01, // ADD VA, $01
		0xA123, // LD I, $123
		0x6BFF, // LD VB, $FF
		0xFB1E, // ADD I, VB
		0xFA15, // LD DT, VA
		0xFA18, // LD ST, VA
		0xFC07, // LD VC, DT
	)
	for range 8 {
		assert.NoError(t, m.Step())
	}

	state := m.State()
	assert.Equal(t, byte(0x43), state.V[0xA])
	assert.Equal(t, uint16(0x222), state.I)
	assert.Equal(t, byte(0x43), state.DelayTimer)
	assert.Equal(t, byte(0x43), state.SoundTimer)
	assert.Equal(t, byte(0x43), state.V[0xC])
	assert.Equal(t, uint16(0x210), state.PC)
}

func TestExecute_AddIndexWraps(t *testing.T) {
	m := newTestMachine(t, 0xF01E)
	m.i = 0xFFF
	m.v[0] = 0x02
	m.v[flagRegister] = 0x07

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x001), m.i)
	assert.Equal(t, byte(0x07), m.v[flagRegister])
}

func TestExecute_JumpWithOffsetOutOfRange(t *testing.T) {
	m := newTestMachine(t, 0xBFFF)
	m.v[0] = 0x01

	err := m.Step()
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, uint16(ProgramStart), m.State().PC)
}

func TestExecute_Random(t *testing.T) {
	run := func(seed uint64) []byte {
		m := New(Config{Seed: seed})
		assert.NoError(t, m.LoadProgram([]byte{0xC0, 0x0F, 0x12, 0x00}))
		values := make([]byte, 0, 32)
		for range 32 {
			assert.NoError(t, m.Step())
			values = append(values, m.v[0])
			assert.NoError(t, m.Step())
		}
		return values
	}

	first := run(1234)
	assert.Equal(t, first, run(1234))
	for _, v := range first {
		assert.True(t, v <= 0x0F)
	}
}

func TestExecute_WaitForKey(t *testing.T) {
	m := newTestMachine(t, 0xF30A)

	for range 3 {
		assert.NoError(t, m.Step())
		assert.Equal(t, uint16(ProgramStart), m.State().PC)
	}

	m.SetKey(0x9, true)
	m.SetKey(0x4, true)
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x202), m.State().PC)
	assert.Equal(t, byte(0x4), m.v[3])
}

func TestExecute_FontAddress(t *testing.T) {
	m := newTestMachine(t, 0xF129)
	m.v[1] = 0x1A

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0xA*FontGlyphSize), m.i)
}

func TestExecute_BCD(t *testing.T) {
	m := newTestMachine(t, 0xF233)
	m.v[2] = 254
	m.i = 0x300

	assert.NoError(t, m.Step())
	data, err := m.ReadMemory(0x300, 3)
	assert.NoError(t, err)
	assert.Equal(t, []byte{2, 5, 4}, data)
	assert.Equal(t, uint16(0x300), m.i)
}

func TestExecute_StoreLoadRegisters(t *testing.T) {
	m := newTestMachine(t, 0xF355, 0x6000, 0x6100, 0x6200, 0x6300, 0xF265)
	m.v = [RegisterCount]byte{0x10, 0x20, 0x30, 0x40, 0x50}
	m.i = 0x400

	assert.NoError(t, m.Step())
	data, err := m.ReadMemory(0x400, 5)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x20, 0x30, 0x40, 0x00}, data)
	assert.Equal(t, uint16(0x400), m.i)

	for range 5 {
		assert.NoError(t, m.Step())
	}
	assert.Equal(t, byte(0x10), m.v[0])
	assert.Equal(t, byte(0x20), m.v[1])
	assert.Equal(t, byte(0x30), m.v[2])
	assert.Equal(t, byte(0x00), m.v[3])
	assert.Equal(t, byte(0x50), m.v[4])
}

func TestExecute_MemoryBounds(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		i    uint16
	}{
		{"store below program space", 0xF055, 0x1FF},
		{"store into font area", 0xF055, FontAddress},
		{"store past memory", 0xF155, MaxAddress},
		{"bcd below program space", 0xF033, 0x100},
		{"bcd past memory", 0xF033, 0xFFE},
		{"load past memory", 0xFF65, 0xFF1},
		{"draw past memory", 0xD01F, 0xFF2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.i = tt.i
			m.v[0] = 0xAB
			before := m.State()
			memoryBefore := m.memory

			err := m.Step()
			assert.True(t, errors.Is(err, ErrAddressOutOfRange))
			assert.Equal(t, before, m.State())
			assert.Equal(t, memoryBefore, m.memory)
		})
	}
}

func TestExecute_ReadsInterpreterArea(t *testing.T) {
	// reading font data from the reserved area is allowed
	m := newTestMachine(t, 0xF465)
	m.i = FontAddress

	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0xF0), m.v[0])
	assert.Equal(t, byte(0x90), m.v[1])
	assert.Equal(t, byte(0xF0), m.v[4])
}

func TestExecute_Clear(t *testing.T) {
	m := newTestMachine(t, 0x00E0)
	for i := range m.framebuffer {
		m.framebuffer[i] = true
	}

	assert.NoError(t, m.Step())
	assert.Equal(t, 0, m.framebuffer.Lit())
	assert.Equal(t, uint16(0x202), m.State().PC)
}

func TestExecute_DrawRoundTrip(t *testing.T) {
	m := newTestMachine(t,
		0x600A, // LD V0, $0A
		0x610C, // LD V1, $0C
		0xF029, // LD F, V0
		0xD015, // DRW V0, V1, 5
		0xD015, // DRW V0, V1, 5
	)
	for i := range 3 {
		m.framebuffer[i] = true
	}
	for range 3 {
		assert.NoError(t, m.Step())
	}
	initial := m.Framebuffer()

	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0), m.v[flagRegister])
	assert.True(t, m.framebuffer.Lit() > initial.Lit())

	assert.NoError(t, m.Step())
	assert.Equal(t, byte(1), m.v[flagRegister])
	assert.Equal(t, initial, m.Framebuffer())
}

func TestExecute_DrawCollisionFlag(t *testing.T) {
	m := newTestMachine(t, 0xD011, 0xD011)
	m.i = 0x300
	m.memory[0x300] = 0x80

	// sprite drawn on a clear screen, then drawn again erasing itself
	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0), m.v[flagRegister])
	assert.True(t, m.framebuffer.Pixel(0, 0))

	assert.NoError(t, m.Step())
	assert.Equal(t, byte(1), m.v[flagRegister])
	assert.False(t, m.framebuffer.Pixel(0, 0))
}

func TestExecute_DrawZeroRows(t *testing.T) {
	m := newTestMachine(t, 0xD010)
	m.v[flagRegister] = 1

	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0), m.v[flagRegister])
	assert.Equal(t, 0, m.framebuffer.Lit())
}
