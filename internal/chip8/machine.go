package chip8

import (
	"fmt"
	"math/rand/v2"
)

const (
	// RegisterCount is the number of general-purpose registers.
	RegisterCount = 16

	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16

	// flagRegister is VF, written by arithmetic and draw instructions.
	flagRegister = 0xF
)

// Config contains the machine options.
type Config struct {
	// ProgramCeiling is the exclusive end of the program space. Programs may use
	// the addresses from ProgramStart up to ProgramCeiling-1. Values above
	// MemorySize are clamped, zero selects DefaultProgramCeiling.
	ProgramCeiling uint16

	// Seed initializes the random number source of the RND instruction.
	Seed uint64
}

// DefaultConfig returns the default machine options.
func DefaultConfig() Config {
	return Config{
		ProgramCeiling: DefaultProgramCeiling,
	}
}

// Machine is a CHIP-8 virtual machine.
type Machine struct {
	cfg Config

	memory [MemorySize]byte
	v      [RegisterCount]byte
	i      uint16
	pc     uint16
	sp     uint8
	stack  [StackDepth]uint16

	delayTimer byte
	soundTimer byte

	framebuffer Framebuffer
	keypad      [KeyCount]bool

	rng    *rand.Rand
	halted *ExecutionError
}

// New returns a new machine in its power-on state.
func New(cfg Config) *Machine {
	if cfg.ProgramCeiling == 0 {
		cfg.ProgramCeiling = DefaultProgramCeiling
	}
	if cfg.ProgramCeiling > MemorySize {
		cfg.ProgramCeiling = MemorySize
	}

	m := &Machine{
		cfg: cfg,
	}
	m.Reset()
	return m
}

// Reset returns the machine to its power-on state. Memory, registers,
// timers, stack, framebuffer and keypad are cleared, the font set is written
// and the program counter points to ProgramStart.
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontAddress:], font[:])

	m.v = [RegisterCount]byte{}
	m.i = 0
	m.pc = ProgramStart
	m.sp = 0
	m.stack = [StackDepth]uint16{}
	m.delayTimer = 0
	m.soundTimer = 0
	m.framebuffer.clear()
	m.keypad = [KeyCount]bool{}

	m.rng = rand.New(rand.NewPCG(m.cfg.Seed, m.cfg.Seed^0x9e3779b97f4a7c15))
	m.halted = nil
}

// ProgramCapacity returns the maximum program size in bytes.
func (m *Machine) ProgramCapacity() int {
	return int(m.cfg.ProgramCeiling) - ProgramStart
}

// LoadProgram resets the machine and copies the program to ProgramStart.
// A program that exceeds the program space is rejected with ErrRomTooLarge
// and leaves the machine unchanged.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > m.ProgramCapacity() {
		return fmt.Errorf("%w: %d bytes exceed the program space of %d bytes",
			ErrRomTooLarge, len(program), m.ProgramCapacity())
	}

	m.Reset()
	copy(m.memory[ProgramStart:], program)
	return nil
}

// Fetch returns the instruction word at the program counter without
// changing any state.
func (m *Machine) Fetch() (uint16, error) {
	if m.pc < ProgramStart || m.pc > MaxAddress-1 {
		return 0, ErrAddressOutOfRange
	}
	return uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1]), nil
}

// Step executes a single instruction cycle. After a failure the machine is
// halted and every call returns the same *ExecutionError.
func (m *Machine) Step() error {
	if m.halted != nil {
		return m.halted
	}

	pc := m.pc
	word, err := m.Fetch()
	if err != nil {
		return m.halt(err, pc, word)
	}

	if err := m.Execute(Decode(word)); err != nil {
		return m.halt(err, pc, word)
	}
	return nil
}

func (m *Machine) halt(err error, pc, word uint16) error {
	m.halted = &ExecutionError{
		Err:  err,
		PC:   pc,
		Word: word,
	}
	return m.halted
}

// Halted returns the error that halted the machine or nil if it is running.
func (m *Machine) Halted() error {
	if m.halted == nil {
		return nil
	}
	return m.halted
}

// Tick decrements the delay and sound timers by one, stopping at zero.
// It is expected to be called at 60 Hz.
func (m *Machine) Tick() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// SoundActive returns whether the sound timer is running and a tone should play.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// SetKey sets the state of a keypad key. Keys outside 0x0-0xF are ignored.
func (m *Machine) SetKey(key uint8, pressed bool) {
	if int(key) >= KeyCount {
		return
	}
	m.keypad[key] = pressed
}

// SetKeys replaces the state of all keypad keys.
func (m *Machine) SetKeys(keys [KeyCount]bool) {
	m.keypad = keys
}

// Keys returns the state of all keypad keys.
func (m *Machine) Keys() [KeyCount]bool {
	return m.keypad
}

// Framebuffer returns a copy of the display.
func (m *Machine) Framebuffer() Framebuffer {
	return m.framebuffer
}

// ReadMemory returns a copy of count bytes of memory starting at address.
func (m *Machine) ReadMemory(address uint16, count int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid byte count %d", count)
	}
	if err := checkRead(address, count); err != nil {
		return nil, err
	}
	data := make([]byte, count)
	copy(data, m.memory[address:])
	return data, nil
}
