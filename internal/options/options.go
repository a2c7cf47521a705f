// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
)

// Frontend names.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// DefaultHeadlessCycles is the instruction count of a headless run when no limit was given.
const DefaultHeadlessCycles = 10000

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Batch  string `flag:"batch" usage:"run all files matching pattern headless (e.g. *.ch8)"`
	Wav    string `flag:"wav" usage:"record the tone to a WAV file"`
	Keymap string `flag:"keymap" usage:"keymap config file (default: user config dir)"`
	Verify string `flag:"verify" usage:"expected SHA-256 digest or text dump of the framebuffer after a headless run"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend              string `flag:"frontend" usage:"frontend: window, terminal, headless (default: auto-detect)"`
	InstructionsPerSecond int    `flag:"ips" usage:"instructions executed per second" default:"700"`
	Scale                 int    `flag:"scale" usage:"window scale factor" default:"10"`
	Cycles                uint64 `flag:"cycles" usage:"maximum instructions to execute, 0 for unlimited"`
	Seed                  uint64 `flag:"seed" usage:"random number generator seed, 0 for time based"`
	Ceiling               uint   `flag:"ceiling" usage:"end of the program space" default:"4096"`
	Trace                 bool   `flag:"trace" usage:"log every executed instruction"`
	Statsview             bool   `flag:"statsview" usage:"serve runtime statistics"`
	Debug                 bool   `flag:"debug" usage:"enable debug logging"`
	Quiet                 bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
}

// Emulator defines options to control the machine and its runner.
type Emulator struct {
	Machine chip8.Config
	Runner  runner.Config
}

// NewEmulator returns the emulator options derived from the program options.
func NewEmulator(opts Program) Emulator {
	return Emulator{
		Machine: chip8.Config{
			ProgramCeiling: uint16(min(opts.Ceiling, chip8.MemorySize)), //nolint:gosec // clamped to memory size
			Seed:           opts.Seed,
		},
		Runner: runner.Config{
			InstructionsPerSecond: opts.InstructionsPerSecond,
			MaxCycles:             opts.Cycles,
			Trace:                 opts.Trace,
		},
	}
}

// HeadlessCycles returns the instruction count of a headless run.
func (o Program) HeadlessCycles() uint64 {
	if o.Cycles == 0 {
		return DefaultHeadlessCycles
	}
	return o.Cycles
}
