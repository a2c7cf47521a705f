// Package chip8 implements the CHIP-8 virtual machine core.
//
// # Machine Model
//
// A Machine owns the complete hardware model of the platform:
//   - 4KB of memory (0x000-MaxAddress), with the hexadecimal font glyphs at
//     FontAddress and programs loaded at ProgramStart
//   - 16 general-purpose 8-bit registers V0-VF, VF doubling as the carry,
//     borrow and collision flag
//   - the 16-bit index register I, the program counter and a 16 entry call stack
//   - delay and sound timers, decremented by Tick at 60 Hz
//   - a 64x32 monochrome Framebuffer and the 16 key Keypad state
//
// # Instruction Cycle
//
// Step fetches the big-endian word at the program counter, decodes it with the
// pure Decode function and applies the resulting Operation with Execute.
// Every instruction validates its memory and stack accesses before changing
// any state, so a failing instruction leaves the machine exactly as it was.
// Failures are fatal: the machine halts and every further Step returns the
// same *ExecutionError.
//
// The wait-for-key instruction (Fx0A) does not block. It leaves the program
// counter unchanged until a key is pressed, so the host simply keeps calling
// Step.
//
// # Concurrency
//
// The package starts no goroutines and a Machine is not safe for concurrent
// use. Hosts that render or read input on other goroutines must serialize
// access and sample state only between completed steps.
//
// # Usage Example
//
//	m := chip8.New(chip8.DefaultConfig())
//	if err := m.LoadProgram(rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//
//	for {
//		if err := m.Step(); err != nil {
//			return err
//		}
//	}
package chip8
