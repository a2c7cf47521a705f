package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrRomTooLarge is returned when a program does not fit into the usable program space.
	ErrRomTooLarge = errors.New("rom too large")
	// ErrUnknownOpcode is returned when an instruction word does not decode to a known operation.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrAddressOutOfRange is returned for memory accesses outside of the valid address space
	// and for writes into the reserved interpreter area.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// ExecutionError is a fatal error that halted the machine.
// It wraps one of the sentinel errors of this package.
type ExecutionError struct {
	Err  error  // sentinel error describing the kind of failure
	PC   uint16 // program counter of the failing instruction
	Word uint16 // raw instruction word, 0 if it could not be fetched
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s at $%03X (opcode $%04X)", e.Err, e.PC, e.Word)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
