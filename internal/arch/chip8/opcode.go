package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Opcode is an instruction word matched against the retrogolib opcode table.
type Opcode struct {
	op   chip8.Opcode
	word uint16
}

// Instruction returns the instruction associated with this opcode.
func (o Opcode) Instruction() Instruction {
	return Instruction{ins: o.op.Instruction}
}

// ReadsMemory returns true if this instruction reads from main memory.
// The ld mnemonic covers several encodings, only LD Vx, [I] reads memory.
func (o Opcode) ReadsMemory() bool {
	if o.op.Instruction == nil || !chip8.MemoryReadInstructions.Contains(o.op.Instruction.Name) {
		return false
	}
	if o.op.Instruction == chip8.LdInst {
		return o.word&0xF0FF == 0xF065
	}
	return true
}

// WritesMemory returns true if this instruction writes to main memory.
// Only the ld encodings LD B, Vx and LD [I], Vx write memory.
func (o Opcode) WritesMemory() bool {
	if o.op.Instruction == nil || !chip8.MemoryWriteInstructions.Contains(o.op.Instruction.Name) {
		return false
	}
	if o.op.Instruction == chip8.LdInst {
		lowByte := o.word & 0xF0FF
		return lowByte == 0xF033 || lowByte == 0xF055
	}
	return true
}
