package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup identifies the instruction encoded by the word.
// It returns false if the word does not match any known opcode.
func Lookup(word uint16) (Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	opcodes := chip8.Opcodes[int(firstNibble)]

	var opcode chip8.Opcode
	for _, op := range opcodes {
		if op.Info.Mask&word == op.Info.Value {
			opcode = op
			break
		}
	}
	if opcode.Instruction == nil {
		return Opcode{}, false
	}

	return Opcode{
		op:   opcode,
		word: word,
	}, true
}
