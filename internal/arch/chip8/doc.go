// Package chip8 maps CHIP-8 instruction words to the instruction definitions
// of the retrogolib CHIP-8 CPU package.
//
// The interpreter core decodes and executes instructions on its own. This
// package provides the human readable side used by the host: mnemonic
// rendering of a single instruction word for trace logs and fatal error
// reports, and a classification of instructions (jumps, calls, returns,
// conditional skips, memory accesses) used for execution statistics.
//
// # Mnemonics
//
// Instructions are rendered in lower case with hexadecimal operands:
//
//	0x00E0 -> cls
//	0x1234 -> jp $234
//	0xB234 -> jp V0, $234
//	0x6A12 -> ld VA, $12
//	0xD235 -> drw V2, V3, $5
//	0xF133 -> ld B, V1
//
// Words that do not match any instruction are rendered as "unknown $XXXX".
//
// # Usage Example
//
//	op, ok := chip8.Lookup(word)
//	if ok && op.Instruction().IsCall() {
//		calls++
//	}
//	logger.Debug("Executing", log.String("instruction", chip8.Format(word)))
package chip8
