package chip8

import "fmt"

// OpKind identifies a decoded operation.
type OpKind uint8

// Operation kinds, one per instruction encoding.
const (
	OpUndefined OpKind = iota
	OpCls              // 00E0
	OpRet              // 00EE
	OpJp               // 1nnn
	OpCall             // 2nnn
	OpSeImm            // 3xkk
	OpSneImm           // 4xkk
	OpSeReg            // 5xy0
	OpLdImm            // 6xkk
	OpAddImm           // 7xkk
	OpLdReg            // 8xy0
	OpOr               // 8xy1
	OpAnd              // 8xy2
	OpXor              // 8xy3
	OpAddReg           // 8xy4
	OpSub              // 8xy5
	OpShr              // 8xy6
	OpSubn             // 8xy7
	OpShl              // 8xyE
	OpSneReg           // 9xy0
	OpLdI              // Annn
	OpJpV0             // Bnnn
	OpRnd              // Cxkk
	OpDrw              // Dxyn
	OpSkp              // Ex9E
	OpSknp             // ExA1
	OpLdVxDT           // Fx07
	OpLdVxK            // Fx0A
	OpLdDTVx           // Fx15
	OpLdSTVx           // Fx18
	OpAddIVx           // Fx1E
	OpLdFVx            // Fx29
	OpLdBVx            // Fx33
	OpLdIVx            // Fx55
	OpLdVxI            // Fx65

	opKindCount
)

var opKindNames = [opKindCount]string{
	OpUndefined: "undefined",
	OpCls:       "CLS",
	OpRet:       "RET",
	OpJp:        "JP addr",
	OpCall:      "CALL addr",
	OpSeImm:     "SE Vx, byte",
	OpSneImm:    "SNE Vx, byte",
	OpSeReg:     "SE Vx, Vy",
	OpLdImm:     "LD Vx, byte",
	OpAddImm:    "ADD Vx, byte",
	OpLdReg:     "LD Vx, Vy",
	OpOr:        "OR Vx, Vy",
	OpAnd:       "AND Vx, Vy",
	OpXor:       "XOR Vx, Vy",
	OpAddReg:    "ADD Vx, Vy",
	OpSub:       "SUB Vx, Vy",
	OpShr:       "SHR Vx",
	OpSubn:      "SUBN Vx, Vy",
	OpShl:       "SHL Vx",
	OpSneReg:    "SNE Vx, Vy",
	OpLdI:       "LD I, addr",
	OpJpV0:      "JP V0, addr",
	OpRnd:       "RND Vx, byte",
	OpDrw:       "DRW Vx, Vy, nibble",
	OpSkp:       "SKP Vx",
	OpSknp:      "SKNP Vx",
	OpLdVxDT:    "LD Vx, DT",
	OpLdVxK:     "LD Vx, K",
	OpLdDTVx:    "LD DT, Vx",
	OpLdSTVx:    "LD ST, Vx",
	OpAddIVx:    "ADD I, Vx",
	OpLdFVx:     "LD F, Vx",
	OpLdBVx:     "LD B, Vx",
	OpLdIVx:     "LD [I], Vx",
	OpLdVxI:     "LD Vx, [I]",
}

func (k OpKind) String() string {
	if k >= opKindCount {
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
	return opKindNames[k]
}

// Operation is a decoded instruction word.
// All operand fields are extracted for every word, the Kind determines which
// of them are meaningful.
type Operation struct {
	Kind OpKind
	Word uint16 // raw instruction word
	X    uint8  // register index from bits 8-11
	Y    uint8  // register index from bits 4-7
	KK   uint8  // immediate byte from bits 0-7
	NNN  uint16 // address from bits 0-11
	N    uint8  // nibble from bits 0-3
}

// Decode maps an instruction word to its operation. Words that do not encode
// a supported instruction, including the SYS call 0nnn, decode to OpUndefined.
func Decode(word uint16) Operation {
	op := Operation{
		Word: word,
		X:    uint8((word >> 8) & 0xF),
		Y:    uint8((word >> 4) & 0xF),
		KK:   uint8(word),
		NNN:  word & 0x0FFF,
		N:    uint8(word & 0xF),
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			op.Kind = OpCls
		case 0x00EE:
			op.Kind = OpRet
		}
	case 0x1:
		op.Kind = OpJp
	case 0x2:
		op.Kind = OpCall
	case 0x3:
		op.Kind = OpSeImm
	case 0x4:
		op.Kind = OpSneImm
	case 0x5:
		if op.N == 0 {
			op.Kind = OpSeReg
		}
	case 0x6:
		op.Kind = OpLdImm
	case 0x7:
		op.Kind = OpAddImm
	case 0x8:
		op.Kind = decodeALU(op.N)
	case 0x9:
		if op.N == 0 {
			op.Kind = OpSneReg
		}
	case 0xA:
		op.Kind = OpLdI
	case 0xB:
		op.Kind = OpJpV0
	case 0xC:
		op.Kind = OpRnd
	case 0xD:
		op.Kind = OpDrw
	case 0xE:
		switch op.KK {
		case 0x9E:
			op.Kind = OpSkp
		case 0xA1:
			op.Kind = OpSknp
		}
	case 0xF:
		op.Kind = decodeMisc(op.KK)
	}

	return op
}

// decodeALU returns the kind of an 8xyn instruction.
func decodeALU(n uint8) OpKind {
	switch n {
	case 0x0:
		return OpLdReg
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAddReg
	case 0x5:
		return OpSub
	case 0x6:
		return OpShr
	case 0x7:
		return OpSubn
	case 0xE:
		return OpShl
	default:
		return OpUndefined
	}
}

// decodeMisc returns the kind of an Fxkk instruction.
func decodeMisc(kk uint8) OpKind {
	switch kk {
	case 0x07:
		return OpLdVxDT
	case 0x0A:
		return OpLdVxK
	case 0x15:
		return OpLdDTVx
	case 0x18:
		return OpLdSTVx
	case 0x1E:
		return OpAddIVx
	case 0x29:
		return OpLdFVx
	case 0x33:
		return OpLdBVx
	case 0x55:
		return OpLdIVx
	case 0x65:
		return OpLdVxI
	default:
		return OpUndefined
	}
}
