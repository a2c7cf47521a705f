package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		kind OpKind
	}{
		{0x00E0, OpCls},
		{0x00EE, OpRet},
		{0x0000, OpUndefined},
		{0x0123, OpUndefined},
		{0x00E1, OpUndefined},
		{0x1234, OpJp},
		{0x2345, OpCall},
		{0x3A12, OpSeImm},
		{0x4B34, OpSneImm},
		{0x5120, OpSeReg},
		{0x5121, OpUndefined},
		{0x6FFF, OpLdImm},
		{0x7001, OpAddImm},
		{0x8120, OpLdReg},
		{0x8121, OpOr},
		{0x8122, OpAnd},
		{0x8123, OpXor},
		{0x8124, OpAddReg},
		{0x8125, OpSub},
		{0x8126, OpShr},
		{0x8127, OpSubn},
		{0x8128, OpUndefined},
		{0x812D, OpUndefined},
		{0x812E, OpShl},
		{0x812F, OpUndefined},
		{0x9120, OpSneReg},
		{0x912F, OpUndefined},
		{0xA234, OpLdI},
		{0xB234, OpJpV0},
		{0xC1FF, OpRnd},
		{0xD125, OpDrw},
		{0xD120, OpDrw},
		{0xE19E, OpSkp},
		{0xE1A1, OpSknp},
		{0xE000, OpUndefined},
		{0xF107, OpLdVxDT},
		{0xF10A, OpLdVxK},
		{0xF115, OpLdDTVx},
		{0xF118, OpLdSTVx},
		{0xF11E, OpAddIVx},
		{0xF129, OpLdFVx},
		{0xF133, OpLdBVx},
		{0xF155, OpLdIVx},
		{0xF165, OpLdVxI},
		{0xF0FF, OpUndefined},
		{0xFFFF, OpUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			op := Decode(tt.word)
			assert.Equal(t, tt.kind, op.Kind)
			assert.Equal(t, tt.word, op.Word)
		})
	}
}

func TestDecode_Operands(t *testing.T) {
	op := Decode(0xD7A5)
	assert.Equal(t, OpDrw, op.Kind)
	assert.Equal(t, uint8(0x7), op.X)
	assert.Equal(t, uint8(0xA), op.Y)
	assert.Equal(t, uint8(0x5), op.N)
	assert.Equal(t, uint8(0xA5), op.KK)
	assert.Equal(t, uint16(0x7A5), op.NNN)

	op = Decode(0x1FFF)
	assert.Equal(t, OpJp, op.Kind)
	assert.Equal(t, uint16(0xFFF), op.NNN)
}

func TestDecode_Total(t *testing.T) {
	counts := make(map[OpKind]int)
	for word := range 0x10000 {
		op := Decode(uint16(word))
		assert.True(t, op.Kind < opKindCount)
		counts[op.Kind]++
	}

	// every operation kind is reachable
	assert.Equal(t, int(opKindCount), len(counts))
	assert.Equal(t, 4096, counts[OpJp])
	assert.Equal(t, 1, counts[OpCls])
	assert.Equal(t, 1, counts[OpRet])
	assert.Equal(t, 16, counts[OpSkp])
}

func TestOpKind_String(t *testing.T) {
	assert.Equal(t, "CLS", OpCls.String())
	assert.Equal(t, "LD Vx, [I]", OpLdVxI.String())
	assert.Equal(t, "undefined", OpUndefined.String())
	assert.Equal(t, "OpKind(200)", OpKind(200).String())
}
