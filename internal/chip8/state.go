package chip8

import (
	"fmt"
	"strings"
)

// State is a snapshot of the register file.
type State struct {
	V          [RegisterCount]byte
	I          uint16
	PC         uint16
	SP         uint8
	Stack      [StackDepth]uint16
	DelayTimer byte
	SoundTimer byte
}

// State returns a snapshot of the register file.
func (m *Machine) State() State {
	return State{
		V:          m.v,
		I:          m.i,
		PC:         m.pc,
		SP:         m.sp,
		Stack:      m.stack,
		DelayTimer: m.delayTimer,
		SoundTimer: m.soundTimer,
	}
}

func (s State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC=$%03X I=$%03X SP=%d DT=%d ST=%d", s.PC, s.I, s.SP, s.DelayTimer, s.SoundTimer)
	for i, v := range s.V {
		fmt.Fprintf(&b, " V%X=$%02X", i, v)
	}
	return b.String()
}
