package chip8

// Execute applies a decoded operation to the machine and advances the
// program counter. Memory and stack accesses are validated before any state
// is modified, a failing operation leaves the machine unchanged.
//
// Instructions that write VF read both operands first and write the flag
// last, so VF as destination register ends up holding the flag.
//
//nolint:funlen,cyclop,gocyclo // one case per instruction
func (m *Machine) Execute(op Operation) error {
	if op.X >= RegisterCount || op.Y >= RegisterCount {
		return ErrUnknownOpcode
	}

	next := m.pc + InstructionSize

	switch op.Kind {
	case OpCls:
		m.framebuffer.clear()

	case OpRet:
		if m.sp == 0 {
			return ErrStackUnderflow
		}
		m.sp--
		next = m.stack[m.sp]

	case OpJp:
		next = op.NNN

	case OpCall:
		if int(m.sp) >= StackDepth {
			return ErrStackOverflow
		}
		m.stack[m.sp] = next
		m.sp++
		next = op.NNN

	case OpSeImm:
		if m.v[op.X] == op.KK {
			next += InstructionSize
		}

	case OpSneImm:
		if m.v[op.X] != op.KK {
			next += InstructionSize
		}

	case OpSeReg:
		if m.v[op.X] == m.v[op.Y] {
			next += InstructionSize
		}

	case OpSneReg:
		if m.v[op.X] != m.v[op.Y] {
			next += InstructionSize
		}

	case OpLdImm:
		m.v[op.X] = op.KK

	case OpAddImm:
		m.v[op.X] += op.KK

	case OpLdReg:
		m.v[op.X] = m.v[op.Y]

	case OpOr:
		m.v[op.X] |= m.v[op.Y]

	case OpAnd:
		m.v[op.X] &= m.v[op.Y]

	case OpXor:
		m.v[op.X] ^= m.v[op.Y]

	case OpAddReg, OpSub, OpSubn, OpShr, OpShl:
		m.executeALU(op)

	case OpLdI:
		m.i = op.NNN

	case OpJpV0:
		target := op.NNN + uint16(m.v[0])
		if target > MaxAddress {
			return ErrAddressOutOfRange
		}
		next = target

	case OpRnd:
		m.v[op.X] = byte(m.rng.UintN(256)) & op.KK

	case OpDrw:
		if err := checkRead(m.i, int(op.N)); err != nil {
			return err
		}
		sprite := m.memory[m.i : m.i+uint16(op.N)]
		collision := m.framebuffer.draw(m.v[op.X], m.v[op.Y], sprite)
		m.v[flagRegister] = boolToFlag(collision)

	case OpSkp:
		if m.keyPressed(m.v[op.X]) {
			next += InstructionSize
		}

	case OpSknp:
		if !m.keyPressed(m.v[op.X]) {
			next += InstructionSize
		}

	case OpLdVxDT:
		m.v[op.X] = m.delayTimer

	case OpLdVxK:
		key, ok := m.firstPressedKey()
		if !ok {
			next = m.pc // poll again on the next cycle
			break
		}
		m.v[op.X] = key

	case OpLdDTVx:
		m.delayTimer = m.v[op.X]

	case OpLdSTVx:
		m.soundTimer = m.v[op.X]

	case OpAddIVx:
		m.i = (m.i + uint16(m.v[op.X])) & MaxAddress

	case OpLdFVx:
		m.i = FontAddress + uint16(m.v[op.X]&0xF)*FontGlyphSize

	case OpLdBVx:
		if err := checkWrite(m.i, 3); err != nil {
			return err
		}
		vx := m.v[op.X]
		m.memory[m.i] = vx / 100
		m.memory[m.i+1] = (vx / 10) % 10
		m.memory[m.i+2] = vx % 10

	case OpLdIVx:
		count := int(op.X) + 1
		if err := checkWrite(m.i, count); err != nil {
			return err
		}
		copy(m.memory[m.i:], m.v[:count])

	case OpLdVxI:
		count := int(op.X) + 1
		if err := checkRead(m.i, count); err != nil {
			return err
		}
		copy(m.v[:count], m.memory[m.i:])

	default:
		return ErrUnknownOpcode
	}

	m.pc = next
	return nil
}

// executeALU handles the 8xyn instructions that set VF.
func (m *Machine) executeALU(op Operation) {
	vx, vy := m.v[op.X], m.v[op.Y]

	var result, flag byte
	switch op.Kind {
	case OpAddReg:
		sum := uint16(vx) + uint16(vy)
		result = byte(sum)
		flag = boolToFlag(sum > 0xFF)
	case OpSub:
		result = vx - vy
		flag = boolToFlag(vx >= vy)
	case OpSubn:
		result = vy - vx
		flag = boolToFlag(vy >= vx)
	case OpShr:
		result = vx >> 1
		flag = vx & 0x01
	case OpShl:
		result = vx << 1
		flag = vx >> 7
	}

	m.v[op.X] = result
	m.v[flagRegister] = flag
}

// keyPressed returns whether the key with the given index is held down.
// Values above 0xF do not name a key and are never pressed.
func (m *Machine) keyPressed(key byte) bool {
	return int(key) < KeyCount && m.keypad[key]
}

// firstPressedKey returns the lowest pressed key.
func (m *Machine) firstPressedKey() (byte, bool) {
	for key, pressed := range m.keypad {
		if pressed {
			return byte(key), true
		}
	}
	return 0, false
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
