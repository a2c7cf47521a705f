package chip8

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: Hexadecimal font glyphs (80 bytes)
//	0x050-0x1FF: Reserved interpreter area
//	0x200-0xFFF: Program space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// MaxAddress is the highest valid memory address.
	MaxAddress = 0xFFF

	// ProgramStart is the address programs are loaded at and execution starts from.
	ProgramStart = 0x200

	// DefaultProgramCeiling is the default exclusive end of the usable program space.
	DefaultProgramCeiling = 0x600

	// FontAddress is the address of the first font glyph.
	FontAddress = 0x000

	// FontGlyphSize is the size of a single font glyph in bytes.
	FontGlyphSize = 5

	// InstructionSize is the size of every instruction in bytes.
	InstructionSize = 2
)

// font contains the sprites for the hexadecimal digits 0-F, 4 pixels wide and 5 rows high.
var font = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// checkRead verifies that count bytes starting at address are inside memory.
func checkRead(address uint16, count int) error {
	if int(address)+count-1 > MaxAddress {
		return ErrAddressOutOfRange
	}
	return nil
}

// checkWrite verifies that count bytes starting at address are inside the
// writable program space.
func checkWrite(address uint16, count int) error {
	if address < ProgramStart {
		return ErrAddressOutOfRange
	}
	return checkRead(address, count)
}
