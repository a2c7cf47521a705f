package terminal

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// halfBlocks is indexed by the lit state of the upper pixel (bit 1) and the
// lower pixel (bit 0) of a cell.
var halfBlocks = [4]rune{' ', '▄', '▀', '█'}

// renderHalfBlocks renders the framebuffer with one character per two
// vertically adjacent pixels.
func renderHalfBlocks(fb *chip8.Framebuffer) string {
	var sb strings.Builder
	for y := 0; y < chip8.ScreenHeight; y += 2 {
		for x := range chip8.ScreenWidth {
			index := 0
			if fb.Pixel(x, y) {
				index |= 2
			}
			if fb.Pixel(x, y+1) {
				index |= 1
			}
			sb.WriteRune(halfBlocks[index])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
