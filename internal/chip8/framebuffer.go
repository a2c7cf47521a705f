package chip8

// Display dimensions in pixels.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Framebuffer is the monochrome display, stored row by row at index y*ScreenWidth+x.
type Framebuffer [ScreenWidth * ScreenHeight]bool

// Pixel returns whether the pixel at the given coordinates is lit.
// Coordinates outside of the display wrap around.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f[wrap(y, ScreenHeight)*ScreenWidth+wrap(x, ScreenWidth)]
}

// Lit returns the number of lit pixels.
func (f *Framebuffer) Lit() int {
	var n int
	for _, on := range f {
		if on {
			n++
		}
	}
	return n
}

// clear turns all pixels off.
func (f *Framebuffer) clear() {
	*f = Framebuffer{}
}

// draw XORs the sprite rows onto the display starting at x, y. Pixels that
// cross an edge wrap around to the opposite side. It returns whether any lit
// pixel was turned off.
func (f *Framebuffer) draw(x, y uint8, sprite []byte) bool {
	var collision bool
	for row, bits := range sprite {
		py := (int(y) + row) % ScreenHeight
		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % ScreenWidth
			idx := py*ScreenWidth + px
			if f[idx] {
				collision = true
			}
			f[idx] = !f[idx]
		}
	}
	return collision
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
