package window

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/config"
)

// hostKeys maps the characters usable in a keymap to keyboard keys.
var hostKeys = map[rune]ebiten.Key{
	'0': ebiten.KeyDigit0, '1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3,
	'4': ebiten.KeyDigit4, '5': ebiten.KeyDigit5, '6': ebiten.KeyDigit6, '7': ebiten.KeyDigit7,
	'8': ebiten.KeyDigit8, '9': ebiten.KeyDigit9,
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD, 'e': ebiten.KeyE,
	'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH, 'i': ebiten.KeyI, 'j': ebiten.KeyJ,
	'k': ebiten.KeyK, 'l': ebiten.KeyL, 'm': ebiten.KeyM, 'n': ebiten.KeyN, 'o': ebiten.KeyO,
	'p': ebiten.KeyP, 'q': ebiten.KeyQ, 'r': ebiten.KeyR, 's': ebiten.KeyS, 't': ebiten.KeyT,
	'u': ebiten.KeyU, 'v': ebiten.KeyV, 'w': ebiten.KeyW, 'x': ebiten.KeyX, 'y': ebiten.KeyY,
	'z': ebiten.KeyZ,
}

// keyBinding binds a keyboard key to a CHIP-8 key.
type keyBinding struct {
	key   ebiten.Key
	chip8 uint8
}

// bindKeys resolves the keymap to keyboard keys.
func bindKeys(keymap config.Keymap) ([]keyBinding, error) {
	bindings, err := keymap.Bindings()
	if err != nil {
		return nil, fmt.Errorf("resolving keymap: %w", err)
	}

	result := make([]keyBinding, 0, len(bindings))
	for r, chip8Key := range bindings {
		key, ok := hostKeys[r]
		if !ok {
			return nil, fmt.Errorf("key '%c' is not supported by the window frontend", r)
		}
		result = append(result, keyBinding{key: key, chip8: chip8Key})
	}
	return result, nil
}
