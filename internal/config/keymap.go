package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// KeymapVersion is the version of the keymap file format. Files of another
// version are ignored and the default keymap is used.
const KeymapVersion = 1

const (
	configDirName  = "retrochip8"
	configFileName = "config.json"
)

// Keymap maps the 16 CHIP-8 keys, named by their hex digit, to host keyboard keys.
type Keymap struct {
	Version int               `json:"version"`
	Keys    map[string]string `json:"keys"`
}

// DefaultKeymap returns the keymap that lays out the COSMAC VIP keypad
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// on the left block of a QWERTY keyboard.
func DefaultKeymap() Keymap {
	return Keymap{
		Version: KeymapVersion,
		Keys: map[string]string{
			"1": "1", "2": "2", "3": "3", "c": "4",
			"4": "q", "5": "w", "6": "e", "d": "r",
			"7": "a", "8": "s", "9": "d", "e": "f",
			"a": "z", "0": "x", "b": "c", "f": "v",
		},
	}
}

// Bindings returns the CHIP-8 key for every bound host key. Host keys are
// single characters and matched case insensitive.
func (k Keymap) Bindings() (map[rune]uint8, error) {
	bindings := make(map[rune]uint8, len(k.Keys))
	for chip8Key, hostKey := range k.Keys {
		key, err := strconv.ParseUint(chip8Key, 16, 8)
		if err != nil || key >= chip8.KeyCount {
			return nil, fmt.Errorf("invalid CHIP-8 key '%s'", chip8Key)
		}

		hostKey = strings.ToLower(hostKey)
		if utf8.RuneCountInString(hostKey) != 1 {
			return nil, fmt.Errorf("host key '%s' of CHIP-8 key %s is not a single character", hostKey, chip8Key)
		}
		r, _ := utf8.DecodeRuneInString(hostKey)
		if other, ok := bindings[r]; ok {
			return nil, fmt.Errorf("host key '%s' is bound to CHIP-8 keys %X and %X", hostKey, other, key)
		}
		bindings[r] = uint8(key)
	}
	return bindings, nil
}

// KeymapPath returns the path of the keymap file in the user config directory.
func KeymapPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(configDir, configDirName, configFileName), nil
}

// LoadKeymap reads the keymap from the given file, or from the user config
// directory if path is empty. A missing file or a file of another version
// results in the default keymap.
func LoadKeymap(path string) (Keymap, error) {
	if path == "" {
		var err error
		if path, err = KeymapPath(); err != nil {
			return DefaultKeymap(), err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultKeymap(), nil
		}
		return DefaultKeymap(), fmt.Errorf("reading keymap file: %w", err)
	}

	var keymap Keymap
	if err := json.Unmarshal(data, &keymap); err != nil {
		return DefaultKeymap(), fmt.Errorf("decoding keymap file '%s': %w", path, err)
	}
	if keymap.Version != KeymapVersion {
		return DefaultKeymap(), nil
	}
	if _, err := keymap.Bindings(); err != nil {
		return DefaultKeymap(), fmt.Errorf("validating keymap file '%s': %w", path, err)
	}
	return keymap, nil
}

// LoadOrCreateKeymap behaves like LoadKeymap but writes the default keymap to
// the file if it does not exist yet, so that it can be edited.
func LoadOrCreateKeymap(path string) (Keymap, error) {
	if path == "" {
		var err error
		if path, err = KeymapPath(); err != nil {
			return DefaultKeymap(), err
		}
	}

	_, err := os.Stat(path)
	if !errors.Is(err, os.ErrNotExist) {
		return LoadKeymap(path)
	}

	keymap := DefaultKeymap()
	if err := SaveKeymap(path, keymap); err != nil {
		return keymap, err
	}
	return keymap, nil
}

// SaveKeymap writes the keymap to the given file, or to the user config
// directory if path is empty, creating missing directories.
func SaveKeymap(path string, keymap Keymap) error {
	if path == "" {
		var err error
		if path, err = KeymapPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(keymap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding keymap: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}
	return nil
}
