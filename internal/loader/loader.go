// Package loader handles program file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// ErrEmptyProgram is returned for program files without content.
var ErrEmptyProgram = errors.New("empty program")

// Loader handles loading CHIP-8 program files from disk.
type Loader struct {
	capacity int
}

// New creates a new program loader that accepts programs of up to capacity bytes,
// usually the program space of the machine that runs them.
func New(capacity int) *Loader {
	return &Loader{
		capacity: capacity,
	}
}

// Load reads a raw CHIP-8 program file. Oversized files are rejected with
// chip8.ErrRomTooLarge before their content is read completely.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("getting file info of %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory", path)
	}

	data, err := io.ReadAll(io.LimitReader(file, int64(l.capacity)+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	return l.validate(data)
}

// LoadFromBytes validates program data that is already in memory.
func (l *Loader) LoadFromBytes(data []byte) ([]byte, error) {
	return l.validate(data)
}

func (l *Loader) validate(data []byte) ([]byte, error) {
	switch {
	case len(data) == 0:
		return nil, ErrEmptyProgram
	case len(data) > l.capacity:
		return nil, fmt.Errorf("%w: program exceeds the program space of %d bytes",
			chip8.ErrRomTooLarge, l.capacity)
	}
	return data, nil
}
