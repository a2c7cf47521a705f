// Package verification verifies the display output of a program run against
// a reference, either the SHA-256 digest of the framebuffer or a text dump
// of the expected framebuffer.
package verification

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Characters of a framebuffer text dump.
const (
	PixelLit   = '#'
	PixelUnlit = '.'
)

// maxReportedMismatches limits the logged pixel mismatches of a comparison.
const maxReportedMismatches = 10

var errMismatch = errors.New("framebuffer mismatch")

// Digest returns the hex encoded SHA-256 digest of the framebuffer, hashed
// as one byte per pixel in row major order.
func Digest(fb chip8.Framebuffer) string {
	var pixels [chip8.ScreenWidth * chip8.ScreenHeight]byte
	for i, lit := range fb {
		if lit {
			pixels[i] = 1
		}
	}
	sum := sha256.Sum256(pixels[:])
	return hex.EncodeToString(sum[:])
}

// IsDigest returns whether the reference is a SHA-256 digest instead of a dump file name.
func IsDigest(reference string) bool {
	b, err := hex.DecodeString(reference)
	return err == nil && len(b) == sha256.Size
}

// Render returns the text dump of the framebuffer, one line per row.
func Render(fb chip8.Framebuffer) string {
	var sb strings.Builder
	sb.Grow((chip8.ScreenWidth + 1) * chip8.ScreenHeight)

	for y := range chip8.ScreenHeight {
		for x := range chip8.ScreenWidth {
			if fb.Pixel(x, y) {
				sb.WriteByte(PixelLit)
			} else {
				sb.WriteByte(PixelUnlit)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseDump parses a text dump as written by Render.
func ParseDump(data []byte) (chip8.Framebuffer, error) {
	var fb chip8.Framebuffer

	lines := bytes.Split(bytes.TrimRight(data, "\r\n"), []byte{'\n'})
	if len(lines) != chip8.ScreenHeight {
		return fb, fmt.Errorf("mismatched row count, %d != %d", len(lines), chip8.ScreenHeight)
	}

	for y, line := range lines {
		line = bytes.TrimRight(line, "\r")
		if len(line) != chip8.ScreenWidth {
			return fb, fmt.Errorf("row %d has %d columns instead of %d", y, len(line), chip8.ScreenWidth)
		}

		for x, c := range line {
			switch c {
			case PixelLit:
				fb[y*chip8.ScreenWidth+x] = true
			case PixelUnlit:
			default:
				return fb, fmt.Errorf("invalid character '%c' in row %d column %d", c, y, x)
			}
		}
	}
	return fb, nil
}

// Verify checks the framebuffer against the reference, which is either a
// SHA-256 digest or the name of a text dump file.
func Verify(logger *log.Logger, reference string, fb chip8.Framebuffer) error {
	if IsDigest(reference) {
		got := Digest(fb)
		if !strings.EqualFold(reference, got) {
			return fmt.Errorf("%w: expected digest %s but got %s", errMismatch, strings.ToLower(reference), got)
		}
		return nil
	}

	data, err := os.ReadFile(reference)
	if err != nil {
		return fmt.Errorf("reading reference file: %w", err)
	}
	expected, err := ParseDump(data)
	if err != nil {
		return fmt.Errorf("parsing reference file '%s': %w", reference, err)
	}
	return checkFramebufferEqual(logger, expected, fb)
}

// IsMismatch returns whether the verification error was caused by different
// display output rather than an unusable reference.
func IsMismatch(err error) bool {
	return errors.Is(err, errMismatch)
}

func checkFramebufferEqual(logger *log.Logger, expected, got chip8.Framebuffer) error {
	var diffs uint64
	for i := range expected {
		if expected[i] == got[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Pixel mismatch",
				log.Int("x", i%chip8.ScreenWidth),
				log.Int("y", i/chip8.ScreenWidth),
				log.String("expected", pixelState(expected[i])),
				log.String("got", pixelState(got[i])))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d pixel mismatches", errMismatch, diffs)
}

func pixelState(lit bool) string {
	if lit {
		return "lit"
	}
	return "unlit"
}

// Report writes a colored pass or fail line for a verified program.
func Report(w io.Writer, name string, err error) {
	if err == nil {
		pass := color.New(color.FgGreen, color.Bold).SprintFunc()
		_, _ = fmt.Fprintf(w, "%s %s\n", pass("passed"), name)
		return
	}

	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	_, _ = fmt.Fprintf(w, "%s %s: %s\n", fail("failed"), name, err)
}
