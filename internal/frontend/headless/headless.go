// Package headless runs a program without user interaction for a fixed number
// of instructions and prints the resulting display.
package headless

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Headless executes a program on the virtual clock.
type Headless struct {
	logger *log.Logger
	output io.Writer
	cycles uint64
}

// New returns a headless frontend that executes cycles instructions and
// writes the framebuffer to output. A nil output disables the printout.
func New(logger *log.Logger, output io.Writer, cycles uint64) *Headless {
	return &Headless{
		logger: logger,
		output: output,
		cycles: cycles,
	}
}

// Factory creates a headless frontend from the frontend settings.
func Factory(logger *log.Logger, settings frontend.Settings) (frontend.Frontend, error) {
	return New(logger, settings.Output, settings.Cycles), nil
}

// Run executes the instructions and prints the display, also after a fatal
// error to show the state the program failed in.
func (h *Headless) Run(ctx context.Context, r *runner.Runner) error {
	h.logger.Debug("Running headless", log.Int("cycles", int(h.cycles))) //nolint:gosec // informational

	err := r.RunCycles(ctx, h.cycles)

	if h.output != nil {
		h.print(r)
	}
	return err
}

func (h *Headless) print(r *runner.Runner) {
	fb := r.Framebuffer()
	stats := r.Stats()
	label := color.New(color.FgCyan).SprintFunc()

	_, _ = fmt.Fprint(h.output, verification.Render(fb))
	_, _ = fmt.Fprintf(h.output, "%s %d\n", label("instructions:"), stats.Instructions)
	_, _ = fmt.Fprintf(h.output, "%s %s\n", label("state:"), r.State())
	_, _ = fmt.Fprintf(h.output, "%s %s\n", label("sha256:"), verification.Digest(fb))
}
