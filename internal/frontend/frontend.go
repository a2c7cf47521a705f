// Package frontend defines the interface between a running machine and the
// user facing presentation of its display, keypad and tone.
package frontend

import (
	"context"
	"io"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Frontend presents a running machine. Run drives the runner and returns
// when the program ended, the user quit or the context was cancelled.
type Frontend interface {
	Run(ctx context.Context, r *runner.Runner) error
}

// Settings contains the options that frontends are created with.
type Settings struct {
	Keymap config.Keymap // keyboard bindings of interactive frontends
	Scale  int           // window scale factor
	Cycles uint64        // instruction count of non interactive runs
	Output io.Writer     // output of non interactive runs
}

// Factory creates a frontend.
type Factory func(logger *log.Logger, settings Settings) (Frontend, error)
