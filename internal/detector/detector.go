// Package detector handles frontend detection.
package detector

import (
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector selects the frontend that fits the environment the emulator runs in.
type Detector struct {
	logger *log.Logger

	getenv     func(string) string
	goos       string
	isTerminal func() bool
}

// New creates a new frontend detector for the current process environment.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
		getenv: os.Getenv,
		goos:   runtime.GOOS,
		isTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// Detect determines the frontend from options or the environment.
// It first checks if a frontend is explicitly specified in options, otherwise
// it picks the window frontend if a display is available, the terminal
// frontend if the output is a terminal and falls back to headless.
func (d *Detector) Detect(opts options.Program) string {
	if opts.Frontend != "" {
		return opts.Frontend
	}

	frontend := d.detectFromEnvironment()
	d.logger.Debug("Auto-detected frontend",
		log.String("frontend", frontend),
		log.String("os", d.goos))
	return frontend
}

// detectFromEnvironment determines the frontend based on display and terminal availability.
func (d *Detector) detectFromEnvironment() string {
	switch {
	case d.hasDisplay():
		return options.FrontendWindow
	case d.isTerminal():
		return options.FrontendTerminal
	default:
		return options.FrontendHeadless
	}
}

// hasDisplay returns whether a graphical display is available. Only X11 and
// Wayland based systems can run without one.
func (d *Detector) hasDisplay() bool {
	switch d.goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return d.getenv("DISPLAY") != "" || d.getenv("WAYLAND_DISPLAY") != ""
	default:
		return true
	}
}
