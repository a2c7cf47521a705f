// Package terminal presents a running program in a text terminal. Two rows
// of pixels share one character cell using half block characters.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

const (
	screenView = "screen"
	statusView = "status"

	refreshInterval = time.Second / 30

	// keyLatch is how long a key counts as pressed after a key event.
	// Terminals report no key releases, only repeated presses.
	keyLatch = 100 * time.Millisecond
)

// Terminal is a gocui based frontend.
type Terminal struct {
	logger   *log.Logger
	bindings map[rune]uint8
	bell     io.Writer
	latch    *latch
}

// New returns a terminal frontend.
func New(logger *log.Logger, settings frontend.Settings) (*Terminal, error) {
	bindings, err := settings.Keymap.Bindings()
	if err != nil {
		return nil, fmt.Errorf("resolving keymap: %w", err)
	}
	return &Terminal{
		logger:   logger,
		bindings: bindings,
		bell:     os.Stdout,
		latch:    newLatch(keyLatch),
	}, nil
}

// Factory creates a terminal frontend from the frontend settings.
func Factory(logger *log.Logger, settings frontend.Settings) (frontend.Frontend, error) {
	return New(logger, settings)
}

// Run takes over the terminal and executes the program until Ctrl-C or
// Escape is pressed or the program ends.
func (t *Terminal) Run(ctx context.Context, r *runner.Runner) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer g.Close()

	g.InputEsc = true
	g.SetManagerFunc(layout)
	if err := t.setKeybindings(g, r); err != nil {
		return err
	}
	r.AddAudioSink(t)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := r.Run(groupCtx)
		g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
		return err
	})
	group.Go(func() error {
		t.refresh(groupCtx, g, r)
		return nil
	})

	loopErr := g.MainLoop()
	cancel()

	runErr := group.Wait()
	if loopErr != nil && !errors.Is(loopErr, gocui.ErrQuit) {
		return fmt.Errorf("running terminal: %w", loopErr)
	}
	return runErr
}

// SetTone rings the terminal bell when the tone starts.
func (t *Terminal) SetTone(on bool) {
	if on {
		_, _ = fmt.Fprint(t.bell, "\a")
	}
}

func (t *Terminal) setKeybindings(g *gocui.Gui, r *runner.Runner) error {
	quit := func(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }
	for _, key := range []gocui.Key{gocui.KeyCtrlC, gocui.KeyEsc} {
		if err := g.SetKeybinding("", key, gocui.ModNone, quit); err != nil {
			return fmt.Errorf("setting quit keybinding: %w", err)
		}
	}

	for hostKey, chip8Key := range t.bindings {
		handler := func(*gocui.Gui, *gocui.View) error {
			t.latch.press(chip8Key, time.Now())
			r.SetKey(chip8Key, true)
			return nil
		}
		if err := g.SetKeybinding("", hostKey, gocui.ModNone, handler); err != nil {
			return fmt.Errorf("setting keybinding for '%c': %w", hostKey, err)
		}
	}
	return nil
}

// refresh periodically renders the display and releases expired keys.
func (t *Terminal) refresh(ctx context.Context, g *gocui.Gui, r *runner.Runner) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, key := range t.latch.expired(now) {
				r.SetKey(key, false)
			}

			fb := r.Framebuffer()
			status := formatStatus(r.State(), r.Keys(), r.Tone(), r.Stats().Instructions)
			g.Update(func(g *gocui.Gui) error {
				return draw(g, &fb, status)
			})
		}
	}
}

func layout(g *gocui.Gui) error {
	width := chip8.ScreenWidth + 1
	height := chip8.ScreenHeight/2 + 1

	v, err := g.SetView(screenView, 0, 0, width, height)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return fmt.Errorf("setting screen view: %w", err)
	}
	v.Title = "retrochip8"

	v, err = g.SetView(statusView, 0, height+1, width, height+3)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return fmt.Errorf("setting status view: %w", err)
	}
	v.Frame = true
	return nil
}

func draw(g *gocui.Gui, fb *chip8.Framebuffer, status string) error {
	v, err := g.View(screenView)
	if err != nil {
		return fmt.Errorf("getting screen view: %w", err)
	}
	v.Clear()
	_, _ = fmt.Fprint(v, renderHalfBlocks(fb))

	v, err = g.View(statusView)
	if err != nil {
		return fmt.Errorf("getting status view: %w", err)
	}
	v.Clear()
	_, _ = fmt.Fprint(v, status)
	return nil
}

// formatStatus returns the status line with the registers of interest, the
// pressed keys and a note symbol while the tone plays.
func formatStatus(state chip8.State, keys [chip8.KeyCount]bool, tone bool, instructions uint64) string {
	var pressed strings.Builder
	for key, down := range keys {
		if down {
			fmt.Fprintf(&pressed, "%X", key)
		}
	}
	if pressed.Len() == 0 {
		pressed.WriteByte('-')
	}

	toneMark := " "
	if tone {
		toneMark = "♪"
	}
	return fmt.Sprintf("PC=$%03X I=$%03X DT=%d ST=%d keys=%s %s cycles=%d",
		state.PC, state.I, state.DelayTimer, state.SoundTimer, pressed.String(), toneMark, instructions)
}

// latch tracks keys that count as pressed for a duration after their last key event.
type latch struct {
	mu       sync.Mutex
	duration time.Duration
	pressed  map[uint8]time.Time
}

func newLatch(duration time.Duration) *latch {
	return &latch{
		duration: duration,
		pressed:  make(map[uint8]time.Time),
	}
}

func (l *latch) press(key uint8, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pressed[key] = now
}

// expired removes and returns the keys whose latch ran out.
func (l *latch) expired(now time.Time) []uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var keys []uint8
	for key, pressed := range l.pressed {
		if now.Sub(pressed) >= l.duration {
			keys = append(keys, key)
			delete(l.pressed, key)
		}
	}
	return keys
}
