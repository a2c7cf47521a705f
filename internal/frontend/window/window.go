// Package window presents a running program in a desktop window with
// keyboard input and audio output.
package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

const title = "retrochip8"

// Pixel colors as RGBA.
var (
	colorLit   = [4]byte{0xE0, 0xF0, 0xD0, 0xFF}
	colorUnlit = [4]byte{0x10, 0x18, 0x20, 0xFF}
)

// Window is an ebiten based frontend.
type Window struct {
	logger   *log.Logger
	scale    int
	bindings []keyBinding
}

// New returns a window frontend.
func New(logger *log.Logger, settings frontend.Settings) (*Window, error) {
	bindings, err := bindKeys(settings.Keymap)
	if err != nil {
		return nil, err
	}
	return &Window{
		logger:   logger,
		scale:    settings.Scale,
		bindings: bindings,
	}, nil
}

// Factory creates a window frontend from the frontend settings.
func Factory(logger *log.Logger, settings frontend.Settings) (frontend.Frontend, error) {
	return New(logger, settings)
}

// Run opens the window and executes the program until the window is closed,
// Escape is pressed or the program ends. It has to be called from the main
// goroutine.
func (w *Window) Run(ctx context.Context, r *runner.Runner) error {
	beeper, err := newBeeper()
	if err != nil {
		return err
	}
	defer beeper.close()
	r.AddAudioSink(beeper)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		// the window closes when the runner stops
		defer cancel()
		return r.Run(groupCtx)
	})

	game := &game{
		ctx:      groupCtx,
		runner:   r,
		bindings: w.bindings,
		screen:   ebiten.NewImage(chip8.ScreenWidth, chip8.ScreenHeight),
		pixels:   make([]byte, chip8.ScreenWidth*chip8.ScreenHeight*4),
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(chip8.ScreenWidth*w.scale, chip8.ScreenHeight*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	w.logger.Debug("Opening window", log.Int("scale", w.scale))
	gameErr := ebiten.RunGame(game)
	cancel()

	runErr := group.Wait()
	if gameErr != nil && !errors.Is(gameErr, ebiten.Termination) {
		return fmt.Errorf("running window: %w", gameErr)
	}
	return runErr
}

// game implements ebiten.Game.
type game struct {
	ctx      context.Context
	runner   *runner.Runner
	bindings []keyBinding
	screen   *ebiten.Image
	pixels   []byte
}

// Update polls the keyboard and forwards the keypad state to the machine.
func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		if key == ebiten.KeyEscape {
			return ebiten.Termination
		}
	}

	// key releases are not delivered while another window has the focus
	if !ebiten.IsFocused() {
		g.runner.ReleaseAll()
		return nil
	}

	var keys [chip8.KeyCount]bool
	for _, binding := range g.bindings {
		if ebiten.IsKeyPressed(binding.key) {
			keys[binding.chip8] = true
		}
	}
	g.runner.SetKeys(keys)
	return nil
}

// Draw renders a framebuffer snapshot.
func (g *game) Draw(screen *ebiten.Image) {
	fb := g.runner.Framebuffer()
	for i, lit := range fb {
		color := colorUnlit
		if lit {
			color = colorLit
		}
		copy(g.pixels[i*4:], color[:])
	}

	g.screen.WritePixels(g.pixels)
	screen.DrawImage(g.screen, nil)
}

// Layout keeps the logical screen at the display resolution of the machine,
// ebiten scales it to the window size.
func (g *game) Layout(_, _ int) (int, int) {
	return chip8.ScreenWidth, chip8.ScreenHeight
}
