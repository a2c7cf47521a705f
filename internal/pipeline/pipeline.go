// Package pipeline orchestrates the stages of running a program.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrochip8/internal/wavsink"
	"github.com/retroenv/retrogolib/log"
)

// ErrInvalidReference is returned when the verification reference can not be
// read or parsed, as opposed to a display that differs from it.
var ErrInvalidReference = errors.New("invalid verification reference")

// Result contains the final state of a program run.
type Result struct {
	Frontend    string
	Framebuffer chip8.Framebuffer
	Digest      string
	Stats       runner.Stats
}

// Pipeline orchestrates the complete run workflow.
type Pipeline struct {
	logger    *log.Logger
	detector  *detector.Detector
	frontends map[string]frontend.Factory
}

// New creates a new run pipeline using the given frontend factories, keyed
// by frontend name.
func New(logger *log.Logger, frontends map[string]frontend.Factory) *Pipeline {
	return &Pipeline{
		logger:    logger,
		detector:  detector.New(logger),
		frontends: frontends,
	}
}

// Execute runs the complete pipeline for the program file of the options.
// Output of non interactive frontends is written to writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, emuOpts options.Emulator, writer io.Writer) (*Result, error) {
	capacity := chip8.New(emuOpts.Machine).ProgramCapacity()

	program, err := loader.New(capacity).Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	return p.ExecuteWithProgram(ctx, program, opts, emuOpts, writer)
}

// ExecuteWithProgram runs the pipeline with a pre-loaded program.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, program []byte, opts options.Program,
	emuOpts options.Emulator, writer io.Writer) (result *Result, err error) {

	name := p.detector.Detect(opts)
	factory, ok := p.frontends[name]
	if !ok {
		return nil, fmt.Errorf("unsupported frontend '%s'", name)
	}

	machine := chip8.New(emuOpts.Machine)
	program, err = loader.New(machine.ProgramCapacity()).LoadFromBytes(program)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	if err := machine.LoadProgram(program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	settings, err := p.frontendSettings(opts, name, writer)
	if err != nil {
		return nil, err
	}
	fe, err := factory(p.logger, settings)
	if err != nil {
		return nil, fmt.Errorf("creating %s frontend: %w", name, err)
	}

	app.PrintInfo(p.logger, opts, emuOpts, name, len(program))

	r := runner.New(p.logger, machine, emuOpts.Runner)
	if opts.Wav != "" {
		sink, createErr := wavsink.Create(opts.Wav)
		if createErr != nil {
			return nil, fmt.Errorf("creating tone recording: %w", createErr)
		}
		defer func() {
			if closeErr := sink.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("recording tone: %w", closeErr)
			}
		}()
		r.AddAudioSink(sink)
	}

	runErr := fe.Run(ctx, r)
	result = p.result(name, r)

	switch {
	case errors.Is(runErr, runner.ErrMaxCyclesReached):
		p.logger.Info("Instruction limit reached", log.Int("instructions", int(result.Stats.Instructions))) //nolint:gosec // informational
	case runErr != nil:
		return result, fmt.Errorf("running program: %w", runErr)
	}

	if opts.Verify != "" {
		if err := verification.Verify(p.logger, opts.Verify, result.Framebuffer); err != nil {
			if !verification.IsMismatch(err) {
				return result, fmt.Errorf("%w: %w", ErrInvalidReference, err)
			}
			return result, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return result, nil
}

// frontendSettings returns the settings for the frontend. The keymap is
// only loaded for interactive frontends.
func (p *Pipeline) frontendSettings(opts options.Program, name string, writer io.Writer) (frontend.Settings, error) {
	settings := frontend.Settings{
		Keymap: config.DefaultKeymap(),
		Scale:  opts.Scale,
		Cycles: opts.HeadlessCycles(),
		Output: writer,
	}
	if name == options.FrontendHeadless {
		return settings, nil
	}

	load := config.LoadKeymap
	if opts.Keymap == "" {
		load = config.LoadOrCreateKeymap
	}
	keymap, err := load(opts.Keymap)
	if err != nil {
		if opts.Keymap != "" {
			return settings, fmt.Errorf("loading keymap: %w", err)
		}
		p.logger.Warn("Using default keymap", log.Err(err))
	}
	settings.Keymap = keymap
	return settings, nil
}

func (p *Pipeline) result(name string, r *runner.Runner) *Result {
	fb := r.Framebuffer()
	return &Result{
		Frontend:    name,
		Framebuffer: fb,
		Digest:      verification.Digest(fb),
		Stats:       r.Stats(),
	}
}
