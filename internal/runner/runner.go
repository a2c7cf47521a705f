// Package runner drives the instruction cycle of a CHIP-8 machine.
//
// The runner owns the machine for the duration of a run. Instructions execute
// at a configurable rate while the timers tick at a fixed 60 Hz on their own
// clock. Input, renderer and audio collaborators running on other goroutines
// access the machine only through the runner, which serializes them with the
// instruction cycle so they never observe a half executed instruction.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	chip8arch "github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// ErrMaxCyclesReached is returned by Run when the configured instruction limit was executed.
var ErrMaxCyclesReached = errors.New("maximum cycles reached")

const (
	// DefaultInstructionsPerSecond is a common instruction rate for CHIP-8 programs.
	DefaultInstructionsPerSecond = 700

	// TimerFrequency is the rate in Hz at which the delay and sound timers decrement.
	TimerFrequency = 60

	// hostInterval is the granularity of the real-time instruction budget.
	hostInterval = 5 * time.Millisecond

	// contextCheckInterval is the number of instructions between cancellation
	// checks when running on the virtual clock.
	contextCheckInterval = 1024
)

// Config contains the runner options.
type Config struct {
	InstructionsPerSecond int    // instruction rate, DefaultInstructionsPerSecond if 0
	MaxCycles             uint64 // instruction limit for Run, 0 for unlimited
	Trace                 bool   // log every executed instruction at debug level
}

// AudioSink is notified when the tone derived from the sound timer starts or stops.
type AudioSink interface {
	SetTone(on bool)
}

// TimerObserver can optionally be implemented by an AudioSink to be notified
// of every 60 Hz timer tick, for example to produce audio samples at a fixed rate.
type TimerObserver interface {
	TimerTick()
}

// Stats contains instruction counters of a run.
type Stats struct {
	Instructions uint64
	TimerTicks   uint64
	Jumps        uint64
	Calls        uint64
	Returns      uint64
	Skips        uint64
	MemoryReads  uint64
	MemoryWrites uint64
}

// Runner executes a machine and mediates access to it.
type Runner struct {
	logger *log.Logger
	cfg    Config

	mu      sync.Mutex
	machine *chip8.Machine
	sinks   []AudioSink
	tone    bool
	stats   Stats

	// timerClock accumulates TimerFrequency per instruction on the virtual
	// clock, a timer tick is due for every InstructionsPerSecond of it.
	timerClock uint64
}

// New returns a runner for the machine.
func New(logger *log.Logger, machine *chip8.Machine, cfg Config) *Runner {
	if cfg.InstructionsPerSecond <= 0 {
		cfg.InstructionsPerSecond = DefaultInstructionsPerSecond
	}
	return &Runner{
		logger:  logger,
		cfg:     cfg,
		machine: machine,
	}
}

// AddAudioSink registers a sink for tone changes. Sinks are called from the
// instruction cycle and must not call back into the runner.
func (r *Runner) AddAudioSink(sink AudioSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

// SetKey sets the state of a keypad key. The change is visible to the next
// executed instruction.
func (r *Runner) SetKey(key uint8, pressed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machine.SetKey(key, pressed)
}

// SetKeys replaces the state of all keypad keys.
func (r *Runner) SetKeys(keys [chip8.KeyCount]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machine.SetKeys(keys)
}

// Keys returns the state of the keypad.
func (r *Runner) Keys() [chip8.KeyCount]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Keys()
}

// ReleaseAll releases all keypad keys.
func (r *Runner) ReleaseAll() {
	r.SetKeys([chip8.KeyCount]bool{})
}

// Framebuffer returns a snapshot of the display taken between instructions.
func (r *Runner) Framebuffer() chip8.Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Framebuffer()
}

// State returns a snapshot of the register file taken between instructions.
func (r *Runner) State() chip8.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.State()
}

// Stats returns the instruction counters.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Tone returns whether the tone is currently playing.
func (r *Runner) Tone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tone
}

// Halted returns the fatal error that stopped the machine, or nil.
func (r *Runner) Halted() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Halted()
}

// Run executes instructions in real time until the context is cancelled,
// the instruction limit is reached or the machine fails. Cancellation is not
// an error.
func (r *Runner) Run(ctx context.Context) error {
	instructionTicker := time.NewTicker(hostInterval)
	defer instructionTicker.Stop()
	timerTicker := time.NewTicker(time.Second / TimerFrequency)
	defer timerTicker.Stop()

	perInterval := float64(r.cfg.InstructionsPerSecond) * hostInterval.Seconds()
	var budget float64

	r.logger.Debug("Starting real-time execution",
		log.Int("instructions_per_second", r.cfg.InstructionsPerSecond))

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-timerTicker.C:
			r.mu.Lock()
			r.tick()
			r.mu.Unlock()

		case <-instructionTicker.C:
			budget += perInterval
			count := int(budget)
			budget -= float64(count)

			if err := r.execute(count); err != nil {
				return err
			}
		}
	}
}

// RunCycles executes count instructions on a virtual clock: every
// instruction advances emulated time by 1/InstructionsPerSecond seconds and
// the timers tick at 60 Hz of that time, independent of wall time.
// It stops early on context cancellation or a machine failure.
func (r *Runner) RunCycles(ctx context.Context, count uint64) error {
	ips := uint64(r.cfg.InstructionsPerSecond) //nolint:gosec // positive after New

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := uint64(1); i <= count; i++ {
		if i%contextCheckInterval == 0 && ctx.Err() != nil {
			return fmt.Errorf("running cycles: %w", ctx.Err())
		}

		if err := r.step(); err != nil {
			return err
		}

		r.timerClock += TimerFrequency
		for r.timerClock >= ips {
			r.timerClock -= ips
			r.tick()
		}
	}
	return nil
}

// execute runs up to count instructions, stopping at the instruction limit.
func (r *Runner) execute(count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range count {
		if r.cfg.MaxCycles > 0 && r.stats.Instructions >= r.cfg.MaxCycles {
			return ErrMaxCyclesReached
		}
		if err := r.step(); err != nil {
			return err
		}
	}
	return nil
}

// step executes a single instruction. The caller must hold the lock.
func (r *Runner) step() error {
	state := r.machine.State()
	word, fetchErr := r.machine.Fetch()

	if err := r.machine.Step(); err != nil {
		r.reportFailure(err)
		return err
	}

	r.stats.Instructions++
	if fetchErr == nil {
		r.count(word)
		if r.cfg.Trace {
			r.logger.Debug("Executed",
				log.Hex("pc", state.PC),
				log.Hex("opcode", word),
				log.String("instruction", chip8arch.Format(word)))
		}
	}

	r.updateTone()
	return nil
}

// tick decrements the machine timers. The caller must hold the lock.
func (r *Runner) tick() {
	r.machine.Tick()
	r.stats.TimerTicks++

	for _, sink := range r.sinks {
		if observer, ok := sink.(TimerObserver); ok {
			observer.TimerTick()
		}
	}
	r.updateTone()
}

// updateTone notifies the audio sinks when the sound timer starts or stops.
func (r *Runner) updateTone() {
	active := r.machine.SoundActive()
	if active == r.tone {
		return
	}
	r.tone = active
	for _, sink := range r.sinks {
		sink.SetTone(active)
	}
}

// count updates the instruction class counters.
func (r *Runner) count(word uint16) {
	opcode, ok := chip8arch.Lookup(word)
	if !ok {
		return
	}

	ins := opcode.Instruction()
	switch {
	case ins.IsJump():
		r.stats.Jumps++
	case ins.IsCall():
		r.stats.Calls++
	case ins.IsReturn():
		r.stats.Returns++
	case ins.IsSkip():
		r.stats.Skips++
	}
	if opcode.ReadsMemory() {
		r.stats.MemoryReads++
	}
	if opcode.WritesMemory() {
		r.stats.MemoryWrites++
	}
}

// reportFailure logs the details of a fatal machine error.
func (r *Runner) reportFailure(err error) {
	var execErr *chip8.ExecutionError
	if !errors.As(err, &execErr) {
		r.logger.Error("Execution failed", log.Err(err))
		return
	}

	r.logger.Error("Execution halted",
		log.String("error", execErr.Err.Error()),
		log.Hex("pc", execErr.PC),
		log.Hex("opcode", execErr.Word),
		log.String("instruction", chip8arch.Format(execErr.Word)),
		log.Stringer("state", r.machine.State()))
}
