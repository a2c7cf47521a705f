// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/statsview"
	"github.com/retroenv/retrochip8/internal/verification"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Emulator{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	return opts, options.NewEmulator(opts), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <CHIP-8 program>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	switch opts.Frontend {
	case "", options.FrontendWindow, options.FrontendTerminal, options.FrontendHeadless:
	default:
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join([]string{options.FrontendWindow, options.FrontendTerminal, options.FrontendHeadless}, ", "))
	}

	// verification and batch runs have no interactive input
	if opts.Verify != "" || opts.Batch != "" {
		if opts.Frontend != "" && opts.Frontend != options.FrontendHeadless {
			return fmt.Errorf("frontend %s can not be combined with -verify or -batch", opts.Frontend)
		}
		opts.Frontend = options.FrontendHeadless
	}

	if opts.Verify != "" && verification.IsDigest(opts.Verify) {
		opts.Verify = strings.ToLower(opts.Verify)
	}

	if opts.InstructionsPerSecond <= 0 {
		return fmt.Errorf("instructions per second must be positive, got %d", opts.InstructionsPerSecond)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", opts.Scale)
	}
	if opts.Ceiling <= chip8.ProgramStart || opts.Ceiling > chip8.MemorySize {
		return fmt.Errorf("program ceiling $%X outside of valid range $%X-$%X",
			opts.Ceiling, chip8.ProgramStart+1, chip8.MemorySize)
	}

	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano()) //nolint:gosec // any value is a valid seed
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input CHIP-8 program file")
	flags.StringVar(&opts.Batch, "batch", "", "run a batch of given path and file mask headless and report the results, for example *.ch8")
	flags.StringVar(&opts.Wav, "wav", "", "record the generated tone to the given .wav file")
	flags.StringVar(&opts.Keymap, "keymap", "", "keymap config file to use instead of the one in the user config dir")
	flags.StringVar(&opts.Verify, "verify", "", "run headless and verify the framebuffer against a SHA-256 digest or a text dump file")
	flags.StringVar(&opts.Frontend, "frontend", "", "frontend to use (window/terminal/headless), auto-detected if not set")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", runner.DefaultInstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", 10, "scale factor of the window frontend")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "maximum number of instructions to execute, 0 for unlimited (headless default 10000)")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 for a time based seed")
	flags.UintVar(&opts.Ceiling, "ceiling", chip8.MemorySize, "end address of the program space")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Statsview, "statsview", false, "serve runtime statistics on "+statsview.URL())
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
