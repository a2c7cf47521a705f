// Package app provides the main application helper for the emulator.
package app

import (
	"strconv"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the program and how it is run.
func PrintInfo(logger *log.Logger, opts options.Program, emuOpts options.Emulator, frontend string, size int) {
	if opts.Quiet {
		return
	}

	logger.Info("Running CHIP-8 program",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.String("frontend", frontend),
	)
	logger.Debug("Emulator settings",
		log.Int("instructions_per_second", emuOpts.Runner.InstructionsPerSecond),
		log.Hex("program_ceiling", emuOpts.Machine.ProgramCeiling),
		log.String("seed", strconv.FormatUint(emuOpts.Machine.Seed, 10)),
	)

	if opts.Trace && !opts.Debug {
		logger.Warn("Instruction tracing enables debug logging")
	}
}
