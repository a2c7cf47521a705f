// Package fileprocessor handles file selection and batch processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile runs a single program file through the pipeline.
func ProcessFile(ctx context.Context, p *pipeline.Pipeline, opts options.Program,
	emuOpts options.Emulator, writer io.Writer) (*pipeline.Result, error) {

	result, err := p.Execute(ctx, opts, emuOpts, writer)
	if err != nil {
		return result, fmt.Errorf("processing '%s': %w", opts.Input, err)
	}
	return result, nil
}

// BatchSummary contains the outcome of a batch run.
type BatchSummary struct {
	Passed int
	Failed int
}

// ProcessBatch runs every file headless and writes a pass or fail line per
// file to w. A file passes when it ran the instruction count without a fatal
// error and, if requested, matched the verification reference.
// Processing stops early when the context is cancelled or the verification
// reference is unusable.
func ProcessBatch(ctx context.Context, logger *log.Logger, p *pipeline.Pipeline, opts options.Program,
	emuOpts options.Emulator, files []string, w io.Writer) (BatchSummary, error) {

	var summary BatchSummary
	for _, file := range files {
		opts.Input = file

		_, err := ProcessFile(ctx, p, opts, emuOpts, nil)
		// every further program would fail against the same reference
		if errors.Is(err, context.Canceled) || errors.Is(err, pipeline.ErrInvalidReference) {
			return summary, fmt.Errorf("batch processing: %w", err)
		}

		verification.Report(w, file, describeFailure(err))
		if err != nil {
			summary.Failed++
			logger.Debug("Program failed", log.String("file", file), log.Err(err))
			continue
		}
		summary.Passed++
	}

	printSummary(w, summary)
	return summary, nil
}

// describeFailure shortens execution errors to their kind and location.
func describeFailure(err error) error {
	var execErr *chip8.ExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}
	return err
}

func printSummary(w io.Writer, summary BatchSummary) {
	bold := color.New(color.Bold).SprintFunc()
	_, _ = fmt.Fprintf(w, "%s %d passed, %d failed\n", bold("summary:"), summary.Passed, summary.Failed)
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match the batch pattern '%s'", opts.Batch)
		}
		sort.Strings(matches)
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8 - CHIP-8 interpreter",
		log.String("version", buildinfo.Version(version, commit, date)))
}
