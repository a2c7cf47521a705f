// Package main implements the main entry point for a CHIP-8 interpreter
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrochip8/internal/statsview"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, emuOpts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet, opts.Trace)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			if usageErr.Error() != "" {
				logger.Error(usageErr.Error())
			}
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet, opts.Trace)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	if opts.Statsview {
		statsview.Launch(ctx, logger)
	}

	p := pipeline.New(logger, map[string]frontend.Factory{
		options.FrontendWindow:   window.Factory,
		options.FrontendTerminal: terminal.Factory,
		options.FrontendHeadless: headless.Factory,
	})

	if err := run(ctx, logger, p, opts, emuOpts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Running failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, p *pipeline.Pipeline, opts options.Program, emuOpts options.Emulator) error {
	if opts.Batch == "" {
		_, err := fileprocessor.ProcessFile(ctx, p, opts, emuOpts, os.Stdout)
		return err
	}

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		return err
	}

	summary, err := fileprocessor.ProcessBatch(ctx, logger, p, opts, emuOpts, files, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d programs failed", summary.Failed, len(files))
	}
	return nil
}
