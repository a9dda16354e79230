// Command uploader ships FACE neutron probe files to HIEv. It scans the
// Data folder next to the executable, backs up and renames each probe
// file, derives the L1 CSV with the external R script, uploads both
// artifacts to the repository and removes the local copies. The tool is
// built to run unattended from a scheduler: per-file problems are logged
// and the run carries on.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdevine/face-neutronprobe-hiev/internal/config"
	"github.com/gdevine/face-neutronprobe-hiev/internal/convert"
	"github.com/gdevine/face-neutronprobe-hiev/internal/hiev"
	"github.com/gdevine/face-neutronprobe-hiev/internal/infrastructure"
	"github.com/gdevine/face-neutronprobe-hiev/internal/output"
	"github.com/gdevine/face-neutronprobe-hiev/internal/pipeline"
	"github.com/gdevine/face-neutronprobe-hiev/internal/validation"
)

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	// Panic recovery so a scheduled run never dies silently
	var logger *slog.Logger
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC RECOVERED: %v\n", r)
			fmt.Printf("Stack trace:\n%s\n", debug.Stack())
			if logger != nil {
				logger.Error("Uploader panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			os.Exit(1)
		}
	}()

	workingRoot := flag.String("root", "", "working root containing the Data, Renamed and Backups folders (defaults to the executable directory)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("face-neutronprobe-hiev %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		output.Errorf("%v", err)
		os.Exit(1)
	}

	if *workingRoot != "" {
		cfg.Paths.WorkingRoot = *workingRoot
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		output.Errorf("failed to resolve paths: %v", err)
		os.Exit(1)
	}

	if err := paths.EnsureDirectories(); err != nil {
		output.Errorf("failed to create required directories: %v", err)
		os.Exit(1)
	}

	// Route the run log to its executable-relative location regardless of
	// the scheduler's working directory.
	cfg.Logging.FilePath = paths.LogFile
	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.ContextWithRunID(ctx)

	logger.Info("FACE neutron probe uploader starting",
		slog.String("version", version),
		slog.String("run_id", infrastructure.GetRunID(ctx)),
		slog.String("hiev_url", cfg.HIEv.BaseURL),
		slog.String("working_root", paths.WorkingRoot))
	paths.LogPathResolution()

	converter := convert.NewRscriptConverter(cfg.Converter, paths.ConverterScript)
	warnConverterSetup(ctx, paths, converter)

	uploader := hiev.NewClient(cfg.HIEv)
	runner := pipeline.NewRunner(paths, converter, uploader)

	output.Header("FACE Neutron Probe Upload to HIEv")

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Run aborted", slog.String("error", err.Error()))
		output.Errorf("%v", err)
		os.Exit(1)
	}

	for _, res := range summary.Results {
		output.Result(res)
	}
	output.Summary(summary)
}

// warnConverterSetup surfaces missing conversion tooling at startup. The
// run still proceeds; affected files fail at the convert stage and stay
// on disk for the next run.
func warnConverterSetup(ctx context.Context, paths *config.Paths, converter *convert.RscriptConverter) {
	logger := infrastructure.LoggerFromContext(ctx)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateConverterScript(paths.ConverterScript); err != nil {
		output.Warning(fmt.Sprintf("converter script not found at %s, conversions will fail", paths.ConverterScript))
		logger.Warn("Converter script missing",
			slog.String("script", paths.ConverterScript),
			slog.String("error", err.Error()))
	}

	if err := converter.Available(); err != nil {
		output.Warning("Rscript interpreter not found on PATH, conversions will fail")
		logger.Warn("Converter command unavailable",
			slog.String("error", err.Error()))
	}
}
