// Command opinion-export extracts Reddit posts and comments about mobile
// operators, cleans their text, attributes each row to the operators it
// mentions and writes the result as a CSV dataset.
//
// Flags:
//
//	--config    settings file, JSON or YAML (default: config.json when present)
//	--env-file  dotenv file loaded before the environment is read (default: .env)
//	--output    dataset path, overrides output.path
//	--summary   run summary JSON path, overrides output.summary_path
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/operator-opinions/pkg/config"
	"github.com/David-Botos/operator-opinions/pkg/export"
	"github.com/David-Botos/operator-opinions/pkg/logging"
)

const defaultConfigFile = "config.json"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one export and returns the process exit status.
// opts are handed to the exporter.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...export.Option) int {
	start := time.Now()

	flags := flag.NewFlagSet("opinion-export", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "settings file, JSON or YAML (default: config.json when present)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	output := flags.String("output", "", "dataset path, overrides output.path")
	summary := flags.String("summary", "", "run summary JSON path, overrides output.summary_path")
	if err := flags.Parse(args); err != nil {
		return fail(stderr, start, export.NewStageError(export.StageConfig, err))
	}

	if *configPath == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			*configPath = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fail(stderr, start, export.NewStageError(export.StageConfig, err))
		}
	}

	cfg, err := config.LoadConfig(*configPath, *envFile)
	if err != nil {
		return fail(stderr, start, export.NewStageError(export.StageConfig, err))
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if *summary != "" {
		cfg.Output.SummaryPath = *summary
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fail(stderr, start, export.NewStageError(export.StageConfig, err))
	}
	defer func() { _ = logger.Sync() }()

	exporter, err := export.NewExporter(cfg, logger.Named("export"), opts...)
	if err != nil {
		logger.Error("Failed to set up export", zap.Error(err))
		return fail(stderr, start, err)
	}

	metrics, err := exporter.Run(ctx)
	if err != nil {
		return fail(stderr, start, err)
	}

	logger.Debug("Run report", zap.String("report", metrics.GenerateMetricsReport()))
	fmt.Fprintf(stdout, "[start]: %s | [end]: %s | rows: %d -> %s\n",
		start.Format(time.RFC3339), metrics.EndTime.Format(time.RFC3339),
		metrics.RowsWritten, metrics.OutputPath)
	return 0
}

// fail prints the diagnostic with the run boundaries and returns the exit status
func fail(stderr io.Writer, start time.Time, err error) int {
	fmt.Fprintf(stderr, "opinion export failed: %v\n", err)
	fmt.Fprintf(stderr, "[start]: %s | [end]: %s\n", start.Format(time.RFC3339), time.Now().Format(time.RFC3339))
	return 1
}
