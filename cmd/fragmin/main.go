package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fragmin/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputDir     string
		outputDir    string
		coverage     float64
		prefix       string
		counterSpec  string
		concurrency  int
		maxFileBytes int64
		topN         int
		pdfPath      string
		dryRun       bool
		verbose      bool
		configPath   string
	)

	flag.StringVar(&inputDir, "input", "", "Directory containing HTML documents to process")
	flag.StringVar(&outputDir, "output", "", "Directory to write minimal fragments and the manifest")
	flag.Float64Var(&coverage, "coverage", app.CoverageDefault, "Target text coverage in [0.0, 1.0]")
	flag.StringVar(&prefix, "filter.prefix", "", "Only process files whose name starts with this prefix")
	flag.StringVar(&counterSpec, "tokens.counter", os.Getenv("TOKEN_COUNTER"), "Token counter spec: heuristic, words, or chars:N")
	flag.IntVar(&concurrency, "concurrency", 0, "Worker pool size (0 uses all CPUs)")
	flag.Int64Var(&maxFileBytes, "max.fileBytes", app.MaxFileBytesDefault, "Skip input files larger than this many bytes (0 disables)")
	flag.IntVar(&topN, "report.top", app.TopReductionsDefault, "Number of highest-reduction files to log after the run")
	flag.StringVar(&pdfPath, "report.pdf", "", "Optional path for a PDF summary report")
	flag.BoolVar(&dryRun, "dry-run", false, "Compute and report without writing output files")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", os.Getenv("FRAGMIN_CONFIG"), "Optional YAML/JSON config file")
	flag.Parse()

	cfg := app.Config{
		InputDir:          inputDir,
		OutputDir:         outputDir,
		CoverageThreshold: coverage,
		NamePrefix:        prefix,
		CounterSpec:       counterSpec,
		Concurrency:       concurrency,
		MaxFileBytes:      maxFileBytes,
		TopReductions:     topN,
		ReportPDFPath:     pdfPath,
		DryRun:            dryRun,
		Verbose:           verbose,
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: nonzero only for infrastructure-level failures
		// (bad configuration, unreadable directories, unusable token
		// counter) or an interrupted run. Per-document errors are recorded
		// in the manifest and do not affect the exit status.
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
