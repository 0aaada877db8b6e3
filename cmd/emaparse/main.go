package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"emaparse/internal/config"
	"emaparse/internal/infrastructure"
	"emaparse/internal/pipeline"
)

func main() {
	in := flag.String("in", "", "input JSON file containing all subjects' EMA submissions (required)")
	out := flag.String("out", "", "output directory (defaults to config output dir)")
	delim := flag.String("delim", "", "delimiter used to join list answers into one cell (defaults to config)")
	writeExcel := flag.Bool("xlsx", false, "additionally write the composite table as an Excel workbook")
	archive := flag.Bool("archive", false, "bundle the output directory into a dated tar.gz")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "missing required -in flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if *out != "" {
		cfg.Output.Dir = *out
	}
	if *delim != "" {
		cfg.Parser.ListDelimiter = *delim
	}

	paths := config.NewPaths(cfg.Output.Dir, cfg.Output)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "console" && cfg.Logging.FilePath == "logs/emaparse.log" {
		cfg.Logging.FilePath = paths.GetLogPath("emaparse.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())

	logger.InfoContext(ctx, "Starting EMA submissions parsing",
		slog.String("input_path", *in),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("list_delimiter", cfg.Parser.ListDelimiter),
		slog.Bool("write_excel", *writeExcel),
		slog.Bool("archive", *archive))

	p := pipeline.New(cfg, paths)
	report, err := p.Run(ctx, pipeline.Options{
		InputPath:  *in,
		WriteExcel: *writeExcel,
		Archive:    *archive,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Run failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "emaparse: %v\n", err)
		os.Exit(1)
	}

	// Data defects, tolerable or existential, are a successful run;
	// they are accounted for in the outputs, not in the exit code.
	fmt.Printf("Parsed %d subjects: %d kept, %d quarantined, %d rows written\n",
		report.SubjectsTotal, report.SubjectsKept, report.SubjectsQuarantined, report.RowsWritten)
}
