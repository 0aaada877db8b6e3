// Package pipeline wires the conversion stages together: load,
// normalize, classify, write. One Run call is one batch invocation;
// all counters live in the run-scoped report, never in package state.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"emaparse/internal/config"
	"emaparse/internal/dataprocessing"
	"emaparse/internal/exporter"
	"emaparse/internal/files"
	"emaparse/internal/infrastructure"
	"emaparse/pkg/contracts/domain"
)

// Options controls one pipeline invocation.
type Options struct {
	// InputPath is the submissions JSON document.
	InputPath string
	// WriteExcel additionally writes the composite table as an Excel
	// workbook.
	WriteExcel bool
	// Archive bundles the output directory into a dated tar.gz after
	// all outputs are written.
	Archive bool
}

// Pipeline converts one submissions document into the run's outputs.
type Pipeline struct {
	cfg   *config.Config
	paths *config.Paths
}

// New creates a pipeline bound to a configuration and path set.
func New(cfg *config.Config, paths *config.Paths) *Pipeline {
	return &Pipeline{cfg: cfg, paths: paths}
}

// Run executes the full conversion. Data defects never fail a run;
// only input I/O (*dataprocessing.LoadError) and output I/O
// (*exporter.WriteError) do.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*domain.RunReport, error) {
	logger := infrastructure.LoggerWithContext(ctx)
	report := &domain.RunReport{RunID: infrastructure.GetRunID(ctx)}

	submissions, err := dataprocessing.LoadSubmissions(opts.InputPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Parsing participant data",
		slog.String("input_path", opts.InputPath),
		slog.Int("subject_count", submissions.Len()))

	normalizer := dataprocessing.NewNormalizer(p.cfg.Parser)

	results := make([]domain.SubjectResult, 0, submissions.Len())
	for _, subjectID := range submissions.SubjectIDs() {
		result := normalizer.NormalizeSubject(subjectID, submissions.Payload(subjectID))
		report.Observe(result)
		results = append(results, result)
	}

	classification := dataprocessing.Classify(results)

	// The composite header is the union of columns over kept subjects
	// only; quarantined data contributes no cells, so no columns.
	columns := domain.NewColumnSet()
	for _, result := range classification.Kept {
		for _, column := range result.Columns {
			columns.Add(column)
		}
	}
	header := columns.Header()

	csvWriter := exporter.NewCSVWriter(p.paths)

	var compositeRows []domain.NormalizedRow
	for _, result := range classification.Kept {
		if len(result.Rows) == 0 {
			continue
		}
		path, err := csvWriter.WriteSubject(result, header)
		if err != nil {
			return report, err
		}
		logger.Debug("Wrote subject CSV",
			slog.String("subject_id", result.SubjectID),
			slog.String("path", path),
			slog.Int("row_count", len(result.Rows)))
		compositeRows = append(compositeRows, result.Rows...)
	}

	if err := csvWriter.WriteComposite(header, compositeRows); err != nil {
		return report, err
	}

	if err := exporter.WriteErrorLog(p.paths.ErrorLog, classification.Tolerable); err != nil {
		return report, err
	}

	if len(classification.Quarantined) > 0 {
		if err := exporter.WriteQuarantine(p.paths.QuarantineJSON, classification.Quarantined); err != nil {
			return report, err
		}
	}

	duplicates := dataprocessing.FindDuplicateResponses(submissions.SubjectIDs())
	report.DuplicateResponses = len(duplicates)
	if len(duplicates) > 0 {
		if err := exporter.WriteDuplicates(p.paths.DuplicatesJSON, duplicates); err != nil {
			return report, err
		}
	}

	if opts.WriteExcel {
		if err := exporter.WriteCompositeExcel(p.paths.CompositeXLSX, header, compositeRows); err != nil {
			return report, err
		}
	}

	if opts.Archive {
		archivePath := p.paths.GetArchivePath(files.ArchiveName(time.Now()))
		arcRoot := "EMA_Responses_" + time.Now().Format("Jan_02_2006")
		if err := files.CreateArchive(p.paths.OutputDir, archivePath, arcRoot); err != nil {
			return report, &exporter.WriteError{Path: archivePath, Err: err}
		}
	}

	logger.Info("Run complete",
		slog.Int("subjects_total", report.SubjectsTotal),
		slog.Int("subjects_kept", report.SubjectsKept),
		slog.Int("subjects_quarantined", report.SubjectsQuarantined),
		slog.Int("rows_written", report.RowsWritten),
		slog.Int("tolerable_issues", report.TolerableIssues),
		slog.Int("existential_issues", report.ExistentialIssues),
		slog.Int("duplicate_responses", report.DuplicateResponses))

	return report, nil
}
