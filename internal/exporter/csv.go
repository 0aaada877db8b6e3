package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"emaparse/internal/config"
	"emaparse/pkg/contracts/domain"
)

// CSVWriter provides CSV export for normalized rows
type CSVWriter struct {
	paths *config.Paths
	// written tracks claimed subject file names so key collisions
	// after sanitizing get a distinct file instead of an overwrite.
	written map[string]bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths, written: make(map[string]bool)}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	slog.Debug("Writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &WriteError{Path: filePath, Err: err}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return &WriteError{Path: filePath, Err: err}
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return &WriteError{Path: filePath, Err: err}
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return &WriteError{Path: filePath, Err: err}
		}
	}

	for _, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return &WriteError{Path: filePath, Err: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return &WriteError{Path: filePath, Err: err}
	}
	return nil
}

// WriteSubject writes one non-quarantined subject's rows to its own
// CSV file under the subjects directory.
func (w *CSVWriter) WriteSubject(result domain.SubjectResult, header []string) (string, error) {
	filename := w.subjectFilename(result.SubjectID)
	path := w.paths.GetSubjectCSVPath(filename)

	err := w.WriteCSV(path, WriteOptions{
		Headers:   header,
		Records:   recordsFor(header, result.Rows),
		BOMPrefix: true,
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteComposite writes all kept subjects' rows to the composite CSV,
// subjects in sorted order, pings in input order.
func (w *CSVWriter) WriteComposite(header []string, rows []domain.NormalizedRow) error {
	return w.WriteCSV(w.paths.CompositeCSV, WriteOptions{
		Headers:   header,
		Records:   recordsFor(header, rows),
		BOMPrefix: true,
	})
}

// recordsFor projects rows onto the header's column order. Columns a
// row never saw come out as empty cells.
func recordsFor(header []string, rows []domain.NormalizedRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(header))
		for i, column := range header {
			record[i] = row.Cell(column)
		}
		records = append(records, record)
	}
	return records
}

// subjectFilename derives a filesystem-safe, collision-free file name
// from a subject id. A second subject sanitizing to the same name gets
// a "_b" suffix rather than overwriting the first.
func (w *CSVWriter) subjectFilename(subjectID string) string {
	base := sanitizeFilename(subjectID)
	name := base + ".csv"
	for w.written[name] {
		base += "_b"
		name = base + ".csv"
	}
	w.written[name] = true
	return name
}

// sanitizeFilename replaces characters that are unsafe in file names.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		cleaned = "subject"
	}
	return cleaned
}
