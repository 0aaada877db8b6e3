package exporter

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"emaparse/internal/dataprocessing"
	"emaparse/pkg/contracts/domain"
)

// WriteQuarantine serializes quarantined subjects to one JSON file,
// keyed by subject id, each payload verbatim as it appeared in the
// input. Callers only invoke this when at least one subject was
// quarantined; a run with no existential issues produces no file.
func WriteQuarantine(path string, quarantined []domain.SubjectResult) error {
	payloads := make(map[string]json.RawMessage, len(quarantined))
	for _, result := range quarantined {
		payloads[result.SubjectID] = result.Raw
	}
	if err := writeJSONFile(path, payloads); err != nil {
		return err
	}

	slog.Info("Wrote quarantine file",
		slog.String("path", path),
		slog.Int("subject_count", len(quarantined)))
	return nil
}

// WriteDuplicates serializes the duplicate-response audit. Skipped by
// callers when no duplicates were found.
func WriteDuplicates(path string, report dataprocessing.DuplicateReport) error {
	if err := writeJSONFile(path, report); err != nil {
		return err
	}

	slog.Info("Wrote duplicate-response audit",
		slog.String("path", path),
		slog.Int("username_count", len(report)))
	return nil
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
