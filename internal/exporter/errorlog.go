package exporter

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"

	"emaparse/pkg/contracts/domain"
)

// WriteErrorLog writes one human-readable line per tolerable issue.
// The file is always created for a run, empty when nothing tolerable
// happened, so downstream automation can rely on its presence.
func WriteErrorLog(path string, issues []domain.ParsingIssue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	file, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, issue := range issues {
		if _, err := w.WriteString(issue.String() + "\n"); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	slog.Debug("Wrote error log",
		slog.String("path", path),
		slog.Int("issue_count", len(issues)))
	return nil
}
