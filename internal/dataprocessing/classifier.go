package dataprocessing

import (
	"log/slog"

	"emaparse/pkg/contracts/domain"
)

// Classification is the exhaustive two-way partition of normalized
// subjects: a subject is either kept or quarantined, never both.
type Classification struct {
	Kept        []domain.SubjectResult
	Quarantined []domain.SubjectResult
	// Tolerable collects every tolerable issue across all subjects,
	// quarantined ones included; the error log is a superset of what
	// was not fatal.
	Tolerable []domain.ParsingIssue
}

// Classify partitions subject results. A single existential issue on
// any ping quarantines the whole subject; tolerable issues only ever
// reach the log.
func Classify(results []domain.SubjectResult) Classification {
	var c Classification

	for _, result := range results {
		c.Tolerable = append(c.Tolerable, result.TolerableIssues()...)

		if result.HasExistential() {
			c.Quarantined = append(c.Quarantined, result)
			slog.Warn("Subject quarantined",
				slog.String("subject_id", result.SubjectID),
				slog.Int("issue_count", len(result.Issues)))
			continue
		}
		c.Kept = append(c.Kept, result)
	}

	return c
}