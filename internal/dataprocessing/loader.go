package dataprocessing

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// LoadError reports a fatal problem with the input document: missing
// file, unreadable file, or invalid JSON. It aborts the run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load submissions from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Submissions holds every subject's verbatim raw payload, keyed by
// subject id. Payloads are kept as raw JSON so quarantined subjects
// can be re-emitted unmodified.
type Submissions struct {
	payloads map[string]json.RawMessage
	ids      []string
}

// LoadSubmissions reads one JSON document mapping subject id to raw
// submission payload. It performs no semantic validation; anything
// that decodes as a top-level JSON object is accepted.
func LoadSubmissions(path string) (*Submissions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var payloads map[string]json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	ids := make([]string, 0, len(payloads))
	for id := range payloads {
		ids = append(ids, id)
	}
	// Sorted subject order keeps composite output deterministic.
	sort.Strings(ids)

	slog.Debug("Loaded submissions document",
		slog.String("path", path),
		slog.Int("subject_count", len(ids)))

	return &Submissions{payloads: payloads, ids: ids}, nil
}

// SubjectIDs returns all subject ids in sorted order.
func (s *Submissions) SubjectIDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Payload returns the verbatim raw payload for a subject id.
func (s *Submissions) Payload(subjectID string) json.RawMessage {
	return s.payloads[subjectID]
}

// Len returns the number of subjects in the document.
func (s *Submissions) Len() int {
	return len(s.ids)
}
