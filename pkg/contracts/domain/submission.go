package domain

import (
	"encoding/json"
	"fmt"
)

// Fixed metadata columns emitted before any discovered question columns.
const (
	ColumnSubjectID = "subject_id"
	ColumnPingID    = "ping_id"
	ColumnTimestamp = "timestamp"
)

// MetadataColumns returns the fixed leading columns in output order.
func MetadataColumns() []string {
	return []string{ColumnSubjectID, ColumnPingID, ColumnTimestamp}
}

// Ping represents a single EMA prompt instance as decoded from the
// input document. Answers keeps the raw JSON so the normalizer can
// handle both object and array shapes.
type Ping struct {
	PingID    string          `json:"ping_id"`
	Timestamp string          `json:"timestamp"`
	Stream    string          `json:"stream,omitempty"`
	Answers   json.RawMessage `json:"answers,omitempty"`
}

// Answer pairs a question identifier with its raw response value.
type Answer struct {
	QuestionID string
	Value      json.RawMessage
}

// NormalizedRow is the flat tabular form of one ping: fixed metadata
// fields plus discovered question columns mapped to scalar cell values.
type NormalizedRow struct {
	SubjectID string
	PingID    string
	Timestamp string
	Values    map[string]string
}

// Cell returns the value for a column name, metadata columns included.
// Unknown columns yield an empty cell.
func (r NormalizedRow) Cell(column string) string {
	switch column {
	case ColumnSubjectID:
		return r.SubjectID
	case ColumnPingID:
		return r.PingID
	case ColumnTimestamp:
		return r.Timestamp
	default:
		return r.Values[column]
	}
}

// IssueSeverity classifies a parsing issue.
type IssueSeverity string

const (
	// SeverityTolerable marks defects that are logged but do not
	// remove the affected row or subject from output.
	SeverityTolerable IssueSeverity = "tolerable"
	// SeverityExistential marks defects that make the subject's data
	// untrustworthy for this run; the subject is quarantined.
	SeverityExistential IssueSeverity = "existential"
)

// ParsingIssue records one data defect found during normalization.
type ParsingIssue struct {
	Severity    IssueSeverity
	SubjectID   string
	PingID      string
	Description string
}

func (i ParsingIssue) String() string {
	ping := i.PingID
	if ping == "" {
		ping = "-"
	}
	return fmt.Sprintf("[%s] subject=%s ping=%s: %s", i.Severity, i.SubjectID, ping, i.Description)
}

// SubjectResult is the normalizer's tagged output for one subject:
// the rows that could be built, every issue found, and the subject's
// verbatim raw payload for possible quarantine.
type SubjectResult struct {
	SubjectID string
	Rows      []NormalizedRow
	// Columns lists the discovered columns in first-seen order within
	// this subject, so the output header stays deterministic.
	Columns []string
	Issues  []ParsingIssue
	Raw     json.RawMessage
}

// HasExistential reports whether any issue is severe enough to
// quarantine the subject.
func (s SubjectResult) HasExistential() bool {
	for _, issue := range s.Issues {
		if issue.Severity == SeverityExistential {
			return true
		}
	}
	return false
}

// TolerableIssues returns the issues that only need logging.
func (s SubjectResult) TolerableIssues() []ParsingIssue {
	var out []ParsingIssue
	for _, issue := range s.Issues {
		if issue.Severity == SeverityTolerable {
			out = append(out, issue)
		}
	}
	return out
}

// ColumnSet tracks discovered question columns in first-seen order so
// header ordering is stable across runs of the same input.
type ColumnSet struct {
	order []string
	seen  map[string]bool
}

// NewColumnSet creates an empty column registry.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{seen: make(map[string]bool)}
}

// Add registers a column if it has not been seen yet.
func (c *ColumnSet) Add(column string) {
	if c.seen[column] {
		return
	}
	c.seen[column] = true
	c.order = append(c.order, column)
}

// Header returns the full output header: fixed metadata columns first,
// then discovered columns in first-seen order.
func (c *ColumnSet) Header() []string {
	header := MetadataColumns()
	return append(header, c.order...)
}

// Discovered returns only the dynamic columns, in first-seen order.
func (c *ColumnSet) Discovered() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
