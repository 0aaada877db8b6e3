package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emaparse/internal/config"
	"emaparse/pkg/contracts/domain"
)

func newTestWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.OutputConfig{
		SubjectsSubdir: "Subjects",
		CompositeCSV:   "all_subjects.csv",
		CompositeXLSX:  "all_subjects.xlsx",
		QuarantineJSON: "parent-errors.json",
		DuplicatesJSON: "response-duplicates.json",
		ErrorLog:       "error-log.txt",
	})
	require.NoError(t, paths.EnsureDirectories())
	return NewCSVWriter(paths), paths
}

func sampleRow(subjectID, pingID string, values map[string]string) domain.NormalizedRow {
	return domain.NormalizedRow{
		SubjectID: subjectID,
		PingID:    pingID,
		Timestamp: "2021-01-01T00:00:00Z",
		Values:    values,
	}
}

func TestWriteComposite(t *testing.T) {
	w, paths := newTestWriter(t)

	header := []string{"subject_id", "ping_id", "timestamp", "q1", "q2"}
	rows := []domain.NormalizedRow{
		sampleRow("S1", "p1", map[string]string{"q1": "yes"}),
		sampleRow("S2", "p1", map[string]string{"q1": "no", "q2": "maybe"}),
	}

	require.NoError(t, w.WriteComposite(header, rows))

	content, err := os.ReadFile(paths.CompositeCSV)
	require.NoError(t, err)

	// BOM then header, then rows; missing q2 for S1 is an empty cell.
	assert.Equal(t, "\xEF\xBB\xBF"+
		"subject_id,ping_id,timestamp,q1,q2\n"+
		"S1,p1,2021-01-01T00:00:00Z,yes,\n"+
		"S2,p1,2021-01-01T00:00:00Z,no,maybe\n",
		string(content))
}

func TestWriteSubject(t *testing.T) {
	w, paths := newTestWriter(t)

	result := domain.SubjectResult{
		SubjectID: "S1",
		Rows:      []domain.NormalizedRow{sampleRow("S1", "p1", map[string]string{"q1": "yes"})},
	}

	path, err := w.WriteSubject(result, []string{"subject_id", "ping_id", "timestamp", "q1"})
	require.NoError(t, err)
	assert.Equal(t, paths.GetSubjectCSVPath("S1.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "S1,p1,2021-01-01T00:00:00Z,yes")
}

func TestWriteSubject_FilenameCollision(t *testing.T) {
	w, _ := newTestWriter(t)

	header := []string{"subject_id", "ping_id", "timestamp"}
	first := domain.SubjectResult{SubjectID: "alice:1", Rows: []domain.NormalizedRow{sampleRow("alice:1", "p1", nil)}}
	second := domain.SubjectResult{SubjectID: "alice*1", Rows: []domain.NormalizedRow{sampleRow("alice*1", "p1", nil)}}

	firstPath, err := w.WriteSubject(first, header)
	require.NoError(t, err)
	secondPath, err := w.WriteSubject(second, header)
	require.NoError(t, err)

	// Both sanitize to alice_1; the second gets a distinct file.
	assert.Equal(t, "alice_1.csv", filepath.Base(firstPath))
	assert.Equal(t, "alice_1_b.csv", filepath.Base(secondPath))
}

func TestWriteCSV_UnwritablePath(t *testing.T) {
	w, _ := newTestWriter(t)

	err := w.WriteCSV(string([]byte{0}), WriteOptions{Headers: []string{"a"}})

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"S1", "S1"},
		{"a/b\\c", "a_b_c"},
		{"  spaced  ", "spaced"},
		{"", "subject"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}
