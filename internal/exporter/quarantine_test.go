package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emaparse/internal/dataprocessing"
	"emaparse/pkg/contracts/domain"
)

func TestWriteQuarantine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parent-errors.json")

	raw := json.RawMessage(`[{"timestamp":"t","answers":{"q1":"yes"}}]`)
	quarantined := []domain.SubjectResult{
		{SubjectID: "S1", Raw: raw},
	}

	require.NoError(t, WriteQuarantine(path, quarantined))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Contains(t, decoded, "S1")

	// The quarantined payload must survive verbatim for a later
	// manual parse pass.
	assert.JSONEq(t, string(raw), string(decoded["S1"]))
}

func TestWriteDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response-duplicates.json")

	report := dataprocessing.DuplicateReport{
		"alice": {Count: 2, Keys: []string{"alice-1", "alice-2"}},
	}

	require.NoError(t, WriteDuplicates(path, report))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded dataprocessing.DuplicateReport
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, report, decoded)
}
