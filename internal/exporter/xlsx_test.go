package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"emaparse/pkg/contracts/domain"
)

func TestWriteCompositeExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_subjects.xlsx")

	header := []string{"subject_id", "ping_id", "timestamp", "q1"}
	rows := []domain.NormalizedRow{
		sampleRow("S1", "p1", map[string]string{"q1": "yes"}),
		sampleRow("S2", "p2", map[string]string{}),
	}

	require.NoError(t, WriteCompositeExcel(path, header, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(compositeSheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, header, got[0])
	assert.Equal(t, []string{"S1", "p1", "2021-01-01T00:00:00Z", "yes"}, got[1])
	// Trailing empty cells may be trimmed by the reader; the metadata
	// columns must still match.
	assert.Equal(t, []string{"S2", "p2", "2021-01-01T00:00:00Z"}, got[2][:3])
}
