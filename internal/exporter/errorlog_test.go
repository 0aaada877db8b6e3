package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emaparse/pkg/contracts/domain"
)

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error-log.txt")

	issues := []domain.ParsingIssue{
		{Severity: domain.SeverityTolerable, SubjectID: "S1", PingID: "p1", Description: "missing timestamp"},
		{Severity: domain.SeverityTolerable, SubjectID: "S2", Description: "subject has no pings"},
	}

	require.NoError(t, WriteErrorLog(path, issues))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[tolerable] subject=S1 ping=p1: missing timestamp", lines[0])
	assert.Equal(t, "[tolerable] subject=S2 ping=-: subject has no pings", lines[1])
}

func TestWriteErrorLog_EmptyRunStillCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error-log.txt")

	require.NoError(t, WriteErrorLog(path, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}
