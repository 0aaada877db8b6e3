package files

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveName(t *testing.T) {
	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "EMA_Responses_Aug_26_2026.tar.gz", ArchiveName(now))
}

func TestCreateArchive(t *testing.T) {
	sourceDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "Subjects"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "all_subjects.csv"), []byte("header\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "Subjects", "S1.csv"), []byte("row\n"), 0644))

	// Archive lives inside the source dir and must not include itself.
	archivePath := filepath.Join(sourceDir, "bundle.tar.gz")
	require.NoError(t, CreateArchive(sourceDir, archivePath, "EMA_Responses"))

	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	contents := make(map[string]string)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		contents[header.Name] = string(data)
	}

	sort.Strings(names)
	assert.Equal(t, []string{
		"EMA_Responses/Subjects/S1.csv",
		"EMA_Responses/all_subjects.csv",
	}, names)
	assert.Equal(t, "header\n", contents["EMA_Responses/all_subjects.csv"])
}
