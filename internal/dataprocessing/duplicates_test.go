package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicateResponses(t *testing.T) {
	report := FindDuplicateResponses([]string{
		"alice-login2",
		"alice-login1",
		"bob-login1",
		"carol",
	})

	require.Len(t, report, 1)
	entry, ok := report["alice"]
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count)
	assert.Equal(t, []string{"alice-login1", "alice-login2"}, entry.Keys)
}

func TestFindDuplicateResponses_NoSeparator(t *testing.T) {
	report := FindDuplicateResponses([]string{"alice", "alice"})

	entry, ok := report["alice"]
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count)
}

func TestFindDuplicateResponses_Empty(t *testing.T) {
	assert.Empty(t, FindDuplicateResponses(nil))
	assert.Empty(t, FindDuplicateResponses([]string{"alice-1", "bob-1"}))
}
