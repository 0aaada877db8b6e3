package dataprocessing

import (
	"sort"
	"strings"
)

// DuplicateEntry records one username that submitted under more than
// one subject key (same participant, different login sessions).
type DuplicateEntry struct {
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

// DuplicateReport maps username to its duplicate submission keys.
type DuplicateReport map[string]DuplicateEntry

// FindDuplicateResponses groups subject keys of the form
// "username-login" by their username prefix and reports any username
// with more than one key. Keys without a separator count as their own
// username.
func FindDuplicateResponses(subjectIDs []string) DuplicateReport {
	byUser := make(map[string][]string)
	for _, id := range subjectIDs {
		username, _, _ := strings.Cut(id, "-")
		byUser[username] = append(byUser[username], id)
	}

	report := make(DuplicateReport)
	for username, keys := range byUser {
		if len(keys) < 2 {
			continue
		}
		sort.Strings(keys)
		report[username] = DuplicateEntry{Count: len(keys), Keys: keys}
	}
	return report
}
