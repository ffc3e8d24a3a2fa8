package model

import (
	"regexp"
	"sort"
	"strings"
)

// ticketKeyPattern matches Jira ticket keys such as FUI-12 or ABC123-7.
// The project segment starts with a letter and is at least two characters,
// and word boundaries keep keys embedded in longer tokens from matching.
var ticketKeyPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)

// ExtractTicketKeys returns the distinct ticket keys found in text,
// uppercased and sorted. Matching is case-insensitive and an empty or
// key-free message yields an empty result, never an error.
func ExtractTicketKeys(text string) []string {
	if text == "" {
		return nil
	}

	matches := ticketKeyPattern.FindAllString(strings.ToUpper(text), -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		keys = append(keys, m)
	}

	sort.Strings(keys)
	return keys
}

// ProjectKeyOf derives the project key from a ticket key ("FUI-12" -> "FUI").
func ProjectKeyOf(ticketKey string) string {
	if i := strings.LastIndex(ticketKey, "-"); i > 0 {
		return ticketKey[:i]
	}
	return ticketKey
}

// TicketDetail holds the issue-tracker fields used for grouping and
// summarization.
type TicketDetail struct {
	Key         string
	ProjectKey  string
	ProjectName string
	Summary     string
	Description string
	IssueType   string
	Status      string
	URL         string
}

// ProjectInfo is issue-tracker metadata for a project key.
type ProjectInfo struct {
	Key         string
	Name        string
	Description string
}
