package model

import (
	"strings"
	"time"
)

// CommitRecord is a single commit fetched from the source-control host.
// Immutable once collected; downstream components only read it.
type CommitRecord struct {
	Repository string // full name, "org/repo"
	SHA        string
	Message    string
	Author     string
	AuthorDate time.Time
	URL        string
}

// FirstLine returns the subject line of the commit message.
func (c *CommitRecord) FirstLine() string {
	line, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(line)
}

// CommitCollection is the result of a commit collection run. Repositories
// that could not be read are listed in SkippedRepositories so the caller
// can judge completeness.
type CommitCollection struct {
	Commits             []CommitRecord
	SkippedRepositories []string
}
