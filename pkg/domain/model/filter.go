package model

import (
	"strings"

	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FilterRule identifies which filtering rule a RepoFilter applies.
type FilterRule int

const (
	// RuleNone includes every repository.
	RuleNone FilterRule = iota
	// RuleRepositories matches against the repository list; a non-empty
	// repository list silently disables the organization list.
	RuleRepositories
	// RuleOrganizations matches the owning organization.
	RuleOrganizations
)

func (r FilterRule) String() string {
	switch r {
	case RuleRepositories:
		return "repositories"
	case RuleOrganizations:
		return "organizations"
	default:
		return "none"
	}
}

// RepoFilter decides which repositories contribute commits. Entries are
// normalized to lower case at construction and the filter is immutable
// afterwards.
type RepoFilter struct {
	organizations []string
	repositories  []string
}

// NewRepoFilter builds a filter from organization names and repository
// entries ("org/repo" or bare "repo"). Blank entries are dropped.
func NewRepoFilter(organizations, repositories []string) *RepoFilter {
	return &RepoFilter{
		organizations: normalizeEntries(organizations),
		repositories:  normalizeEntries(repositories),
	}
}

func normalizeEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Organizations returns the normalized organization entries.
func (f *RepoFilter) Organizations() []string { return f.organizations }

// Repositories returns the normalized repository entries.
func (f *RepoFilter) Repositories() []string { return f.repositories }

// Rule returns the single rule in effect. Repositories take precedence
// over organizations; an empty filter includes everything.
func (f *RepoFilter) Rule() FilterRule {
	switch {
	case len(f.repositories) > 0:
		return RuleRepositories
	case len(f.organizations) > 0:
		return RuleOrganizations
	default:
		return RuleNone
	}
}

// Match reports whether the repository (full name "org/repo") is included.
// The predicate is pure: same inputs, same answer.
func (f *RepoFilter) Match(fullName string) bool {
	name := strings.ToLower(fullName)
	org, bare := splitFullName(name)

	switch f.Rule() {
	case RuleRepositories:
		for _, entry := range f.repositories {
			if strings.Contains(entry, "/") {
				if entry == name {
					return true
				}
			} else if entry == bare {
				return true
			}
		}
		return false

	case RuleOrganizations:
		for _, o := range f.organizations {
			if o == org {
				return true
			}
		}
		return false

	default:
		return true
	}
}

// Validate rejects malformed filter entries before any network call.
func (f *RepoFilter) Validate() error {
	for _, entry := range f.repositories {
		if strings.Count(entry, "/") > 1 ||
			strings.HasPrefix(entry, "/") || strings.HasSuffix(entry, "/") {
			return goerr.New("invalid repository filter entry, expected \"org/repo\" or \"repo\"",
				goerr.V("entry", entry), goerr.T(types.ErrTagConfig))
		}
	}
	for _, org := range f.organizations {
		if strings.Contains(org, "/") {
			return goerr.New("invalid organization filter entry, expected a bare organization name",
				goerr.V("entry", org), goerr.T(types.ErrTagConfig))
		}
	}
	return nil
}

func splitFullName(fullName string) (org, repo string) {
	if o, r, ok := strings.Cut(fullName, "/"); ok {
		return o, r
	}
	return "", fullName
}
