package usecase

import (
	"sort"

	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
)

// GroupResult is the outcome of grouping commits by project key.
type GroupResult struct {
	Projects map[string]*model.ProjectAggregate
	Unlinked []model.CommitRecord // commits with no ticket reference
}

// SortedKeys returns the project keys in lexical order.
func (r *GroupResult) SortedKeys() []string {
	keys := make([]string, 0, len(r.Projects))
	for key := range r.Projects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GroupByProject folds commits into per-project aggregates. Commits are
// deduplicated by SHA first; a commit referencing keys from several
// projects joins each of them. Commits without any ticket key are tallied
// in Unlinked instead of joining an aggregate. Each aggregate's commit
// sequence ends up chronological by author date, with fetch order breaking
// ties, and ticket details are attached to the aggregate whose key
// referenced them.
func GroupByProject(commits []model.CommitRecord, tickets map[string]model.TicketDetail) *GroupResult {
	result := &GroupResult{Projects: make(map[string]*model.ProjectAggregate)}

	seen := make(map[string]struct{}, len(commits))
	for _, commit := range commits {
		if _, dup := seen[commit.SHA]; dup {
			continue
		}
		seen[commit.SHA] = struct{}{}

		keys := model.ExtractTicketKeys(commit.Message)
		if len(keys) == 0 {
			result.Unlinked = append(result.Unlinked, commit)
			continue
		}

		joined := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			projectKey := model.ProjectKeyOf(key)

			agg := result.Projects[projectKey]
			if agg == nil {
				agg = &model.ProjectAggregate{ProjectKey: projectKey}
				result.Projects[projectKey] = agg
			}

			agg.TicketKeys = insertKey(agg.TicketKeys, key)
			if _, ok := joined[projectKey]; !ok {
				joined[projectKey] = struct{}{}
				agg.Commits = append(agg.Commits, commit)
			}
		}
	}

	for _, agg := range result.Projects {
		sort.SliceStable(agg.Commits, func(i, j int) bool {
			return agg.Commits[i].AuthorDate.Before(agg.Commits[j].AuthorDate)
		})

		for _, key := range agg.TicketKeys {
			detail, ok := tickets[key]
			if !ok {
				continue
			}
			// The PROJECT segment of the referencing key is the grouping
			// unit, even if the tracker reports a different project.
			detail.ProjectKey = agg.ProjectKey
			if detail.ProjectName != "" {
				agg.ProjectName = detail.ProjectName
			}
			agg.Tickets = append(agg.Tickets, detail)
		}
	}

	return result
}

// insertKey adds key to the sorted set if absent.
func insertKey(keys []string, key string) []string {
	i := sort.SearchStrings(keys, key)
	if i < len(keys) && keys[i] == key {
		return keys
	}
	keys = append(keys, "")
	copy(keys[i+1:], keys[i:])
	keys[i] = key
	return keys
}
