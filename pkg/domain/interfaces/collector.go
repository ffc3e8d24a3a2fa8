package interfaces

import (
	"context"

	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
)

// CommitCollector obtains a user's commits from the source-control host.
type CommitCollector interface {
	// AuthenticatedUser returns the identity behind the configured credential.
	AuthenticatedUser(ctx context.Context) (*model.UserInfo, error)

	// CollectCommits returns every commit authored by the user within the
	// given calendar year across repositories accepted by the filter.
	// Repositories that cannot be read are skipped and recorded in the
	// collection; an entirely invalid credential is an error.
	CollectCommits(ctx context.Context, year int, filter *model.RepoFilter) (*model.CommitCollection, error)
}

// TicketCollector resolves ticket keys against the issue tracker.
type TicketCollector interface {
	// FetchTickets returns details for every resolvable key, keyed by
	// ticket key. Keys that do not resolve are dropped with a warning,
	// never an error; a partial result is a valid result.
	FetchTickets(ctx context.Context, keys []string) (map[string]model.TicketDetail, error)

	// ProjectInfo returns tracker metadata for a project key, or nil when
	// the project does not exist or is not accessible.
	ProjectInfo(ctx context.Context, projectKey string) (*model.ProjectInfo, error)
}
