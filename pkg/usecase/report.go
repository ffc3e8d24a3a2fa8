package usecase

import (
	"context"
	"sort"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/SzymonZur/cwr-generator/pkg/domain/interfaces"
	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
)

// Rough time attribution used to prefill the liability columns; actual
// values are expected to be adjusted by hand before submission.
const (
	hoursPerCommit       = 3.0
	defaultCTDAllocation = 0.75
)

// ReportUseCase drives the pipeline from commit collection to the final
// spreadsheet. Data flows strictly forward through the collaborators.
type ReportUseCase struct {
	commits interfaces.CommitCollector
	tickets interfaces.TicketCollector
	summary interfaces.SummaryProducer
	writer  interfaces.ReportWriter
}

// NewReport creates the report use case from its collaborators.
func NewReport(
	commits interfaces.CommitCollector,
	tickets interfaces.TicketCollector,
	summary interfaces.SummaryProducer,
	writer interfaces.ReportWriter,
) *ReportUseCase {
	return &ReportUseCase{
		commits: commits,
		tickets: tickets,
		summary: summary,
		writer:  writer,
	}
}

// GenerateInput carries the run parameters.
type GenerateInput struct {
	Year         int
	Filter       *model.RepoFilter
	OutputPath   string
	CompanyName  string
	EmployeeName string // optional override of the source-control profile name
}

// GenerateStats summarizes run completeness so a human can judge whether
// the report covers everything.
type GenerateStats struct {
	Employee        string
	Commits         int
	UnlinkedCommits int
	TicketKeys      int
	ResolvedTickets int
	UnresolvedKeys  []string
	SkippedRepos    []string
	Projects        int
	OutputPath      string
}

// Generate runs the whole pipeline and writes the spreadsheet.
func (uc *ReportUseCase) Generate(ctx context.Context, input *GenerateInput) (*GenerateStats, error) {
	logger := ctxlog.From(ctx)

	user, err := uc.commits.AuthenticatedUser(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve authenticated user")
	}

	employee := input.EmployeeName
	if employee == "" {
		employee = user.DisplayName()
	}

	logger.Info("collecting commits",
		"year", input.Year,
		"user", user.Login,
		"filter_rule", input.Filter.Rule().String(),
	)

	collection, err := uc.commits.CollectCommits(ctx, input.Year, input.Filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect commits")
	}
	if len(collection.SkippedRepositories) > 0 {
		logger.Warn("some repositories could not be read",
			"count", len(collection.SkippedRepositories),
			"repositories", collection.SkippedRepositories,
		)
	}
	logger.Info("commits collected", "count", len(collection.Commits))

	keys := collectTicketKeys(collection.Commits)
	logger.Info("extracted ticket keys", "count", len(keys))

	tickets := map[string]model.TicketDetail{}
	if len(keys) > 0 {
		tickets, err = uc.tickets.FetchTickets(ctx, keys)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch tickets")
		}
	}

	var unresolved []string
	for _, key := range keys {
		if _, ok := tickets[key]; !ok {
			unresolved = append(unresolved, key)
		}
	}
	if len(unresolved) > 0 {
		logger.Warn("some ticket keys did not resolve",
			"count", len(unresolved),
			"keys", unresolved,
		)
	}

	grouped := GroupByProject(collection.Commits, tickets)
	if len(grouped.Unlinked) > 0 {
		logger.Warn("commits without ticket references are excluded from project entries",
			"count", len(grouped.Unlinked),
		)
	}
	logger.Info("grouped commits into projects", "projects", len(grouped.Projects))

	uc.resolveProjectNames(ctx, grouped)

	projectKeys := grouped.SortedKeys()
	rows := make([]model.ReportRow, 0, len(projectKeys))
	for i, key := range projectKeys {
		agg := grouped.Projects[key]
		logger.Info("generating project summary",
			"project", key,
			"index", i+1,
			"total", len(projectKeys),
		)
		summary := uc.summary.ProduceSummary(ctx, agg)

		rows = append(rows, model.ReportRow{
			Number:              i + 1,
			ProjectName:         agg.DisplayName(),
			CreativeWorkDetails: summary.CreativeWorkDetails,
			TechnicalSummary:    summary.TechnicalSummary,
			ContractedHours:     float64(len(agg.Commits)) * hoursPerCommit,
			CTDAllocation:       defaultCTDAllocation,
		})
	}

	report := &model.Report{
		Meta: model.ReportMeta{
			EmployeeName: employee,
			CompanyName:  input.CompanyName,
			Year:         input.Year,
		},
		Rows:       rows,
		OutputPath: input.OutputPath,
	}

	if err := uc.writer.Write(ctx, report); err != nil {
		return nil, goerr.Wrap(err, "failed to write report", goerr.T(types.ErrTagWrite))
	}

	stats := &GenerateStats{
		Employee:        employee,
		Commits:         len(collection.Commits),
		UnlinkedCommits: len(grouped.Unlinked),
		TicketKeys:      len(keys),
		ResolvedTickets: len(tickets),
		UnresolvedKeys:  unresolved,
		SkippedRepos:    collection.SkippedRepositories,
		Projects:        len(rows),
		OutputPath:      input.OutputPath,
	}

	logger.Info("report generated",
		"output", stats.OutputPath,
		"projects", stats.Projects,
		"commits", stats.Commits,
		"unlinked_commits", stats.UnlinkedCommits,
		"unresolved_keys", len(stats.UnresolvedKeys),
		"skipped_repositories", len(stats.SkippedRepos),
	)

	return stats, nil
}

// resolveProjectNames fills in tracker project names for aggregates whose
// tickets did not resolve. Lookup failures degrade to the project key.
func (uc *ReportUseCase) resolveProjectNames(ctx context.Context, grouped *GroupResult) {
	logger := ctxlog.From(ctx)

	for _, key := range grouped.SortedKeys() {
		agg := grouped.Projects[key]
		if agg.ProjectName != "" {
			continue
		}

		info, err := uc.tickets.ProjectInfo(ctx, agg.ProjectKey)
		if err != nil {
			logger.Warn("failed to resolve project name", "project", agg.ProjectKey, "error", err)
			continue
		}
		if info != nil && info.Name != "" {
			agg.ProjectName = info.Name
		}
	}
}

// collectTicketKeys returns the sorted, de-duplicated union of ticket keys
// across all commit messages.
func collectTicketKeys(commits []model.CommitRecord) []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, commit := range commits {
		for _, key := range model.ExtractTicketKeys(commit.Message) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
