package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
	"github.com/SzymonZur/cwr-generator/pkg/usecase"
)

type stubCollector struct {
	user       *model.UserInfo
	userErr    error
	collection *model.CommitCollection
	collectErr error
}

func (s *stubCollector) AuthenticatedUser(context.Context) (*model.UserInfo, error) {
	return s.user, s.userErr
}

func (s *stubCollector) CollectCommits(context.Context, int, *model.RepoFilter) (*model.CommitCollection, error) {
	return s.collection, s.collectErr
}

type stubTickets struct {
	tickets  map[string]model.TicketDetail
	fetchErr error
	projects map[string]*model.ProjectInfo
}

func (s *stubTickets) FetchTickets(_ context.Context, keys []string) (map[string]model.TicketDetail, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make(map[string]model.TicketDetail, len(keys))
	for _, key := range keys {
		if detail, ok := s.tickets[key]; ok {
			out[key] = detail
		}
	}
	return out, nil
}

func (s *stubTickets) ProjectInfo(_ context.Context, projectKey string) (*model.ProjectInfo, error) {
	return s.projects[projectKey], nil
}

type captureWriter struct {
	report *model.Report
	err    error
}

func (w *captureWriter) Write(_ context.Context, report *model.Report) error {
	if w.err != nil {
		return w.err
	}
	w.report = report
	return nil
}

func TestReportGenerate(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	newCollector := func() *stubCollector {
		return &stubCollector{
			user: &model.UserInfo{Login: "szymon", Name: "Szymon Zur"},
			collection: &model.CommitCollection{
				Commits: []model.CommitRecord{
					commitAt("r1", "FUI-1 rework sidebar", base),
					commitAt("r2", "FUI-2 polish header", base.Add(time.Hour)),
					commitAt("r3", "BK-9 tune indexes", base.Add(2*time.Hour)),
					commitAt("r4", "bump deps", base.Add(3*time.Hour)),
				},
			},
		}
	}

	tickets := &stubTickets{
		tickets: map[string]model.TicketDetail{
			"FUI-1": {Key: "FUI-1", ProjectKey: "FUI", ProjectName: "Frontend UI", Summary: "Rework sidebar"},
			"BK-9":  {Key: "BK-9", ProjectKey: "BK", ProjectName: "Backend", Summary: "Tune indexes"},
		},
		projects: map[string]*model.ProjectInfo{},
	}

	t.Run("full pipeline", func(t *testing.T) {
		writer := &captureWriter{}
		uc := usecase.NewReport(newCollector(), tickets, usecase.NewRuleSummarizer(), writer)

		stats, err := uc.Generate(ctx, &usecase.GenerateInput{
			Year:        2025,
			Filter:      model.NewRepoFilter(nil, nil),
			OutputPath:  "report_2025.xlsx",
			CompanyName: "Acme Sp. z o.o.",
		})
		gt.NoError(t, err)

		gt.Value(t, stats.Employee).Equal("Szymon Zur")
		gt.Value(t, stats.Commits).Equal(4)
		gt.Value(t, stats.UnlinkedCommits).Equal(1)
		gt.Value(t, stats.TicketKeys).Equal(3)
		gt.Value(t, stats.ResolvedTickets).Equal(2)
		gt.Value(t, stats.UnresolvedKeys).Equal([]string{"FUI-2"})
		gt.Value(t, stats.Projects).Equal(2)
		gt.Value(t, stats.OutputPath).Equal("report_2025.xlsx")

		gt.Value(t, writer.report).NotNil()
		gt.Value(t, writer.report.Meta.EmployeeName).Equal("Szymon Zur")
		gt.Value(t, writer.report.Meta.CompanyName).Equal("Acme Sp. z o.o.")
		gt.Value(t, writer.report.Meta.Year).Equal(2025)

		gt.Value(t, len(writer.report.Rows)).Equal(2)
		gt.Value(t, writer.report.Rows[0].Number).Equal(1)
		gt.Value(t, writer.report.Rows[0].ProjectName).Equal("Backend")
		gt.Value(t, writer.report.Rows[1].ProjectName).Equal("Frontend UI")
		gt.Value(t, writer.report.Rows[1].ContractedHours).Equal(6.0)
		gt.Value(t, writer.report.Rows[1].CTDAllocation).Equal(0.75)
	})

	t.Run("employee name override", func(t *testing.T) {
		writer := &captureWriter{}
		uc := usecase.NewReport(newCollector(), tickets, usecase.NewRuleSummarizer(), writer)

		stats, err := uc.Generate(ctx, &usecase.GenerateInput{
			Year:         2025,
			Filter:       model.NewRepoFilter(nil, nil),
			OutputPath:   "out.xlsx",
			EmployeeName: "Jan Kowalski",
		})
		gt.NoError(t, err)
		gt.Value(t, stats.Employee).Equal("Jan Kowalski")
	})

	t.Run("project name resolved from tracker when no ticket carries it", func(t *testing.T) {
		collector := newCollector()
		collector.collection.Commits = []model.CommitRecord{
			commitAt("p1", "OPS-3 rotate keys", base),
		}
		lookups := &stubTickets{
			tickets:  map[string]model.TicketDetail{},
			projects: map[string]*model.ProjectInfo{"OPS": {Key: "OPS", Name: "Operations"}},
		}
		writer := &captureWriter{}
		uc := usecase.NewReport(collector, lookups, usecase.NewRuleSummarizer(), writer)

		_, err := uc.Generate(ctx, &usecase.GenerateInput{
			Year:       2025,
			Filter:     model.NewRepoFilter(nil, nil),
			OutputPath: "out.xlsx",
		})
		gt.NoError(t, err)
		gt.Value(t, writer.report.Rows[0].ProjectName).Equal("Operations")
	})

	t.Run("user resolution failure aborts", func(t *testing.T) {
		collector := &stubCollector{userErr: errors.New("bad credentials")}
		uc := usecase.NewReport(collector, tickets, usecase.NewRuleSummarizer(), &captureWriter{})

		_, err := uc.Generate(ctx, &usecase.GenerateInput{
			Year:   2025,
			Filter: model.NewRepoFilter(nil, nil),
		})
		gt.Error(t, err)
	})

	t.Run("ticket fetch failure aborts", func(t *testing.T) {
		uc := usecase.NewReport(newCollector(), &stubTickets{fetchErr: errors.New("jira down")},
			usecase.NewRuleSummarizer(), &captureWriter{})

		_, err := uc.Generate(ctx, &usecase.GenerateInput{
			Year:   2025,
			Filter: model.NewRepoFilter(nil, nil),
		})
		gt.Error(t, err)
	})

	t.Run("write failure carries write tag", func(t *testing.T) {
		writer := &captureWriter{err: errors.New("disk full")}
		uc := usecase.NewReport(newCollector(), tickets, usecase.NewRuleSummarizer(), writer)

		_, err := uc.Generate(ctx, &usecase.GenerateInput{
			Year:       2025,
			Filter:     model.NewRepoFilter(nil, nil),
			OutputPath: "out.xlsx",
		})
		gt.Error(t, err)
		gt.Value(t, goerr.HasTag(err, types.ErrTagWrite)).Equal(true)
	})
}
