package interfaces

import (
	"context"

	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
)

// SummaryProducer turns a project aggregate into report prose. It is
// total: implementations recover internally and always return a usable
// summary, never an error.
type SummaryProducer interface {
	ProduceSummary(ctx context.Context, agg *model.ProjectAggregate) *model.ProjectSummary
}

// ReportWriter renders the final spreadsheet.
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}
