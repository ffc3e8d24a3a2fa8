package xlsx

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"github.com/SzymonZur/cwr-generator/pkg/domain/interfaces"
	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
)

const (
	sheetName = "CreativeTime"

	// The project table starts at row 7; each project occupies 3 rows
	// (value row plus the two liability rows below it).
	firstProjectRow = 7
	rowsPerProject  = 3

	headerDateFormat = "02 01 2006"
)

type writer struct {
	templatePath string
}

// NewWriter creates the spreadsheet writer. templatePath may be empty, in
// which case the CreativeTime sheet scaffold is built from scratch.
func NewWriter(templatePath string) interfaces.ReportWriter {
	return &writer{templatePath: templatePath}
}

// Write renders the report and saves it at report.OutputPath.
func (w *writer) Write(ctx context.Context, report *model.Report) error {
	logger := ctxlog.From(ctx)

	f, err := w.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close workbook", "error", err)
		}
	}()

	if err := w.writeHeader(f, report.Meta); err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			WrapText:   true,
			Vertical:   "top",
			Horizontal: "left",
		},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create cell style")
	}

	row := firstProjectRow
	for _, entry := range report.Rows {
		if err := w.writeProject(f, row, entry, wrapStyle); err != nil {
			return err
		}
		row += rowsPerProject
	}

	if err := f.SaveAs(report.OutputPath); err != nil {
		return goerr.Wrap(err, "failed to save report",
			goerr.V("path", report.OutputPath), goerr.T(types.ErrTagWrite))
	}

	logger.Info("report saved", "path", report.OutputPath, "projects", len(report.Rows))
	return nil
}

func (w *writer) open() (*excelize.File, error) {
	if w.templatePath == "" {
		return w.scaffold()
	}

	f, err := excelize.OpenFile(w.templatePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open report template",
			goerr.V("path", w.templatePath), goerr.T(types.ErrTagConfig))
	}

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		_ = f.Close()
		return nil, goerr.New("report template is missing the CreativeTime sheet",
			goerr.V("path", w.templatePath), goerr.T(types.ErrTagConfig))
	}
	return f, nil
}

// scaffold builds the CreativeTime sheet layout when no template is given.
func (w *writer) scaffold() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, goerr.Wrap(err, "failed to name report sheet")
	}

	labels := map[string]string{
		"A1": "Creative Work Report",
		"C4": "Report Period:",
		"E4": "to",
		"A6": "No.",
		"B6": "Project Name",
		"C6": "Creative Works Details",
		"D6": "Liability Calculation",
		"E6": "Value",
		"F6": "Final Liability",
		"G6": "Approver / Date of Approval",
		"H6": "Technical Summary",
	}
	for cell, value := range labels {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return nil, goerr.Wrap(err, "failed to write sheet label", goerr.V("cell", cell))
		}
	}

	widths := []struct {
		start, end string
		width      float64
	}{
		{"A", "A", 6},
		{"B", "B", 28},
		{"C", "C", 60},
		{"D", "D", 32},
		{"E", "G", 16},
		{"H", "H", 40},
	}
	for _, col := range widths {
		if err := f.SetColWidth(sheetName, col.start, col.end, col.width); err != nil {
			return nil, goerr.Wrap(err, "failed to set column width")
		}
	}

	return f, nil
}

func (w *writer) writeHeader(f *excelize.File, meta model.ReportMeta) error {
	start := time.Date(meta.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(meta.Year, time.December, 31, 0, 0, 0, 0, time.UTC)

	cells := map[string]any{
		"A2": meta.EmployeeName,
		"A3": meta.CompanyName,
		"D4": start.Format(headerDateFormat),
		"F4": end.Format(headerDateFormat),
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return goerr.Wrap(err, "failed to write header cell", goerr.V("cell", cell))
		}
	}
	return nil
}

// writeProject fills the three rows of one project entry.
func (w *writer) writeProject(f *excelize.File, row int, entry model.ReportRow, wrapStyle int) error {
	set := func(cell string, value any) error {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return goerr.Wrap(err, "failed to write project cell", goerr.V("cell", cell))
		}
		return nil
	}

	main := row
	second := row + 1
	third := row + 2

	values := []struct {
		cell  string
		value any
	}{
		{fmt.Sprintf("A%d", main), entry.Number},
		{fmt.Sprintf("B%d", main), entry.ProjectName},
		{fmt.Sprintf("C%d", main), entry.CreativeWorkDetails},
		{fmt.Sprintf("D%d", main), "Contracted Time for Project"},
		{fmt.Sprintf("G%d", main), "Name of Approver"},
		{fmt.Sprintf("H%d", main), entry.TechnicalSummary},
		{fmt.Sprintf("D%d", second), "Non-Creative Time Spent on Project"},
		{fmt.Sprintf("D%d", third), "CTD allocation per EA Addendum"},
		{fmt.Sprintf("E%d", third), entry.CTDAllocation},
		{fmt.Sprintf("G%d", third), "Double click for Date"},
	}
	for _, v := range values {
		if err := set(v.cell, v.value); err != nil {
			return err
		}
	}

	// Zero hours means "leave blank for manual entry".
	if entry.ContractedHours > 0 {
		if err := set(fmt.Sprintf("E%d", main), entry.ContractedHours); err != nil {
			return err
		}
	}

	formula := fmt.Sprintf("(E%d-E%d)*E%d", main, second, third)
	if err := f.SetCellFormula(sheetName, fmt.Sprintf("F%d", main), formula); err != nil {
		return goerr.Wrap(err, "failed to write liability formula", goerr.V("row", main))
	}

	// A, B, C, F and H span all three rows of the entry.
	for _, col := range []string{"A", "B", "C", "F", "H"} {
		if err := f.MergeCell(sheetName,
			fmt.Sprintf("%s%d", col, main),
			fmt.Sprintf("%s%d", col, third)); err != nil {
			return goerr.Wrap(err, "failed to merge project cells", goerr.V("column", col))
		}
	}

	for _, cell := range []string{fmt.Sprintf("B%d", main), fmt.Sprintf("C%d", main), fmt.Sprintf("H%d", main)} {
		if err := f.SetCellStyle(sheetName, cell, cell, wrapStyle); err != nil {
			return goerr.Wrap(err, "failed to style project cell", goerr.V("cell", cell))
		}
	}

	return nil
}
