package model

// ReportMeta is the header metadata of the spreadsheet.
type ReportMeta struct {
	EmployeeName string
	CompanyName  string
	Year         int
}

// ReportRow is one project entry in the spreadsheet.
type ReportRow struct {
	Number              int
	ProjectName         string
	CreativeWorkDetails string
	TechnicalSummary    string
	ContractedHours     float64 // 0 leaves the cell blank for manual entry
	CTDAllocation       float64
}

// Report is everything the writer needs to render the spreadsheet.
type Report struct {
	Meta       ReportMeta
	Rows       []ReportRow
	OutputPath string
}
