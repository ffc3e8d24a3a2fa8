package config

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
)

// Report holds the output configuration
type Report struct {
	Year         int    `toml:"year"`
	Output       string `toml:"output"`
	CompanyName  string `toml:"company_name"`
	EmployeeName string `toml:"employee_name"`
	Template     string `toml:"template"`
}

// Flags returns CLI flags for report configuration
func (c *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "year",
			Usage:       "Year to fetch data for (default: current year)",
			Destination: &c.Year,
			Sources:     cli.EnvVars("CWR_YEAR"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (default: report_<year>.xlsx)",
			Destination: &c.Output,
			Sources:     cli.EnvVars("CWR_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "company-name",
			Usage:       "Company name for the report header",
			Destination: &c.CompanyName,
			Sources:     cli.EnvVars("CWR_COMPANY_NAME", "COMPANY_NAME"),
		},
		&cli.StringFlag{
			Name:        "employee-name",
			Usage:       "Employee name for the report header (default: GitHub profile name)",
			Destination: &c.EmployeeName,
			Sources:     cli.EnvVars("CWR_EMPLOYEE_NAME"),
		},
		&cli.StringFlag{
			Name:        "template",
			Usage:       "Path to an XLSX template with a CreativeTime sheet (optional)",
			Destination: &c.Template,
			Sources:     cli.EnvVars("CWR_TEMPLATE"),
		},
	}
}

// ResolvedYear returns the configured year, defaulting to the current one.
func (c *Report) ResolvedYear() int {
	if c.Year == 0 {
		return time.Now().Year()
	}
	return c.Year
}

// OutputPath returns the configured output path, defaulting to
// report_<year>.xlsx.
func (c *Report) OutputPath() string {
	if c.Output == "" {
		return fmt.Sprintf("report_%d.xlsx", c.ResolvedYear())
	}
	return c.Output
}
