package config

import "github.com/urfave/cli/v3"

// Jira holds issue-tracker access configuration
type Jira struct {
	URL      string `toml:"url"`
	Email    string `toml:"email"`
	APIToken string `toml:"api_token" masq:"secret"`
}

// Flags returns CLI flags for Jira configuration
func (c *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-url",
			Usage:       "Jira instance URL (e.g. https://company.atlassian.net)",
			Destination: &c.URL,
			Sources:     cli.EnvVars("CWR_JIRA_URL", "JIRA_URL"),
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Jira account email",
			Destination: &c.Email,
			Sources:     cli.EnvVars("CWR_JIRA_EMAIL", "JIRA_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "jira-token",
			Usage:       "Jira API token",
			Destination: &c.APIToken,
			Sources:     cli.EnvVars("CWR_JIRA_TOKEN", "JIRA_API_TOKEN"),
		},
	}
}
