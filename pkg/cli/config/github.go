package config

import "github.com/urfave/cli/v3"

// GitHub holds source-control access configuration
type GitHub struct {
	Token         string   `toml:"token" masq:"secret"`
	Organizations []string `toml:"organizations"`
	Repositories  []string `toml:"repositories"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token (needs repo scope for private repositories)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("CWR_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringSliceFlag{
			Name:        "organizations",
			Aliases:     []string{"org"},
			Usage:       "Only include repositories owned by these organizations (repeatable)",
			Destination: &c.Organizations,
			Sources:     cli.EnvVars("CWR_GITHUB_ORGANIZATIONS", "GITHUB_ORGANIZATIONS"),
		},
		&cli.StringSliceFlag{
			Name:        "repositories",
			Aliases:     []string{"repo"},
			Usage:       "Only include these repositories, as \"org/repo\" or bare \"repo\" (repeatable; takes precedence over --organizations)",
			Destination: &c.Repositories,
			Sources:     cli.EnvVars("CWR_GITHUB_REPOSITORIES", "GITHUB_REPOSITORIES"),
		},
	}
}
