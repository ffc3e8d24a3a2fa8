package config

import "github.com/urfave/cli/v3"

// OpenAI holds the optional language-model configuration. An empty API key
// selects the rule-based summarizer.
type OpenAI struct {
	APIKey          string `toml:"api_key" masq:"secret"`
	Model           string `toml:"model"`
	MaxSummaryChars int    `toml:"max_summary_chars"`
}

// Flags returns CLI flags for OpenAI configuration
func (c *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (optional; summaries fall back to rule-based text without it)",
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("CWR_OPENAI_API_KEY", "OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model for project summaries (default: " + defaultModel + ")",
			Destination: &c.Model,
			Sources:     cli.EnvVars("CWR_OPENAI_MODEL"),
		},
		&cli.IntFlag{
			Name:        "max-summary-chars",
			Usage:       "Maximum length of each generated summary field",
			Destination: &c.MaxSummaryChars,
			Sources:     cli.EnvVars("CWR_MAX_SUMMARY_CHARS"),
		},
	}
}

const (
	defaultModel           = "gpt-4o-mini"
	defaultMaxSummaryChars = 600
)

// Enabled reports whether a language-model credential is configured.
func (c *OpenAI) Enabled() bool {
	return c.APIKey != ""
}

// ResolvedModel returns the configured model or the default.
func (c *OpenAI) ResolvedModel() string {
	if c.Model == "" {
		return defaultModel
	}
	return c.Model
}

// ResolvedMaxSummaryChars returns the configured budget or the default.
func (c *OpenAI) ResolvedMaxSummaryChars() int {
	if c.MaxSummaryChars <= 0 {
		return defaultMaxSummaryChars
	}
	return c.MaxSummaryChars
}
