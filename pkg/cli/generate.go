package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"

	"github.com/SzymonZur/cwr-generator/pkg/cli/config"
	"github.com/SzymonZur/cwr-generator/pkg/domain/interfaces"
	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/infra/github"
	"github.com/SzymonZur/cwr-generator/pkg/infra/jira"
	"github.com/SzymonZur/cwr-generator/pkg/infra/xlsx"
	"github.com/SzymonZur/cwr-generator/pkg/usecase"
)

func cmdGenerate() *cli.Command {
	var (
		githubCfg  config.GitHub
		jiraCfg    config.Jira
		openaiCfg  config.OpenAI
		reportCfg  config.Report
		configPath string
	)

	flags := append(githubCfg.Flags(), jiraCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, reportCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "config",
		Usage:       "Path to TOML config file",
		Destination: &configPath,
		Sources:     cli.EnvVars("CWR_CONFIG"),
	})

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate the Creative Work Report spreadsheet",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if configPath != "" {
				file, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				file.Merge(&githubCfg, &jiraCfg, &openaiCfg, &reportCfg)
			}

			filter := model.NewRepoFilter(githubCfg.Organizations, githubCfg.Repositories)
			if err := filter.Validate(); err != nil {
				return err
			}

			year := reportCfg.ResolvedYear()
			output := reportCfg.OutputPath()

			logger.Info("generating creative work report",
				slog.Int("year", year),
				slog.String("output", output),
				slog.String("filter_rule", filter.Rule().String()),
				slog.Any("organizations", filter.Organizations()),
				slog.Any("repositories", filter.Repositories()),
			)

			collector, err := github.NewClient(githubCfg.Token)
			if err != nil {
				return err
			}

			tickets, err := jira.NewClient(jiraCfg.URL, jiraCfg.Email, jiraCfg.APIToken)
			if err != nil {
				return err
			}

			summarizer, err := newSummarizer(ctx, &openaiCfg)
			if err != nil {
				return err
			}

			writer := xlsx.NewWriter(reportCfg.Template)

			uc := usecase.NewReport(collector, tickets, summarizer, writer)
			stats, err := uc.Generate(ctx, &usecase.GenerateInput{
				Year:         year,
				Filter:       filter,
				OutputPath:   output,
				CompanyName:  reportCfg.CompanyName,
				EmployeeName: reportCfg.EmployeeName,
			})
			if err != nil {
				return err
			}

			printStats(stats, year)
			return nil
		},
	}
}

// newSummarizer selects the summary strategy once, based on credential
// presence.
func newSummarizer(ctx context.Context, cfg *config.OpenAI) (interfaces.SummaryProducer, error) {
	if !cfg.Enabled() {
		ctxlog.From(ctx).Warn("OpenAI API key not provided, summaries will use rule-based text")
		return usecase.NewRuleSummarizer(), nil
	}

	client, err := openai.New(ctx, cfg.APIKey, openai.WithModel(cfg.ResolvedModel()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI client")
	}
	return usecase.NewLLMSummarizer(client, cfg.ResolvedMaxSummaryChars())
}

func printStats(stats *usecase.GenerateStats, year int) {
	color.New(color.FgGreen).Printf("✓ Report generated: %s\n", stats.OutputPath)
	fmt.Printf("  - Year: %d\n", year)
	fmt.Printf("  - Employee: %s\n", stats.Employee)
	fmt.Printf("  - Projects: %d\n", stats.Projects)
	fmt.Printf("  - Commits: %d (%d without ticket references)\n", stats.Commits, stats.UnlinkedCommits)
	fmt.Printf("  - Tickets: %d resolved / %d referenced\n", stats.ResolvedTickets, stats.TicketKeys)
	if len(stats.UnresolvedKeys) > 0 {
		fmt.Printf("  - Unresolved ticket keys: %d\n", len(stats.UnresolvedKeys))
	}
	if len(stats.SkippedRepos) > 0 {
		fmt.Printf("  - Skipped repositories: %d\n", len(stats.SkippedRepos))
	}
}
