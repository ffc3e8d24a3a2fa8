package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/SzymonZur/cwr-generator/pkg/cli/config"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "cwr-generator",
		Usage:   "Generate a Creative Work Report from GitHub and Jira activity",
		Version: types.Version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("run_id", uuid.NewString()))

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdGenerate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		// The single reporting point for any failure, config or pipeline.
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ Error: %v\n", err)
		return err
	}

	return nil
}
