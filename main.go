package main

import (
	"context"
	"os"

	"github.com/SzymonZur/cwr-generator/pkg/cli"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy to process exit codes so callers can
// distinguish configuration mistakes from collaborator failures.
func exitCode(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagConfig):
		return types.ExitConfig
	case goerr.HasTag(err, types.ErrTagCollaborator):
		return types.ExitCollaborator
	default:
		return types.ExitFailure
	}
}
