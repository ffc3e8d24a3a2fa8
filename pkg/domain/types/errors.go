package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across the pipeline. Only config and write
// errors (plus an entirely invalid collaborator credential) are fatal;
// everything else degrades with warnings.
var (
	ErrTagConfig       = goerr.NewTag("config")
	ErrTagCollaborator = goerr.NewTag("collaborator")
	ErrTagWrite        = goerr.NewTag("write")
)

// Process exit codes, mapped from error tags in main.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitConfig       = 2
	ExitCollaborator = 3
)
