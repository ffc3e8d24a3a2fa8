package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
)

// File is the optional TOML configuration file. Its values only fill
// fields that flags and environment variables left unset, so precedence
// stays CLI > env > file > default.
type File struct {
	GitHub GitHub `toml:"github"`
	Jira   Jira   `toml:"jira"`
	OpenAI OpenAI `toml:"openai"`
	Report Report `toml:"report"`
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}
	return &f, nil
}

// Merge fills unset fields of the given configurations from the file.
func (f *File) Merge(gh *GitHub, jr *Jira, oa *OpenAI, rp *Report) {
	if gh.Token == "" {
		gh.Token = f.GitHub.Token
	}
	if len(gh.Organizations) == 0 {
		gh.Organizations = f.GitHub.Organizations
	}
	if len(gh.Repositories) == 0 {
		gh.Repositories = f.GitHub.Repositories
	}

	if jr.URL == "" {
		jr.URL = f.Jira.URL
	}
	if jr.Email == "" {
		jr.Email = f.Jira.Email
	}
	if jr.APIToken == "" {
		jr.APIToken = f.Jira.APIToken
	}

	if oa.APIKey == "" {
		oa.APIKey = f.OpenAI.APIKey
	}
	if oa.Model == "" {
		oa.Model = f.OpenAI.Model
	}
	if oa.MaxSummaryChars == 0 {
		oa.MaxSummaryChars = f.OpenAI.MaxSummaryChars
	}

	if rp.Year == 0 {
		rp.Year = f.Report.Year
	}
	if rp.Output == "" {
		rp.Output = f.Report.Output
	}
	if rp.CompanyName == "" {
		rp.CompanyName = f.Report.CompanyName
	}
	if rp.EmployeeName == "" {
		rp.EmployeeName = f.Report.EmployeeName
	}
	if rp.Template == "" {
		rp.Template = f.Report.Template
	}
}
