package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/SzymonZur/cwr-generator/pkg/domain/interfaces"
	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
)

const perPage = 100

// Repositories the user relates to in any of these roles are searched.
const repoAffiliation = "owner,collaborator,organization_member"

type client struct {
	githubClient *github.Client
}

// Option configures the client.
type Option func(*client) error

// WithBaseURL points the client at a different API endpoint, such as a
// GitHub Enterprise instance or a local test server.
func WithBaseURL(rawURL string) Option {
	return func(c *client) error {
		base, err := url.Parse(strings.TrimRight(rawURL, "/") + "/")
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API base URL",
				goerr.V("url", rawURL), goerr.T(types.ErrTagConfig))
		}
		c.githubClient.BaseURL = base
		return nil
	}
}

// NewClient creates a commit collector backed by the GitHub REST API,
// authenticated with a personal access token. The token needs the "repo"
// scope to see private repositories.
func NewClient(token string, opts ...Option) (interfaces.CommitCollector, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is required (set CWR_GITHUB_TOKEN / GITHUB_TOKEN or --github-token)",
			goerr.T(types.ErrTagConfig))
	}

	c := &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AuthenticatedUser returns the identity behind the configured token.
func (c *client) AuthenticatedUser(ctx context.Context) (*model.UserInfo, error) {
	user, _, err := c.githubClient.Users.Get(ctx, "")
	if err != nil {
		return nil, c.wrapCredentialError(err, "failed to get authenticated user")
	}

	return &model.UserInfo{
		Login: user.GetLogin(),
		Name:  user.GetName(),
		Email: user.GetEmail(),
	}, nil
}

// CollectCommits returns every commit authored by the user within the
// given calendar year across repositories accepted by the filter.
// Unreadable repositories are skipped and recorded; an entirely invalid
// credential aborts the run.
func (c *client) CollectCommits(ctx context.Context, year int, filter *model.RepoFilter) (*model.CommitCollection, error) {
	logger := ctxlog.From(ctx)

	user, _, err := c.githubClient.Users.Get(ctx, "")
	if err != nil {
		return nil, c.wrapCredentialError(err, "failed to get authenticated user")
	}
	login := user.GetLogin()

	repos, err := c.listRepositories(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Info("repositories selected", "count", len(repos))

	// GitHub compares against committer timestamps in UTC.
	since := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	collection := &model.CommitCollection{}
	for _, repo := range repos {
		commits, err := c.listCommits(ctx, repo, login, since, until)
		if err != nil {
			if isUnauthorized(err) {
				return nil, goerr.Wrap(err, "GitHub credential rejected",
					goerr.T(types.ErrTagCollaborator))
			}
			logger.Warn("skipping repository",
				"repository", repo,
				"error", err,
			)
			collection.SkippedRepositories = append(collection.SkippedRepositories, repo)
			continue
		}

		if len(commits) > 0 {
			logger.Info("collected commits from repository",
				"repository", repo,
				"count", len(commits),
			)
		} else {
			logger.Debug("no commits in repository for year", "repository", repo, "year", year)
		}
		collection.Commits = append(collection.Commits, commits...)
	}

	logger.Info("commit collection complete",
		"commits", len(collection.Commits),
		"skipped_repositories", len(collection.SkippedRepositories),
	)
	return collection, nil
}

// listRepositories enumerates all repositories the token can read and
// keeps those the filter accepts.
func (c *client) listRepositories(ctx context.Context, filter *model.RepoFilter) ([]string, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Affiliation: repoAffiliation,
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var repos []string
	for {
		page, resp, err := c.githubClient.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, c.wrapCredentialError(err, "failed to list repositories")
		}

		for _, repo := range page {
			if filter.Match(repo.GetFullName()) {
				repos = append(repos, repo.GetFullName())
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return repos, nil
}

// listCommits pages through commits the user authored in one repository,
// re-checking the date window client-side since the API filter is not
// always exact around the boundaries.
func (c *client) listCommits(ctx context.Context, fullName, login string, since, until time.Time) ([]model.CommitRecord, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return nil, goerr.New("unexpected repository name", goerr.V("repository", fullName))
	}

	opts := &github.CommitsListOptions{
		Author:      login,
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var commits []model.CommitRecord
	for {
		page, resp, err := c.githubClient.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			// 409 means an empty repository, which is not a failure.
			if isStatus(err, http.StatusConflict) {
				return nil, nil
			}
			return nil, goerr.Wrap(err, "failed to list commits", goerr.V("repository", fullName))
		}

		for _, rc := range page {
			date := rc.GetCommit().GetAuthor().GetDate().Time.UTC()
			if date.Before(since) || date.After(until) {
				continue
			}

			commits = append(commits, model.CommitRecord{
				Repository: fullName,
				SHA:        rc.GetSHA(),
				Message:    rc.GetCommit().GetMessage(),
				Author:     rc.GetCommit().GetAuthor().GetName(),
				AuthorDate: date,
				URL:        rc.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

// wrapCredentialError distinguishes an entirely invalid credential from
// other API failures so the caller can abort instead of degrading.
func (c *client) wrapCredentialError(err error, msg string) error {
	if isUnauthorized(err) {
		return goerr.Wrap(err, "GitHub credential rejected", goerr.T(types.ErrTagCollaborator))
	}
	return goerr.Wrap(err, msg, goerr.T(types.ErrTagCollaborator))
}

func isUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

func isStatus(err error, status int) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == status
	}
	return false
}
