package jira

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	jira "github.com/andygrunwald/go-jira"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/SzymonZur/cwr-generator/pkg/domain/interfaces"
	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
	"github.com/SzymonZur/cwr-generator/pkg/utils/async"
)

// fetchConcurrency bounds parallel per-key lookups. Ordering does not
// matter here; the grouper sorts aggregates explicitly.
const fetchConcurrency = 4

type client struct {
	jiraClient *jira.Client
	baseURL    string
}

// NewClient creates a ticket collector backed by the Jira Cloud REST API
// with basic auth (account email + API token).
func NewClient(baseURL, email, apiToken string) (interfaces.TicketCollector, error) {
	switch {
	case baseURL == "":
		return nil, goerr.New("Jira URL is required (set CWR_JIRA_URL / JIRA_URL or --jira-url)",
			goerr.T(types.ErrTagConfig))
	case email == "":
		return nil, goerr.New("Jira email is required (set CWR_JIRA_EMAIL / JIRA_EMAIL or --jira-email)",
			goerr.T(types.ErrTagConfig))
	case apiToken == "":
		return nil, goerr.New("Jira API token is required (set CWR_JIRA_TOKEN / JIRA_API_TOKEN or --jira-token)",
			goerr.T(types.ErrTagConfig))
	}

	tp := jira.BasicAuthTransport{
		Username: email,
		Password: apiToken,
	}
	jiraClient, err := jira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Jira client",
			goerr.V("url", baseURL), goerr.T(types.ErrTagConfig))
	}

	return &client{
		jiraClient: jiraClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// FetchTickets resolves every key it can. Keys that do not resolve
// (deleted, no permission, typo) are dropped with a warning; the report
// must still be producible from the commits alone.
func (c *client) FetchTickets(ctx context.Context, keys []string) (map[string]model.TicketDetail, error) {
	logger := ctxlog.From(ctx)

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	var mu sync.Mutex
	tickets := make(map[string]model.TicketDetail, len(sorted))

	async.ForEach(ctx, fetchConcurrency, sorted, func(ctx context.Context, key string) {
		detail, err := c.fetchTicket(ctx, key)
		if err != nil {
			logger.Warn("dropping unresolvable ticket key", "key", key, "error", err)
			return
		}
		if detail == nil {
			logger.Warn("ticket not found", "key", key)
			return
		}

		mu.Lock()
		tickets[key] = *detail
		mu.Unlock()
	})

	logger.Info("fetched tickets", "requested", len(sorted), "resolved", len(tickets))
	return tickets, nil
}

// fetchTicket returns nil without error for a 404 so the caller can treat
// unknown keys as a warning rather than a failure.
func (c *client) fetchTicket(ctx context.Context, key string) (*model.TicketDetail, error) {
	issue, resp, err := c.jiraClient.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to fetch ticket", goerr.V("key", key))
	}

	detail := &model.TicketDetail{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
		ProjectKey:  issue.Fields.Project.Key,
		ProjectName: issue.Fields.Project.Name,
		IssueType:   issue.Fields.Type.Name,
		URL:         c.baseURL + "/browse/" + issue.Key,
	}
	if issue.Fields.Status != nil {
		detail.Status = issue.Fields.Status.Name
	}
	return detail, nil
}

// ProjectInfo returns tracker metadata for a project key, or nil when the
// project does not exist or is not accessible.
func (c *client) ProjectInfo(ctx context.Context, projectKey string) (*model.ProjectInfo, error) {
	project, resp, err := c.jiraClient.Project.GetWithContext(ctx, projectKey)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to fetch project", goerr.V("project", projectKey))
	}

	return &model.ProjectInfo{
		Key:         project.Key,
		Name:        project.Name,
		Description: project.Description,
	}, nil
}
