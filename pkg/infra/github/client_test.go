package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
	"github.com/SzymonZur/cwr-generator/pkg/infra/github"
)

func TestNewClient(t *testing.T) {
	t.Run("with token", func(t *testing.T) {
		client, err := github.NewClient("ghp_test_token")
		gt.NoError(t, err)
		gt.Value(t, client).NotNil()
	})

	t.Run("without token", func(t *testing.T) {
		_, err := github.NewClient("")
		gt.Error(t, err)
		gt.Value(t, goerr.HasTag(err, types.ErrTagConfig)).Equal(true)
	})
}

// newAPIServer serves the minimal API surface the collector walks: the
// authenticated user, the repository list, and per-repo commit lists.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login":"szymon","name":"Szymon Zur","email":"dev@company.example"}`))
	})
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"full_name":"org1/alpha"},
			{"full_name":"org1/forbidden"},
			{"full_name":"org1/empty"}
		]`))
	})
	mux.HandleFunc("/repos/org1/alpha/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"sha": "a1",
				"html_url": "https://github.example/org1/alpha/commit/a1",
				"commit": {
					"message": "FUI-1 fix sidebar",
					"author": {"name": "Szymon Zur", "date": "2025-03-01T12:00:00Z"}
				}
			},
			{
				"sha": "a0",
				"html_url": "https://github.example/org1/alpha/commit/a0",
				"commit": {
					"message": "older work outside the window",
					"author": {"name": "Szymon Zur", "date": "2024-06-01T00:00:00Z"}
				}
			}
		]`))
	})
	mux.HandleFunc("/repos/org1/forbidden/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Resource not accessible"}`))
	})
	mux.HandleFunc("/repos/org1/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Git Repository is empty."}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCollectCommits(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable repository is skipped, not fatal", func(t *testing.T) {
		server := newAPIServer(t)
		client, err := github.NewClient("ghp_test_token", github.WithBaseURL(server.URL))
		gt.NoError(t, err)

		collection, err := client.CollectCommits(ctx, 2025, model.NewRepoFilter(nil, nil))
		gt.NoError(t, err)

		gt.Value(t, len(collection.Commits)).Equal(1)
		gt.Value(t, collection.Commits[0].SHA).Equal("a1")
		gt.Value(t, collection.Commits[0].Repository).Equal("org1/alpha")
		gt.Value(t, collection.SkippedRepositories).Equal([]string{"org1/forbidden"})
	})

	t.Run("commits outside the year window are dropped", func(t *testing.T) {
		server := newAPIServer(t)
		client, err := github.NewClient("ghp_test_token", github.WithBaseURL(server.URL))
		gt.NoError(t, err)

		collection, err := client.CollectCommits(ctx, 2025, model.NewRepoFilter(nil, nil))
		gt.NoError(t, err)

		for _, commit := range collection.Commits {
			gt.Value(t, commit.AuthorDate.Year()).Equal(2025)
		}
	})

	t.Run("filter narrows the repository set", func(t *testing.T) {
		server := newAPIServer(t)
		client, err := github.NewClient("ghp_test_token", github.WithBaseURL(server.URL))
		gt.NoError(t, err)

		collection, err := client.CollectCommits(ctx, 2025, model.NewRepoFilter(nil, []string{"org1/empty"}))
		gt.NoError(t, err)

		gt.Value(t, len(collection.Commits)).Equal(0)
		gt.Value(t, len(collection.SkippedRepositories)).Equal(0)
	})

	t.Run("rejected credential aborts with collaborator tag", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		}))
		defer server.Close()

		client, err := github.NewClient("ghp_bad_token", github.WithBaseURL(server.URL))
		gt.NoError(t, err)

		_, err = client.CollectCommits(ctx, 2025, model.NewRepoFilter(nil, nil))
		gt.Error(t, err)
		gt.Value(t, goerr.HasTag(err, types.ErrTagCollaborator)).Equal(true)
	})
}

func TestAuthenticatedUser(t *testing.T) {
	ctx := context.Background()
	server := newAPIServer(t)

	client, err := github.NewClient("ghp_test_token", github.WithBaseURL(server.URL))
	gt.NoError(t, err)

	user, err := client.AuthenticatedUser(ctx)
	gt.NoError(t, err)
	gt.Value(t, user.Login).Equal("szymon")
	gt.Value(t, user.Name).Equal("Szymon Zur")
}
