package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
	"github.com/SzymonZur/cwr-generator/pkg/domain/types"
)

func TestRepoFilterRule(t *testing.T) {
	gt.Value(t, model.NewRepoFilter(nil, nil).Rule()).Equal(model.RuleNone)
	gt.Value(t, model.NewRepoFilter([]string{"org1"}, nil).Rule()).Equal(model.RuleOrganizations)
	gt.Value(t, model.NewRepoFilter(nil, []string{"org2/repoX"}).Rule()).Equal(model.RuleRepositories)

	// Repositories take precedence even when organizations are set.
	both := model.NewRepoFilter([]string{"org1"}, []string{"org2/repoX"})
	gt.Value(t, both.Rule()).Equal(model.RuleRepositories)
}

func TestRepoFilterMatch(t *testing.T) {
	t.Run("repositories override organizations", func(t *testing.T) {
		f := model.NewRepoFilter([]string{"org1"}, []string{"org2/repoX"})
		gt.Value(t, f.Match("org1/repoY")).Equal(false)
		gt.Value(t, f.Match("org2/repoX")).Equal(true)
	})

	t.Run("empty filter includes everything", func(t *testing.T) {
		f := model.NewRepoFilter(nil, nil)
		gt.Value(t, f.Match("anyorg/anyrepo")).Equal(true)
	})

	t.Run("bare repository name matches any owner", func(t *testing.T) {
		f := model.NewRepoFilter(nil, []string{"repoY"})
		gt.Value(t, f.Match("org1/repoY")).Equal(true)
		gt.Value(t, f.Match("org9/repoY")).Equal(true)
		gt.Value(t, f.Match("org1/repoZ")).Equal(false)
	})

	t.Run("organization match", func(t *testing.T) {
		f := model.NewRepoFilter([]string{"org1", "org2"}, nil)
		gt.Value(t, f.Match("org1/a")).Equal(true)
		gt.Value(t, f.Match("org2/b")).Equal(true)
		gt.Value(t, f.Match("org3/c")).Equal(false)
	})

	t.Run("case insensitive", func(t *testing.T) {
		f := model.NewRepoFilter(nil, []string{"Org2/RepoX"})
		gt.Value(t, f.Match("org2/repox")).Equal(true)
		gt.Value(t, f.Match("ORG2/REPOX")).Equal(true)
	})

	t.Run("blank entries dropped", func(t *testing.T) {
		f := model.NewRepoFilter([]string{" ", ""}, nil)
		gt.Value(t, f.Rule()).Equal(model.RuleNone)
	})
}

func TestRepoFilterValidate(t *testing.T) {
	gt.NoError(t, model.NewRepoFilter([]string{"org1"}, []string{"org2/repoX", "repoY"}).Validate())

	cases := []struct {
		name  string
		orgs  []string
		repos []string
	}{
		{name: "double slash repo", repos: []string{"a/b/c"}},
		{name: "leading slash repo", repos: []string{"/repo"}},
		{name: "trailing slash repo", repos: []string{"org/"}},
		{name: "slash in org", orgs: []string{"org/sub"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.NewRepoFilter(tc.orgs, tc.repos).Validate()
			gt.Error(t, err)
			gt.Value(t, goerr.HasTag(err, types.ErrTagConfig)).Equal(true)
		})
	}
}
