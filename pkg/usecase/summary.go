package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/SzymonZur/cwr-generator/pkg/domain/interfaces"
	"github.com/SzymonZur/cwr-generator/pkg/domain/model"
)

//go:embed prompts/project_summary_system.md
var summarySystemPrompt string

//go:embed prompts/project_summary_user.md
var summaryUserTemplate string

// Prompt bounds, matching the input budget of the report pipeline.
const (
	maxPromptTickets      = 10
	maxPromptDescriptions = 5
	maxPromptCommits      = 20
	maxDescriptionChars   = 200
	maxCommitChars        = 150

	defaultMaxSummaryChars = 600
)

type ruleSummarizer struct{}

// NewRuleSummarizer returns the deterministic summary producer used when no
// language-model credential is configured. It is total: any aggregate, even
// one with no tickets and no commits, yields a usable summary.
func NewRuleSummarizer() interfaces.SummaryProducer {
	return &ruleSummarizer{}
}

func (s *ruleSummarizer) ProduceSummary(_ context.Context, agg *model.ProjectAggregate) *model.ProjectSummary {
	summaries := distinctTicketSummaries(agg)
	lines := distinctCommitSubjects(agg)

	description := fmt.Sprintf("Development work on %s.", agg.DisplayName())
	if len(summaries) > 0 {
		description = fmt.Sprintf("Development work on %s. %s",
			agg.DisplayName(), truncate(summaries[0], maxDescriptionChars))
	}

	var parts []string
	switch {
	case len(summaries) > 0:
		parts = append(parts, strings.Join(summaries, "; "))
	case len(lines) > 0:
		parts = append(parts, strings.Join(lines, "; "))
	}
	if tally := commitTypeTally(agg.Commits); tally != "" {
		parts = append(parts, fmt.Sprintf("Made %d commit(s) with %s", len(agg.Commits), tally))
	}

	details := "Various development tasks and improvements."
	if len(parts) > 0 {
		details = strings.Join(parts, ". ") + "."
	}

	changes := len(agg.TicketKeys)
	if changes == 0 {
		changes = len(lines)
	}
	technical := fmt.Sprintf("Implemented %d change(s) across %d commit(s).",
		changes, len(agg.Commits))

	return &model.ProjectSummary{
		Description:         description,
		CreativeWorkDetails: details,
		TechnicalSummary:    technical,
	}
}

type llmSummarizer struct {
	client       gollem.LLMClient
	fallback     interfaces.SummaryProducer
	userTemplate *template.Template
	maxChars     int
}

// NewLLMSummarizer returns a summary producer backed by a language model.
// Every failure path falls back to the rule-based summarizer, so the
// producer never surfaces an error.
func NewLLMSummarizer(client gollem.LLMClient, maxChars int) (interfaces.SummaryProducer, error) {
	tmpl, err := template.New("summary").Parse(summaryUserTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse summary prompt template")
	}
	if maxChars <= 0 {
		maxChars = defaultMaxSummaryChars
	}

	return &llmSummarizer{
		client:       client,
		fallback:     NewRuleSummarizer(),
		userTemplate: tmpl,
		maxChars:     maxChars,
	}, nil
}

func (s *llmSummarizer) ProduceSummary(ctx context.Context, agg *model.ProjectAggregate) *model.ProjectSummary {
	summary, err := s.generate(ctx, agg)
	if err != nil {
		ctxlog.From(ctx).Warn("LLM summary failed, using rule-based fallback",
			"project", agg.ProjectKey,
			"error", err,
		)
		return s.fallback.ProduceSummary(ctx, agg)
	}
	return summary
}

// summaryResponse is the JSON shape requested from the model.
type summaryResponse struct {
	Description         string `json:"description"`
	CreativeWorkDetails string `json:"creative_work_details"`
	TechnicalSummary    string `json:"technical_summary"`
}

func (s *llmSummarizer) generate(ctx context.Context, agg *model.ProjectAggregate) (*model.ProjectSummary, error) {
	var buf bytes.Buffer
	if err := s.userTemplate.Execute(&buf, promptData(agg)); err != nil {
		return nil, goerr.Wrap(err, "failed to execute summary prompt template")
	}

	session, err := s.client.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionSystemPrompt(summarySystemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate LLM content")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("no response from LLM")
	}

	var parsed summaryResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}
	if strings.TrimSpace(parsed.CreativeWorkDetails) == "" {
		return nil, goerr.New("empty summary from LLM")
	}

	return &model.ProjectSummary{
		Description:         truncate(parsed.Description, s.maxChars),
		CreativeWorkDetails: truncate(parsed.CreativeWorkDetails, s.maxChars),
		TechnicalSummary:    truncate(parsed.TechnicalSummary, s.maxChars),
	}, nil
}

// promptData builds the bounded template input for one project.
func promptData(agg *model.ProjectAggregate) map[string]any {
	summaries := distinctTicketSummaries(agg)
	if len(summaries) > maxPromptTickets {
		summaries = summaries[:maxPromptTickets]
	}

	var descriptions []string
	for _, ticket := range agg.Tickets {
		if ticket.Description == "" {
			continue
		}
		descriptions = append(descriptions, truncate(normalizeWhitespace(ticket.Description), maxDescriptionChars))
		if len(descriptions) == maxPromptDescriptions {
			break
		}
	}

	var messages []string
	for _, commit := range agg.Commits {
		messages = append(messages, truncate(normalizeWhitespace(commit.Message), maxCommitChars))
		if len(messages) == maxPromptCommits {
			break
		}
	}

	return map[string]any{
		"ProjectName":        agg.DisplayName(),
		"CommitCount":        len(agg.Commits),
		"TicketCount":        len(agg.TicketKeys),
		"TicketSummaries":    summaries,
		"TicketDescriptions": descriptions,
		"CommitMessages":     messages,
	}
}

// commitTypeTally buckets commit subjects into the coarse work categories
// used by the fallback details text, e.g. "2 features, 1 fixes".
func commitTypeTally(commits []model.CommitRecord) string {
	counts := map[string]int{}
	for _, commit := range commits {
		line := strings.ToLower(commit.FirstLine())
		switch {
		case line == "":
		case strings.HasPrefix(line, "feat") || strings.Contains(line, "feature"):
			counts["features"]++
		case strings.HasPrefix(line, "fix") || strings.Contains(line, "bug"):
			counts["fixes"]++
		case strings.HasPrefix(line, "refactor"):
			counts["refactoring"]++
		default:
			counts["improvements"]++
		}
	}

	var parts []string
	for _, category := range []string{"features", "fixes", "refactoring", "improvements"} {
		if counts[category] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[category], category))
		}
	}
	return strings.Join(parts, ", ")
}

func distinctTicketSummaries(agg *model.ProjectAggregate) []string {
	seen := make(map[string]struct{}, len(agg.Tickets))
	out := make([]string, 0, len(agg.Tickets))
	for _, ticket := range agg.Tickets {
		s := normalizeWhitespace(ticket.Summary)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func distinctCommitSubjects(agg *model.ProjectAggregate) []string {
	seen := make(map[string]struct{}, len(agg.Commits))
	out := make([]string, 0, len(agg.Commits))
	for _, commit := range agg.Commits {
		line := commit.FirstLine()
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
