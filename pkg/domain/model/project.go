package model

// ProjectAggregate collects everything attributed to one issue-tracker
// project. Built once during grouping, read-only afterwards.
type ProjectAggregate struct {
	ProjectKey  string
	ProjectName string
	Commits     []CommitRecord // chronological by author date after grouping
	TicketKeys  []string       // sorted, distinct
	Tickets     []TicketDetail // resolved details, ordered by key
}

// DisplayName returns the project name, falling back to the key.
func (p *ProjectAggregate) DisplayName() string {
	if p.ProjectName != "" {
		return p.ProjectName
	}
	return p.ProjectKey
}

// ProjectSummary is the prose produced for one project.
type ProjectSummary struct {
	Description         string
	CreativeWorkDetails string
	TechnicalSummary    string
}
