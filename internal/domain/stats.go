// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// ActivityType is the kind of contribution a record represents.
type ActivityType string

const (
	Commit      ActivityType = "commit"
	Issue       ActivityType = "issue"
	PullRequest ActivityType = "pr"
)

// ActivityTypes returns the known activity types in display order.
func ActivityTypes() []ActivityType {
	return []ActivityType{Commit, Issue, PullRequest}
}

// Known reports whether t is one of the three activity types.
func (t ActivityType) Known() bool {
	switch t {
	case Commit, Issue, PullRequest:
		return true
	}
	return false
}

// Label is the human readable name used in chart legends.
func (t ActivityType) Label() string {
	switch t {
	case Commit:
		return "Commits"
	case Issue:
		return "Issues"
	case PullRequest:
		return "Pull Requests"
	}
	return string(t)
}

// Record is a single commit, issue or pull request attributed to an author.
type Record struct {
	Author string       `json:"author"`
	Type   ActivityType `json:"type"`
	Date   time.Time    `json:"date"`
	Repo   string       `json:"repo"`
}

// AuthorStats holds the activity counts for a single author.
// It is the core domain entity of this application.
type AuthorStats struct {
	Author       string `json:"author"`
	Commits      int    `json:"commits"`
	Issues       int    `json:"issues"`
	PullRequests int    `json:"pull_requests"`
}

// Total is the sum of all activity counts.
func (s *AuthorStats) Total() int {
	return s.Commits + s.Issues + s.PullRequests
}

// Count returns the count for a single activity type.
func (s *AuthorStats) Count(t ActivityType) int {
	switch t {
	case Commit:
		return s.Commits
	case Issue:
		return s.Issues
	case PullRequest:
		return s.PullRequests
	}
	return 0
}

// ActivityCount is one row of the long form table fed to the charts.
type ActivityCount struct {
	Author   string       `json:"author"`
	Activity ActivityType `json:"activity"`
	Count    int          `json:"count"`
}

// TypeSummary describes the distribution of one activity type across authors.
type TypeSummary struct {
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Summary is the descriptive statistics block printed next to the table.
type Summary struct {
	Authors int                          `json:"authors"`
	Records int                          `json:"records"`
	ByType  map[ActivityType]TypeSummary `json:"by_type"`
	Total   TypeSummary                  `json:"total"`
}
