// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/naka-gawa/github-contribs/internal/domain"
	"github.com/naka-gawa/github-contribs/internal/gateway"
)

// Order selects which end of the ranking Aggregate keeps.
type Order string

const (
	// OrderDesc keeps the most active authors.
	OrderDesc Order = "desc"
	// OrderAsc keeps the least active authors.
	OrderAsc Order = "asc"
)

// ParseOrder validates an order name. An empty name means OrderDesc.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case OrderDesc, OrderAsc:
		return o, nil
	case "":
		return OrderDesc, nil
	}
	return "", fmt.Errorf("unknown order %q (want asc or desc)", s)
}

// Options controls how Aggregate filters and truncates the table.
type Options struct {
	// Exclude drops every record of this author before counting.
	Exclude string
	// Limit truncates the table to this many authors. Zero keeps all of them.
	Limit int
	Order Order
}

// Result is the aggregated table with its summary.
type Result struct {
	Authors []*domain.AuthorStats `json:"authors"`
	Summary *domain.Summary       `json:"summary"`
}

// Aggregator is the use case for aggregating contribution stats.
// It orchestrates reading records and combining them per author.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches all records from the gateway and aggregates them per author.
func (a *Aggregator) Aggregate(ctx context.Context, opts Options) (*Result, error) {
	a.logger.Println("Usecase: Starting data aggregation...")

	order, err := ParseOrder(string(opts.Order))
	if err != nil {
		return nil, err
	}

	records, err := a.fetcher.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}
	records = Exclude(records, opts.Exclude)

	stats := CountByAuthor(records)
	if opts.Limit > 0 {
		if order == OrderAsc {
			stats = BottomN(stats, opts.Limit)
		} else {
			stats = TopN(stats, opts.Limit)
			reverse(stats)
		}
	}

	summary, err := Summarize(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize stats: %w", err)
	}
	summary.Records = len(records)

	a.logger.Println("Usecase: Aggregation complete.")
	return &Result{Authors: stats, Summary: summary}, nil
}

// CountByAuthor groups records by author and counts each known activity type.
// Records with an unknown type or no author are ignored. The result is sorted by author.
func CountByAuthor(records []domain.Record) []*domain.AuthorStats {
	statsMap := make(map[string]*domain.AuthorStats)

	// Helper function to ensure a map entry exists.
	ensureAuthorStat := func(author string) *domain.AuthorStats {
		s, ok := statsMap[author]
		if !ok {
			s = &domain.AuthorStats{Author: author}
			statsMap[author] = s
		}
		return s
	}

	for _, rec := range records {
		if rec.Author == "" || !rec.Type.Known() {
			continue
		}
		switch rec.Type {
		case domain.Commit:
			ensureAuthorStat(rec.Author).Commits++
		case domain.Issue:
			ensureAuthorStat(rec.Author).Issues++
		case domain.PullRequest:
			ensureAuthorStat(rec.Author).PullRequests++
		}
	}

	// Convert the map to a slice and sort it by author for consistent output.
	sorted := make([]*domain.AuthorStats, 0, len(statsMap))
	for _, s := range statsMap {
		sorted = append(sorted, s)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Author < sorted[j].Author
	})
	return sorted
}

// Exclude returns the records not attributed to author. An empty author keeps everything.
func Exclude(records []domain.Record, author string) []domain.Record {
	if author == "" {
		return records
	}
	kept := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if rec.Author != author {
			kept = append(kept, rec)
		}
	}
	return kept
}

// sortByTotal orders a copy of stats by ascending total, ties by author.
func sortByTotal(stats []*domain.AuthorStats) []*domain.AuthorStats {
	sorted := make([]*domain.AuthorStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Total(), sorted[j].Total()
		if ti != tj {
			return ti < tj
		}
		return sorted[i].Author < sorted[j].Author
	})
	return sorted
}

// TopN returns the n authors with the highest totals, in ascending order of total.
func TopN(stats []*domain.AuthorStats, n int) []*domain.AuthorStats {
	if n <= 0 {
		return []*domain.AuthorStats{}
	}
	sorted := sortByTotal(stats)
	if n < len(sorted) {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// BottomN returns the n authors with the lowest totals, in ascending order of total.
func BottomN(stats []*domain.AuthorStats, n int) []*domain.AuthorStats {
	if n <= 0 {
		return []*domain.AuthorStats{}
	}
	sorted := sortByTotal(stats)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Melt reshapes the wide table into one row per author and activity type.
func Melt(stats []*domain.AuthorStats) []domain.ActivityCount {
	rows := make([]domain.ActivityCount, 0, len(stats)*len(domain.ActivityTypes()))
	for _, s := range stats {
		for _, t := range domain.ActivityTypes() {
			rows = append(rows, domain.ActivityCount{
				Author:   s.Author,
				Activity: t,
				Count:    s.Count(t),
			})
		}
	}
	return rows
}

func reverse(stats []*domain.AuthorStats) {
	for i, j := 0, len(stats)-1; i < j; i, j = i+1, j-1 {
		stats[i], stats[j] = stats[j], stats[i]
	}
}
