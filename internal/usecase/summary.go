package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-contribs/internal/domain"
)

// Summarize computes per-type descriptive statistics across authors.
// An empty table yields a zero summary.
func Summarize(authors []*domain.AuthorStats) (*domain.Summary, error) {
	summary := &domain.Summary{
		Authors: len(authors),
		ByType:  make(map[domain.ActivityType]domain.TypeSummary, len(domain.ActivityTypes())),
	}
	if len(authors) == 0 {
		for _, t := range domain.ActivityTypes() {
			summary.ByType[t] = domain.TypeSummary{}
		}
		return summary, nil
	}

	for _, t := range domain.ActivityTypes() {
		data := make(stats.Float64Data, 0, len(authors))
		for _, a := range authors {
			data = append(data, float64(a.Count(t)))
		}
		ts, err := describe(data)
		if err != nil {
			return nil, err
		}
		summary.ByType[t] = ts
	}

	totals := make(stats.Float64Data, 0, len(authors))
	for _, a := range authors {
		totals = append(totals, float64(a.Total()))
	}
	ts, err := describe(totals)
	if err != nil {
		return nil, err
	}
	summary.Total = ts
	return summary, nil
}

func describe(data stats.Float64Data) (domain.TypeSummary, error) {
	sum, err := stats.Sum(data)
	if err != nil {
		return domain.TypeSummary{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return domain.TypeSummary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return domain.TypeSummary{}, err
	}
	maxVal, err := stats.Max(data)
	if err != nil {
		return domain.TypeSummary{}, err
	}
	return domain.TypeSummary{Sum: sum, Mean: mean, Median: median, Max: maxVal}, nil
}
