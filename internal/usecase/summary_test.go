package usecase

import (
	"testing"

	"github.com/naka-gawa/github-contribs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	summary, err := Summarize(CountByAuthor(sampleRecords()))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Authors)
	assert.Equal(t, domain.TypeSummary{Sum: 8, Mean: 2, Median: 2, Max: 4}, summary.ByType[domain.Commit])
	assert.Equal(t, domain.TypeSummary{Sum: 3, Mean: 0.75, Median: 0.5, Max: 2}, summary.ByType[domain.Issue])
	assert.Equal(t, domain.TypeSummary{Sum: 3, Mean: 0.75, Median: 0.5, Max: 2}, summary.ByType[domain.PullRequest])
	assert.Equal(t, domain.TypeSummary{Sum: 14, Mean: 3.5, Median: 3.5, Max: 6}, summary.Total)
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := Summarize(nil)
	require.NoError(t, err)

	assert.Zero(t, summary.Authors)
	assert.Len(t, summary.ByType, 3)
	assert.Equal(t, domain.TypeSummary{}, summary.Total)
}
