package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/naka-gawa/github-contribs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the gateway without reading real files.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	args := m.Called(ctx)
	// We need to handle the case where the returned slice is nil (e.g., when an error occurs).
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func rec(author string, t domain.ActivityType) domain.Record {
	return domain.Record{
		Author: author,
		Type:   t,
		Date:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Repo:   "org/repo",
	}
}

// sampleRecords gives alice 6, bob 3, carol 1 and dave 4 contributions.
func sampleRecords() []domain.Record {
	return []domain.Record{
		rec("alice", domain.Commit), rec("alice", domain.Commit), rec("alice", domain.Commit),
		rec("alice", domain.Issue), rec("alice", domain.PullRequest), rec("alice", domain.PullRequest),
		rec("bob", domain.Commit), rec("bob", domain.Issue), rec("bob", domain.Issue),
		rec("carol", domain.PullRequest),
		rec("dave", domain.Commit), rec("dave", domain.Commit), rec("dave", domain.Commit), rec("dave", domain.Commit),
	}
}

func authors(stats []*domain.AuthorStats) []string {
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Author
	}
	return names
}

func TestCountByAuthor(t *testing.T) {
	records := append(sampleRecords(),
		rec("erin", domain.ActivityType("review")),
		rec("", domain.Commit),
		rec("", domain.PullRequest),
	)

	stats := CountByAuthor(records)

	assert.Equal(t, []*domain.AuthorStats{
		{Author: "alice", Commits: 3, Issues: 1, PullRequests: 2},
		{Author: "bob", Commits: 1, Issues: 2, PullRequests: 0},
		{Author: "carol", Commits: 0, Issues: 0, PullRequests: 1},
		{Author: "dave", Commits: 4, Issues: 0, PullRequests: 0},
	}, stats, "unknown types and empty authors must not create an author row")
}

func TestCountByAuthor_Empty(t *testing.T) {
	stats := CountByAuthor(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestExclude(t *testing.T) {
	testCases := []struct {
		name     string
		author   string
		expected int
	}{
		{name: "removes every record of the author", author: "alice", expected: 8},
		{name: "unknown author keeps everything", author: "zoe", expected: 14},
		{name: "empty author keeps everything", author: "", expected: 14},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kept := Exclude(sampleRecords(), tc.author)
			assert.Len(t, kept, tc.expected)
			for _, r := range kept {
				if tc.author != "" {
					assert.NotEqual(t, tc.author, r.Author)
				}
			}
		})
	}
}

func TestTopNAndBottomN(t *testing.T) {
	stats := CountByAuthor(sampleRecords())

	testCases := []struct {
		name     string
		fn       func([]*domain.AuthorStats, int) []*domain.AuthorStats
		n        int
		expected []string
	}{
		{name: "top two ascending", fn: TopN, n: 2, expected: []string{"dave", "alice"}},
		{name: "top larger than table", fn: TopN, n: 10, expected: []string{"carol", "bob", "dave", "alice"}},
		{name: "top zero", fn: TopN, n: 0, expected: []string{}},
		{name: "bottom two ascending", fn: BottomN, n: 2, expected: []string{"carol", "bob"}},
		{name: "bottom larger than table", fn: BottomN, n: 5, expected: []string{"carol", "bob", "dave", "alice"}},
		{name: "bottom negative", fn: BottomN, n: -1, expected: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, authors(tc.fn(stats, tc.n)))
		})
	}

	// The input slice must not be reordered.
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, authors(stats))
}

func TestTopN_TiesBrokenByAuthor(t *testing.T) {
	stats := []*domain.AuthorStats{
		{Author: "zed", Commits: 2},
		{Author: "amy", Issues: 2},
		{Author: "kim", PullRequests: 1},
	}
	assert.Equal(t, []string{"amy", "zed"}, authors(TopN(stats, 2)))
	assert.Equal(t, []string{"kim", "amy"}, authors(BottomN(stats, 2)))
}

func TestMelt(t *testing.T) {
	rows := Melt([]*domain.AuthorStats{
		{Author: "alice", Commits: 3, Issues: 1, PullRequests: 2},
		{Author: "bob", Issues: 2},
	})

	assert.Equal(t, []domain.ActivityCount{
		{Author: "alice", Activity: domain.Commit, Count: 3},
		{Author: "alice", Activity: domain.Issue, Count: 1},
		{Author: "alice", Activity: domain.PullRequest, Count: 2},
		{Author: "bob", Activity: domain.Commit, Count: 0},
		{Author: "bob", Activity: domain.Issue, Count: 2},
		{Author: "bob", Activity: domain.PullRequest, Count: 0},
	}, rows)
}

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name            string
		mockRecords     []domain.Record
		mockErr         error
		opts            Options
		expectedAuthors []string
		expectedRecords int
		expectError     bool
		skipsFetch      bool
	}{
		{
			name:            "happy path - all authors sorted by name",
			mockRecords:     sampleRecords(),
			expectedAuthors: []string{"alice", "bob", "carol", "dave"},
			expectedRecords: 14,
		},
		{
			name:            "top two most active, most active first",
			mockRecords:     sampleRecords(),
			opts:            Options{Limit: 2, Order: OrderDesc},
			expectedAuthors: []string{"alice", "dave"},
			expectedRecords: 14,
		},
		{
			name:            "least active with exclusion",
			mockRecords:     sampleRecords(),
			opts:            Options{Limit: 2, Order: OrderAsc, Exclude: "carol"},
			expectedAuthors: []string{"bob", "dave"},
			expectedRecords: 13,
		},
		{
			name:            "empty case - no records",
			mockRecords:     []domain.Record{},
			expectedAuthors: []string{},
			expectedRecords: 0,
		},
		{
			name:        "error case - fetch fails",
			mockErr:     errors.New("read error"),
			expectError: true,
		},
		{
			name:        "error case - unknown order is rejected before reading",
			mockRecords: sampleRecords(),
			opts:        Options{Order: "sideways"},
			expectError: true,
			skipsFetch:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			logger := log.New(io.Discard, "", 0)
			fetcher := new(mockFetcher)
			var ret interface{}
			if tc.mockRecords != nil {
				ret = tc.mockRecords
			}
			if !tc.skipsFetch {
				fetcher.On("FetchRecords", mock.Anything).Return(ret, tc.mockErr)
			}

			aggregator := NewAggregator(fetcher, logger)

			// --- Act ---
			result, err := aggregator.Aggregate(context.Background(), tc.opts)

			// --- Assert ---
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedAuthors, authors(result.Authors))
				assert.Equal(t, tc.expectedRecords, result.Summary.Records)
				assert.Equal(t, len(tc.expectedAuthors), result.Summary.Authors)
			}

			fetcher.AssertExpectations(t)
			if tc.skipsFetch {
				fetcher.AssertNotCalled(t, "FetchRecords", mock.Anything)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	for in, expected := range map[string]Order{"": OrderDesc, "desc": OrderDesc, "asc": OrderAsc} {
		got, err := ParseOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
	}
	_, err := ParseOrder("up")
	assert.Error(t, err)
}
