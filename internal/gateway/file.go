// Package gateway provides access to the contribution table,
// abstracting away the file format it is stored in.
package gateway

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/naka-gawa/github-contribs/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for input formats other than CSV and JSON.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// Format identifies the encoding of the contribution table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// StdinPath makes the gateway read from standard input.
const StdinPath = "-"

var requiredColumns = []string{"author", "type", "date", "repo"}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Fetcher defines the behavior of a gateway that supplies contribution records.
type Fetcher interface {
	FetchRecords(ctx context.Context) ([]domain.Record, error)
}

// FileGateway is the concrete implementation of the Fetcher interface.
// It reads a local CSV or JSON file, or standard input.
type FileGateway struct {
	path   string
	format Format
	stdin  io.Reader
	from   time.Time
	to     time.Time
	logger *log.Logger
}

// Option configures a FileGateway.
type Option func(*FileGateway)

// WithFormat forces the input format instead of guessing it from the extension.
func WithFormat(f Format) Option {
	return func(g *FileGateway) { g.format = f }
}

// WithDateRange keeps only records dated within [from, to], both inclusive at
// day precision. A zero bound is open.
func WithDateRange(from, to time.Time) Option {
	return func(g *FileGateway) {
		g.from = from
		g.to = to
	}
}

// WithStdin replaces os.Stdin as the source used for StdinPath.
func WithStdin(r io.Reader) Option {
	return func(g *FileGateway) { g.stdin = r }
}

// NewFileGateway is a constructor that creates a new instance of FileGateway.
func NewFileGateway(path string, logger *log.Logger, opts ...Option) (Fetcher, error) {
	g := &FileGateway{
		path:   path,
		stdin:  os.Stdin,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.format == "" {
		g.format = formatFromPath(path)
	}
	if g.format != FormatCSV && g.format != FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, g.format)
	}
	return g, nil
}

func formatFromPath(path string) Format {
	if path == StdinPath {
		return FormatCSV
	}
	return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// FetchRecords reads and parses the whole table.
func (g *FileGateway) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Printf("Reading contribution records from %s (%s)...", g.path, g.format)

	var r io.Reader
	if g.path == StdinPath {
		r = g.stdin
	} else {
		f, err := os.Open(g.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var (
		records []domain.Record
		err     error
	)
	switch g.format {
	case FormatJSON:
		records, err = parseJSON(r)
	default:
		records, err = parseCSV(r)
	}
	if err != nil {
		return nil, err
	}

	records = g.filterWindow(records)
	g.logger.Printf("Completed reading %d records.", len(records))
	return records, nil
}

func (g *FileGateway) filterWindow(records []domain.Record) []domain.Record {
	if g.from.IsZero() && g.to.IsZero() {
		return records
	}
	var end time.Time
	if !g.to.IsZero() {
		end = g.to.Truncate(24 * time.Hour).Add(24 * time.Hour)
	}
	kept := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		if !g.from.IsZero() && rec.Date.Before(g.from) {
			continue
		}
		if !end.IsZero() && !rec.Date.Before(end) {
			continue
		}
		kept = append(kept, rec)
	}
	g.logger.Printf("  Date window kept %d of %d records.", len(kept), len(records))
	return kept
}

func parseCSV(r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	records := []domain.Record{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		field := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		date, err := parseDate(field("date"))
		if err != nil {
			return nil, fmt.Errorf("invalid date on line %d: %w", line, err)
		}
		records = append(records, domain.Record{
			Author: field("author"),
			Type:   domain.ActivityType(strings.ToLower(field("type"))),
			Date:   date,
			Repo:   field("repo"),
		})
	}
	return records, nil
}

type jsonRecord struct {
	Author string `json:"author"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Repo   string `json:"repo"`
}

func parseJSON(r io.Reader) ([]domain.Record, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to decode JSON input: %w", err)
	}
	records := make([]domain.Record, 0, len(raw))
	for i, item := range raw {
		date, err := parseDate(strings.TrimSpace(item.Date))
		if err != nil {
			return nil, fmt.Errorf("invalid date in element %d: %w", i, err)
		}
		records = append(records, domain.Record{
			Author: strings.TrimSpace(item.Author),
			Type:   domain.ActivityType(strings.ToLower(strings.TrimSpace(item.Type))),
			Date:   date,
			Repo:   strings.TrimSpace(item.Repo),
		})
	}
	return records, nil
}

// parseDate accepts an empty value as the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
