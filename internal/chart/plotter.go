// Package chart renders contribution bar charts with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/naka-gawa/github-contribs/internal/domain"
	"github.com/naka-gawa/github-contribs/internal/usecase"
)

// ErrNoData is returned when no author is left to plot.
var ErrNoData = errors.New("no contribution data to plot")

// DefaultTopN is the number of authors shown when the caller does not say otherwise.
const DefaultTopN = 10

var palette = map[domain.ActivityType]color.Color{
	domain.Commit:      color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
	domain.Issue:       color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
	domain.PullRequest: color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
}

// Figure is a built chart together with the size it should be rendered at.
type Figure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
	// Authors lists the plotted authors from the first category to the last.
	Authors []string
}

// WriteTo renders the figure in the given format.
func (f *Figure) WriteTo(w io.Writer, format Format) error {
	wt, err := f.Plot.WriterTo(f.Width, f.Height, string(format))
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// Plotter draws charts from one contribution table held for its lifetime.
type Plotter struct {
	records []domain.Record
	logger  *log.Logger
}

// NewPlotter creates a Plotter over records.
func NewPlotter(records []domain.Record, logger *log.Logger) *Plotter {
	return &Plotter{
		records: records,
		logger:  logger,
	}
}

// PlotContributorActivity renders a horizontal bar chart of contribution types
// for the topN most active authors.
func (p *Plotter) PlotContributorActivity(w io.Writer, topN int, format Format) error {
	fig, err := p.ContributorActivityPlot(topN)
	if err != nil {
		return err
	}
	return fig.WriteTo(w, format)
}

// PlotLeastActive renders a vertical bar chart of contribution types for the
// topN least active authors, leaving out exclude entirely.
func (p *Plotter) PlotLeastActive(w io.Writer, topN int, exclude string, format Format) error {
	fig, err := p.LeastActivePlot(topN, exclude)
	if err != nil {
		return err
	}
	return fig.WriteTo(w, format)
}

// ContributorActivityPlot builds the figure drawn by PlotContributorActivity.
func (p *Plotter) ContributorActivityPlot(topN int) (*Figure, error) {
	stats := usecase.TopN(usecase.CountByAuthor(p.records), topN)
	p.logger.Printf("Chart: plotting contributor activity for %d authors", len(stats))
	if len(stats) == 0 {
		return nil, ErrNoData
	}

	height := vg.Length(math.Max(8, float64(topN)*0.5)) * vg.Inch
	fig := &Figure{
		Plot:   plot.New(),
		Width:  12 * vg.Inch,
		Height: height,
	}
	pl := fig.Plot
	pl.Title.Text = "Contribution Types by Author"
	pl.X.Label.Text = "Number of Contributions"
	pl.Y.Label.Text = "Author"
	pl.Legend.Top = true

	// The first category is drawn at the bottom, so the least active of the
	// top authors goes last to end up on top.
	stats = reversed(stats)
	fig.Authors = authorsOf(stats)
	if err := addGroupedBars(pl, usecase.Melt(stats), fig.Authors, true, barWidth(height, len(stats))); err != nil {
		return nil, err
	}
	pl.NominalY(fig.Authors...)
	pl.Y.Min = -0.5
	pl.Y.Max = float64(len(stats)) - 0.5
	pl.X.Min = 0
	pl.Add(plotter.NewGrid())
	return fig, nil
}

// LeastActivePlot builds the figure drawn by PlotLeastActive.
func (p *Plotter) LeastActivePlot(topN int, exclude string) (*Figure, error) {
	records := usecase.Exclude(p.records, exclude)
	stats := usecase.BottomN(usecase.CountByAuthor(records), topN)
	p.logger.Printf("Chart: plotting least active contributors for %d authors (excluded %q)", len(stats), exclude)
	if len(stats) == 0 {
		return nil, ErrNoData
	}

	width := vg.Length(math.Max(12, float64(topN)*0.6)) * vg.Inch
	fig := &Figure{
		Plot:   plot.New(),
		Width:  width,
		Height: 8 * vg.Inch,
	}
	pl := fig.Plot
	pl.Title.Text = leastActiveTitle(len(stats), exclude)
	pl.X.Label.Text = "Author"
	pl.Y.Label.Text = "Number of Contributions"
	pl.Legend.Top = true

	fig.Authors = authorsOf(stats)
	if err := addGroupedBars(pl, usecase.Melt(stats), fig.Authors, false, barWidth(width, len(stats))); err != nil {
		return nil, err
	}
	pl.NominalX(fig.Authors...)
	pl.X.Min = -0.5
	pl.X.Max = float64(len(stats)) - 0.5
	pl.Y.Min = 0
	pl.X.Tick.Label.Rotation = math.Pi / 4
	pl.X.Tick.Label.XAlign = text.XRight
	pl.X.Tick.Label.YAlign = text.YCenter
	pl.Add(plotter.NewGrid())
	return fig, nil
}

func leastActiveTitle(n int, exclude string) string {
	title := fmt.Sprintf("Contribution Types for the %d Least Active Authors", n)
	if exclude != "" {
		title += fmt.Sprintf(" (excluding %s)", exclude)
	}
	return title
}

func reversed(stats []*domain.AuthorStats) []*domain.AuthorStats {
	out := make([]*domain.AuthorStats, len(stats))
	for i, s := range stats {
		out[len(stats)-1-i] = s
	}
	return out
}

func authorsOf(stats []*domain.AuthorStats) []string {
	authors := make([]string, len(stats))
	for i, s := range stats {
		authors[i] = s.Author
	}
	return authors
}

// barWidth splits the category axis length between n groups of three bars.
func barWidth(axis vg.Length, n int) vg.Length {
	usable := axis - 1.5*vg.Inch
	if usable <= 0 {
		usable = axis
	}
	return usable * 0.8 / vg.Length(n*len(domain.ActivityTypes()))
}

// addGroupedBars adds one bar series per activity type from the long form rows,
// with a centred value label on every non-zero bar.
func addGroupedBars(pl *plot.Plot, rows []domain.ActivityCount, authors []string, horizontal bool, width vg.Length) error {
	index := make(map[string]int, len(authors))
	for i, a := range authors {
		index[a] = i
	}
	types := domain.ActivityTypes()
	series := make(map[domain.ActivityType]plotter.Values, len(types))
	for _, t := range types {
		series[t] = make(plotter.Values, len(authors))
	}
	for _, row := range rows {
		series[row.Activity][index[row.Author]] = float64(row.Count)
	}

	for k, t := range types {
		offset := width * vg.Length(k-len(types)/2)

		bars, err := plotter.NewBarChart(series[t], width)
		if err != nil {
			return fmt.Errorf("failed to create bar chart for %s: %w", t.Label(), err)
		}
		bars.Horizontal = horizontal
		bars.Color = palette[t]
		bars.LineStyle.Width = 0
		bars.Offset = offset
		pl.Add(bars)
		pl.Legend.Add(t.Label(), bars)

		labels, err := valueLabels(series[t], horizontal, offset)
		if err != nil {
			return fmt.Errorf("failed to create labels for %s: %w", t.Label(), err)
		}
		if labels != nil {
			pl.Add(labels)
		}
	}
	return nil
}

func valueLabels(values plotter.Values, horizontal bool, offset vg.Length) (*plotter.Labels, error) {
	var (
		xys  plotter.XYs
		strs []string
	)
	for i, v := range values {
		if v == 0 {
			continue
		}
		pt := plotter.XY{X: float64(i), Y: v / 2}
		if horizontal {
			pt = plotter.XY{X: v / 2, Y: float64(i)}
		}
		xys = append(xys, pt)
		strs = append(strs, strconv.Itoa(int(v)))
	}
	if len(xys) == 0 {
		return nil, nil
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: strs})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	if horizontal {
		labels.Offset = vg.Point{Y: offset}
	} else {
		labels.Offset = vg.Point{X: offset}
	}
	return labels, nil
}
