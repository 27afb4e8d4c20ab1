package healthboard

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/gregt1993/Health-Bridge/pkg/states"
)

const (
	defaultChartHeight  = "360px"
	defaultReadingLimit = 50
)

var sharedTrendCache = NewTrendCache(5 * time.Minute)

// ReadingSource supplies historical readings for an entity.
type ReadingSource interface {
	Readings(entityID string, limit int) ([]states.Reading, error)
}

// TrendProvider renders server-side line charts of a metric's recent
// readings.
type TrendProvider struct {
	source ReadingSource
	cache  RenderCache
	theme  string
	limit  int
}

// TrendProviderOption customizes provider behavior.
type TrendProviderOption func(*TrendProvider)

// WithTrendCache injects a render cache.
func WithTrendCache(cache RenderCache) TrendProviderOption {
	return func(p *TrendProvider) {
		p.cache = cache
	}
}

// WithTrendTheme sets the chart theme (defaults to Westeros).
func WithTrendTheme(theme string) TrendProviderOption {
	return func(p *TrendProvider) {
		p.theme = theme
	}
}

// WithReadingLimit caps how many readings a chart plots.
func WithReadingLimit(limit int) TrendProviderOption {
	return func(p *TrendProvider) {
		p.limit = limit
	}
}

// NewTrendProvider builds a provider over a reading source.
func NewTrendProvider(source ReadingSource, options ...TrendProviderOption) *TrendProvider {
	p := &TrendProvider{
		source: source,
		cache:  sharedTrendCache,
		theme:  types.ThemeWesteros,
		limit:  defaultReadingLimit,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// ChartHTML renders the reading history of an entity as chart markup. The
// entity's friendly name titles the chart and its unit labels the series.
func (p *TrendProvider) ChartHTML(entity states.EntityState) (string, error) {
	if p.source == nil {
		return "", fmt.Errorf("healthboard: trend provider has no reading source")
	}
	render := func() (string, error) {
		readings, err := p.source.Readings(entity.EntityID, p.limit)
		if err != nil {
			return "", fmt.Errorf("healthboard: load readings for %s: %w", entity.EntityID, err)
		}
		if len(readings) == 0 {
			return "", fmt.Errorf("healthboard: no readings recorded for %s", entity.EntityID)
		}
		return p.renderLineChart(entity, readings)
	}
	if p.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%d:%d", entity.EntityID, p.limit, entity.LastUpdated.UnixNano())
	return p.cache.GetOrRender(key, render)
}

func (p *TrendProvider) renderLineChart(entity states.EntityState, readings []states.Reading) (string, error) {
	title := entity.FriendlyName()
	if title == "" {
		title = entity.EntityID
	}
	seriesName := entity.Unit()
	if seriesName == "" {
		seriesName = "value"
	}

	labels := make([]string, len(readings))
	points := make([]opts.LineData, len(readings))
	for i, r := range readings {
		labels[i] = r.RecordedAt.Local().Format("Jan 2 15:04")
		points[i] = opts.LineData{Value: r.Value}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  p.theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(labels)
	line.AddSeries(seriesName, points)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("healthboard: render trend chart for %s: %w", entity.EntityID, err)
	}
	return buf.String(), nil
}
