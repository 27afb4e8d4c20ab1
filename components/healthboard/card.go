package healthboard

import (
	"context"
	"sync"

	"github.com/gregt1993/Health-Bridge/pkg/states"
)

const (
	// CardType is the registry type name of the metrics dashboard card.
	CardType = "health-bridge-dashboard"

	// DefaultTitle is the header rendered when no title is configured.
	DefaultTitle = "Health Bridge"

	// PlaceholderMessage is shown when no entity matches the naming
	// convention. First run with no data yet is an expected state, not an
	// error.
	PlaceholderMessage = "No health data available yet"

	// displayHeight is a relative sizing hint for hosting layouts.
	displayHeight = 3
)

// CardOptions configures a MetricsCard. Collaborators are interfaces so the
// card renders the same through any template stack.
type CardOptions struct {
	Renderer  Renderer
	Telemetry Telemetry
}

// MetricsCard groups metric sensors by user and renders them as a grid of
// cards per user. Every snapshot update re-runs the full filter/group/render
// pass; at tens of cards a rebuild is cheaper than incremental diffing.
type MetricsCard struct {
	renderer  Renderer
	telemetry Telemetry

	mu            sync.RWMutex
	config        *CardConfig
	board         Board
	html          string
	lastUnmatched int
}

// NewMetricsCard builds an unconfigured card. It renders nothing until
// Configure has been called.
func NewMetricsCard(opts CardOptions) *MetricsCard {
	return &MetricsCard{
		renderer:  opts.Renderer,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
}

// Configure accepts a configuration object with an optional "title" key and
// stores the resolved configuration. Non-map input is silently ignored; no
// further validation happens here (the registry validates card configuration
// against its schema before it reaches the card).
func (c *MetricsCard) Configure(raw any) {
	cfg, ok := raw.(map[string]any)
	if !ok {
		return
	}
	resolved := CardConfig{Title: DefaultTitle}
	if title, ok := cfg["title"].(string); ok && title != "" {
		resolved.Title = title
	}
	c.mu.Lock()
	c.config = &resolved
	c.mu.Unlock()
}

// Configured reports whether Configure has run.
func (c *MetricsCard) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config != nil
}

// OnSnapshotUpdate is the sole state-mutation entry point. The host invokes
// it on every entity change anywhere in the system; the card cannot tell
// relevant from irrelevant changes upstream, so it always rebuilds. Running
// it twice with the same snapshot produces identical output.
func (c *MetricsCard) OnSnapshotUpdate(ctx context.Context, snapshot states.Snapshot) {
	c.mu.RLock()
	config := c.config
	c.mu.RUnlock()
	if config == nil {
		return
	}

	groups, unmatched := groupMetrics(snapshot)
	board := Board{Title: config.Title, Groups: groups}
	if board.Empty() {
		board.Placeholder = PlaceholderMessage
	}

	html := ""
	if c.renderer != nil {
		rendered, err := c.renderer.Render("board", boardContext(board))
		if err != nil {
			// Malformed data never fails the whole render; surface the
			// error through telemetry and keep the structured board.
			c.telemetry.Record(ctx, "healthboard.render_error", map[string]any{
				"error": err.Error(),
			})
		} else {
			html = rendered
		}
	}

	c.mu.Lock()
	c.board = board
	c.html = html
	c.lastUnmatched = unmatched
	c.mu.Unlock()

	c.telemetry.Record(ctx, "healthboard.render", map[string]any{
		"groups":    len(groups),
		"unmatched": unmatched,
	})
}

// Board returns the visual tree produced by the last update.
func (c *MetricsCard) Board() Board {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.board
}

// HTML returns the markup produced by the last update, or "" before the
// first configured update.
func (c *MetricsCard) HTML() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.html
}

// UnmatchedEntities counts sensor entities the last update dropped for not
// matching the friendly-name convention. Exposed for diagnostics; the visual
// output never reports them.
func (c *MetricsCard) UnmatchedEntities() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUnmatched
}

// PreferredDisplayHeight returns a fixed relative sizing hint consumed by
// hosting layouts.
func (c *MetricsCard) PreferredDisplayHeight() int {
	return displayHeight
}

func boardContext(board Board) map[string]any {
	groups := make([]map[string]any, 0, len(board.Groups))
	for _, group := range board.Groups {
		cards := make([]map[string]any, 0, len(group.Cards))
		for _, card := range group.Cards {
			cards = append(cards, map[string]any{
				"entity_id": card.EntityID,
				"icon":      card.Icon,
				"value":     card.Value,
				"name":      card.Name,
				"unit":      card.Unit,
			})
		}
		groups = append(groups, map[string]any{
			"key":   group.Key,
			"cards": cards,
		})
	}
	return map[string]any{
		"title":       board.Title,
		"groups":      groups,
		"placeholder": board.Placeholder,
	}
}
