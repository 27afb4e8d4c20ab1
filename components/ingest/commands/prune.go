package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"
)

// PruneHistoryInput drops persisted readings older than the retention window.
type PruneHistoryInput struct {
	Retention time.Duration
}

type historyPruner interface {
	PruneReadings(olderThan time.Time) (int64, error)
}

// PruneHistoryCommand enforces the reading retention policy.
type PruneHistoryCommand struct {
	store     historyPruner
	telemetry Telemetry
	now       func() time.Time
}

// NewPruneHistoryCommand creates the command.
func NewPruneHistoryCommand(store historyPruner, telemetry Telemetry) *PruneHistoryCommand {
	return &PruneHistoryCommand{store: store, telemetry: normalizeTelemetry(telemetry), now: time.Now}
}

var _ gocommand.Commander[PruneHistoryInput] = (*PruneHistoryCommand)(nil)

// Execute deletes readings past the retention horizon.
func (c *PruneHistoryCommand) Execute(ctx context.Context, msg PruneHistoryInput) error {
	if c.store == nil {
		return errors.New("prune command requires store")
	}
	if msg.Retention <= 0 {
		return errors.New("prune command requires a positive retention window")
	}
	cutoff := c.now().Add(-msg.Retention)
	removed, err := c.store.PruneReadings(cutoff)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "ingest.command.prune", map[string]any{
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
		"removed": removed,
	})
	return nil
}
