package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"

	"github.com/gregt1993/Health-Bridge/components/ingest"
)

// TestConnectionInput probes the ingestion pipeline on behalf of a user.
type TestConnectionInput struct {
	UserID string `json:"user_id"`
}

// TestConnectionCommand sends a connection probe through the same path a
// companion-app payload takes, so success proves the full pipeline works.
type TestConnectionCommand struct {
	service   syncApplier
	telemetry Telemetry
}

// NewTestConnectionCommand creates the command.
func NewTestConnectionCommand(service syncApplier, telemetry Telemetry) *TestConnectionCommand {
	return &TestConnectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TestConnectionInput] = (*TestConnectionCommand)(nil)

// Execute applies a probe payload for the user.
func (c *TestConnectionCommand) Execute(ctx context.Context, msg TestConnectionInput) error {
	if c.service == nil {
		return errors.New("test-connection command requires service")
	}
	payload := ingest.SyncPayload{
		UserID: msg.UserID,
		Data: map[string][]ingest.Reading{
			"test_connection": {{Timestamp: time.Now().UTC().Format(time.RFC3339), Value: 1}},
		},
	}
	if err := c.service.ApplySync(ctx, payload); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "ingest.command.test_connection", map[string]any{
		"user": payload.UserID,
	})
	return nil
}
