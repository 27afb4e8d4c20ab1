package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/gregt1993/Health-Bridge/components/ingest"
)

// SyncInput carries a decoded webhook payload into the ingestion pipeline.
type SyncInput struct {
	WebhookID string
	Payload   ingest.SyncPayload
}

type syncApplier interface {
	ApplySync(ctx context.Context, payload ingest.SyncPayload) error
}

// SyncCommand applies one payload against the state table.
type SyncCommand struct {
	service   syncApplier
	telemetry Telemetry
}

// NewSyncCommand creates the command.
func NewSyncCommand(service syncApplier, telemetry Telemetry) *SyncCommand {
	return &SyncCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SyncInput] = (*SyncCommand)(nil)

// Execute runs the ingestion service for the payload.
func (c *SyncCommand) Execute(ctx context.Context, msg SyncInput) error {
	if c.service == nil {
		return errors.New("sync command requires service")
	}
	if err := c.service.ApplySync(ctx, msg.Payload); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "ingest.command.sync", map[string]any{
		"webhook_id": msg.WebhookID,
		"user":       msg.Payload.UserID,
		"metrics":    len(msg.Payload.Data),
	})
	return nil
}
