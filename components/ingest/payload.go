package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Reading is one datapoint of a metric series as sent by the companion app.
type Reading struct {
	Timestamp string `json:"timestamp,omitempty"`
	Value     any    `json:"value"`
}

// SyncPayload is the webhook body pushed by the companion app. The token
// travels with the payload but is never matched here; the handshake belongs
// to the caller's deployment, not this service.
type SyncPayload struct {
	Token  string               `json:"token,omitempty"`
	UserID string               `json:"user_id"`
	Data   map[string][]Reading `json:"data"`
}

// defaultUserID is applied when a payload omits user_id, mirroring what the
// companion app's oldest releases send.
const defaultUserID = "unknown"

const payloadSchema = `{
	"type": "object",
	"properties": {
		"token": {"type": "string"},
		"user_id": {"type": "string"},
		"data": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"timestamp": {"type": "string"}
					}
				}
			}
		}
	}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func syncSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("sync_payload.json", strings.NewReader(payloadSchema)); err != nil {
			schemaErr = fmt.Errorf("ingest: load payload schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("sync_payload.json")
	})
	return compiledSchema, schemaErr
}

// DecodeSyncPayload parses and validates a webhook body.
func DecodeSyncPayload(body []byte) (SyncPayload, error) {
	schema, err := syncSchema()
	if err != nil {
		return SyncPayload{}, err
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return SyncPayload{}, fmt.Errorf("ingest: parse payload: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return SyncPayload{}, fmt.Errorf("ingest: payload failed validation: %w", err)
	}
	var payload SyncPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return SyncPayload{}, fmt.Errorf("ingest: decode payload: %w", err)
	}
	if payload.UserID == "" {
		payload.UserID = defaultUserID
	}
	return payload, nil
}
