package ingest

import "testing"

func TestDecodeSyncPayload(t *testing.T) {
	body := []byte(`{
		"token": "abc123",
		"user_id": "alice",
		"data": {
			"heart_rate": [
				{"timestamp": "2026-08-30T08:00:00Z", "value": 61},
				{"timestamp": "2026-08-30T09:00:00Z", "value": 62}
			],
			"steps": [{"value": 10321}]
		}
	}`)

	payload, err := DecodeSyncPayload(body)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.UserID != "alice" {
		t.Fatalf("expected user alice, got %q", payload.UserID)
	}
	if payload.Token != "abc123" {
		t.Fatalf("expected token to be carried, got %q", payload.Token)
	}
	series := payload.Data["heart_rate"]
	if len(series) != 2 {
		t.Fatalf("expected 2 heart_rate readings, got %d", len(series))
	}
	if series[1].Value != 62.0 {
		t.Fatalf("expected latest value 62, got %v", series[1].Value)
	}
}

func TestDecodeSyncPayloadDefaultsUser(t *testing.T) {
	payload, err := DecodeSyncPayload([]byte(`{"data": {"steps": [{"value": 1}]}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.UserID != defaultUserID {
		t.Fatalf("expected default user %q, got %q", defaultUserID, payload.UserID)
	}
}

func TestDecodeSyncPayloadRejectsMalformed(t *testing.T) {
	if _, err := DecodeSyncPayload([]byte(`{"data": `)); err == nil {
		t.Fatal("expected parse error for truncated body")
	}
	if _, err := DecodeSyncPayload([]byte(`{"data": {"steps": "not-a-list"}}`)); err == nil {
		t.Fatal("expected validation error for scalar series")
	}
	if _, err := DecodeSyncPayload([]byte(`{"user_id": 42, "data": {}}`)); err == nil {
		t.Fatal("expected validation error for numeric user_id")
	}
}

func TestDecodeSyncPayloadAcceptsUnknownMetrics(t *testing.T) {
	payload, err := DecodeSyncPayload([]byte(`{"data": {"future_metric": [{"value": 3}]}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(payload.Data["future_metric"]) != 1 {
		t.Fatal("expected unknown metric series to pass through")
	}
}
