package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/gregt1993/Health-Bridge/pkg/states"
)

type recordingSink struct {
	saved    []states.EntityState
	readings []float64
}

func (r *recordingSink) SaveState(state states.EntityState) error {
	r.saved = append(r.saved, state)
	return nil
}

func (r *recordingSink) AppendReading(_ string, value float64, _ time.Time) error {
	r.readings = append(r.readings, value)
	return nil
}

func newTestService(t *testing.T, opts Options) (*Service, *states.Registry) {
	t.Helper()
	if opts.States == nil {
		opts.States = states.NewRegistry()
	}
	svc, err := NewService(opts)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, opts.States
}

func TestApplySyncCreatesEntities(t *testing.T) {
	svc, registry := newTestService(t, Options{})

	payload := SyncPayload{
		UserID: "alice",
		Data: map[string][]Reading{
			"heart_rate": {{Value: 61.0}, {Value: 62.0}},
			"steps":      {{Value: 10321.0}},
		},
	}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	hr, ok := registry.Get("sensor.heart_rate_alice")
	if !ok {
		t.Fatal("expected heart_rate entity")
	}
	if hr.State != "62" {
		t.Fatalf("expected latest reading 62, got %q", hr.State)
	}
	if got := hr.FriendlyName(); got != "Heart Rate (alice)" {
		t.Fatalf("unexpected friendly name %q", got)
	}
	if got := hr.Unit(); got != "bpm" {
		t.Fatalf("unexpected unit %q", got)
	}
	if got := hr.Attributes[states.AttrUniqueID]; got != "health_bridge_heart_rate_alice" {
		t.Fatalf("unexpected unique id %v", got)
	}
	if got := hr.Attributes[states.AttrDeviceName]; got != "Health Bridge (alice)" {
		t.Fatalf("unexpected device name %v", got)
	}

	if _, ok := registry.Get("sensor.steps_alice"); !ok {
		t.Fatal("expected steps entity")
	}
}

func TestApplySyncDefaultsUnknownUser(t *testing.T) {
	svc, registry := newTestService(t, Options{})

	payload := SyncPayload{Data: map[string][]Reading{"steps": {{Value: 5.0}}}}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	if _, ok := registry.Get("sensor.steps_unknown"); !ok {
		t.Fatal("expected steps entity for the unknown user")
	}
}

func TestApplySyncSleepDurationPublishesMinutes(t *testing.T) {
	svc, registry := newTestService(t, Options{})

	payload := SyncPayload{
		UserID: "alice",
		Data:   map[string][]Reading{"sleep_duration": {{Value: 27000.0}}},
	}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	sleep, ok := registry.Get("sensor.sleep_duration_alice")
	if !ok {
		t.Fatal("expected sleep_duration entity")
	}
	if sleep.State != "450" {
		t.Fatalf("expected 450 minutes, got %q", sleep.State)
	}
	if got := sleep.Unit(); got != "min" {
		t.Fatalf("expected unit min, got %q", got)
	}
	if got := sleep.FriendlyName(); got != "Sleep Duration (alice)" {
		t.Fatalf("unexpected friendly name %q", got)
	}
}

func TestApplySyncPercentClamping(t *testing.T) {
	svc, registry := newTestService(t, Options{})

	payload := SyncPayload{
		UserID: "bob",
		Data:   map[string][]Reading{"oxygen_saturation": {{Value: 0.98}}},
	}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	o2, _ := registry.Get("sensor.oxygen_saturation_bob")
	if o2.State != "98" {
		t.Fatalf("expected scaled 98, got %q", o2.State)
	}
}

func TestApplySyncStampsLastSyncWithThrottle(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc, registry := newTestService(t, Options{Now: func() time.Time { return now }})

	payload := SyncPayload{UserID: "alice", Data: map[string][]Reading{"steps": {{Value: 1.0}}}}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	first, ok := registry.Get("sensor.last_sync_time_alice")
	if !ok {
		t.Fatal("expected last sync entity")
	}
	if first.State != "2026-08-30T12:00:00Z" {
		t.Fatalf("unexpected last sync state %q", first.State)
	}
	if got := first.FriendlyName(); got != "Last Sync Time (alice)" {
		t.Fatalf("unexpected friendly name %q", got)
	}
	if got := first.Icon(); got != "mdi:update" {
		t.Fatalf("unexpected icon %q", got)
	}

	// Within the throttle window the stamp does not move.
	now = now.Add(5 * time.Second)
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	second, _ := registry.Get("sensor.last_sync_time_alice")
	if second.State != first.State {
		t.Fatalf("expected throttled stamp %q, got %q", first.State, second.State)
	}

	// Past the window it refreshes.
	now = now.Add(6 * time.Second)
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	third, _ := registry.Get("sensor.last_sync_time_alice")
	if third.State != "2026-08-30T12:00:11Z" {
		t.Fatalf("expected refreshed stamp, got %q", third.State)
	}
}

func TestApplySyncTestConnection(t *testing.T) {
	center := NewNotificationCenter()
	svc, registry := newTestService(t, Options{Notifier: center})

	payload := SyncPayload{
		UserID: "alice",
		Data:   map[string][]Reading{"test_connection": {{Value: 1.0}}},
	}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	pending := center.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one notification, got %d", len(pending))
	}
	if pending[0].Message != "Health Bridge connection successful!" {
		t.Fatalf("unexpected message %q", pending[0].Message)
	}
	if _, ok := registry.Get("sensor.test_connection_alice"); ok {
		t.Fatal("connection probe must not create an entity")
	}

	center.Dismiss(pending[0].ID)
	if left := center.Pending(); len(left) != 0 {
		t.Fatalf("expected dismissal to clear, %d left", len(left))
	}
}

type capturingTelemetry struct {
	events   []string
	payloads []map[string]any
}

func (c *capturingTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	c.events = append(c.events, event)
	c.payloads = append(c.payloads, payload)
}

func (c *capturingTelemetry) last(event string) map[string]any {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i] == event {
			return c.payloads[i]
		}
	}
	return nil
}

func TestApplySyncUnknownMetricGetsDefaults(t *testing.T) {
	telemetry := &capturingTelemetry{}
	svc, registry := newTestService(t, Options{Telemetry: telemetry})

	payload := SyncPayload{
		UserID: "alice",
		Data:   map[string][]Reading{"future_metric": {{Value: 3.0}}},
	}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	sync := telemetry.last("ingest.sync")
	if sync == nil {
		t.Fatal("expected a sync telemetry event")
	}
	if got := sync["uncataloged"]; got != 1 {
		t.Fatalf("uncataloged = %v, want 1", got)
	}
	entity, ok := registry.Get("sensor.future_metric_alice")
	if !ok {
		t.Fatal("expected entity for unknown metric")
	}
	if got := entity.Icon(); got != "mdi:heart-pulse" {
		t.Fatalf("expected default icon, got %q", got)
	}
	if got := entity.Unit(); got != "" {
		t.Fatalf("expected no unit, got %q", got)
	}
	if got := entity.FriendlyName(); got != "Future Metric (alice)" {
		t.Fatalf("unexpected friendly name %q", got)
	}
}

func TestApplySyncPersistsHistory(t *testing.T) {
	sink := &recordingSink{}
	svc, _ := newTestService(t, Options{History: sink})

	payload := SyncPayload{
		UserID: "alice",
		Data:   map[string][]Reading{"heart_rate": {{Value: 62.0}}},
	}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	if len(sink.readings) != 1 || sink.readings[0] != 62.0 {
		t.Fatalf("expected one reading of 62, got %v", sink.readings)
	}
	// Last-sync stamp plus the metric state.
	if len(sink.saved) != 2 {
		t.Fatalf("expected 2 saved states, got %d", len(sink.saved))
	}
}

func TestApplySyncSkipsEmptyAndNilReadings(t *testing.T) {
	svc, registry := newTestService(t, Options{})

	payload := SyncPayload{UserID: "alice", Data: map[string][]Reading{
		"steps":      {},
		"heart_rate": {{Value: nil}},
	}}
	if err := svc.ApplySync(context.Background(), payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	if _, ok := registry.Get("sensor.steps_alice"); ok {
		t.Fatal("empty series must not create an entity")
	}
	if _, ok := registry.Get("sensor.heart_rate_alice"); ok {
		t.Fatal("nil reading must not create an entity")
	}
}
