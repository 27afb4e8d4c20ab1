package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gregt1993/Health-Bridge/pkg/metrics"
	"github.com/gregt1993/Health-Bridge/pkg/states"
)

// testConnectionMetric is the probe key the companion app sends when the
// user taps "test connection"; it never becomes an entity.
const testConnectionMetric = "test_connection"

// syncThrottle caps how often the last-sync entity is rewritten per user.
const syncThrottle = 10 * time.Second

// HistorySink persists entity states and numeric readings across restarts.
type HistorySink interface {
	SaveState(state states.EntityState) error
	AppendReading(entityID string, value float64, at time.Time) error
}

// Options configures a Service. States is required.
type Options struct {
	States    *states.Registry
	History   HistorySink
	Notifier  Notifier
	Telemetry Telemetry

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Service turns webhook payloads into entity-state updates.
type Service struct {
	registry  *states.Registry
	history   HistorySink
	notifier  Notifier
	telemetry Telemetry
	now       func() time.Time

	mu       sync.Mutex
	lastSync map[string]time.Time
}

// NewService builds an ingestion service from options.
func NewService(opts Options) (*Service, error) {
	if opts.States == nil {
		return nil, errors.New("ingest: state registry is required")
	}
	svc := &Service{
		registry:  opts.States,
		history:   opts.History,
		notifier:  opts.Notifier,
		telemetry: normalizeTelemetry(opts.Telemetry),
		now:       opts.Now,
		lastSync:  make(map[string]time.Time),
	}
	if svc.notifier == nil {
		svc.notifier = noopNotifier{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// ApplySync processes one webhook payload: it stamps the user's last-sync
// entity, answers connection probes with a notification, and upserts one
// sensor entity per reported metric using the latest reading of each series.
// Persistence failures are accumulated; the state table always reflects the
// payload even when history writes fail.
func (s *Service) ApplySync(ctx context.Context, payload SyncPayload) error {
	userID := payload.UserID
	if userID == "" {
		userID = defaultUserID
	}

	s.stampLastSync(userID)

	if _, ok := payload.Data[testConnectionMetric]; ok {
		s.notifier.Notify(ctx, metrics.Domain+"_test_connection", "Health Bridge",
			"Health Bridge connection successful!")
		s.telemetry.Record(ctx, "ingest.test_connection", map[string]any{"user": userID})
		return nil
	}

	names := make([]string, 0, len(payload.Data))
	for name := range payload.Data {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	updated := 0
	uncataloged := 0
	for _, name := range names {
		series := payload.Data[name]
		if len(series) == 0 {
			continue
		}
		latest := series[len(series)-1]
		if latest.Value == nil {
			continue
		}
		if !metrics.Supported(name) {
			uncataloged++
		}
		if err := s.applyReading(name, userID, latest); err != nil {
			errs = append(errs, err)
			continue
		}
		updated++
	}

	s.telemetry.Record(ctx, "ingest.sync", map[string]any{
		"user":        userID,
		"metrics":     updated,
		"uncataloged": uncataloged,
		"errors":      len(errs),
	})
	return errors.Join(errs...)
}

func (s *Service) applyReading(metric, userID string, reading Reading) error {
	value := normalizeValue(metric, reading.Value)
	def, _ := metrics.Lookup(metric)

	stateValue := formatValue(value)
	unit := def.Unit
	if metric == "sleep_duration" {
		if hours, ok := toFloat(value); ok {
			stateValue = fmt.Sprintf("%d", sleepHoursToMinutes(hours))
			unit = "min"
		}
	}
	if stateValue == "" {
		return fmt.Errorf("ingest: metric %q for user %q has no usable value", metric, userID)
	}

	attrs := map[string]any{
		states.AttrFriendlyName: metrics.FriendlyName(metric, userID),
		states.AttrIcon:         def.Icon,
		states.AttrUniqueID:     metrics.UniqueID(metric, userID),
		states.AttrDeviceName:   metrics.DeviceName(userID),
	}
	if unit != "" {
		attrs[states.AttrUnit] = unit
	}
	if def.DeviceClass != "" {
		attrs[states.AttrDeviceClass] = def.DeviceClass
	}
	if def.StateClass != "" {
		attrs[states.AttrStateClass] = def.StateClass
	}

	stored := s.registry.Set(states.EntityState{
		EntityID:   metrics.EntityID(metric, userID),
		State:      stateValue,
		Attributes: attrs,
	})
	return s.persist(stored, value)
}

func (s *Service) persist(state states.EntityState, value any) error {
	if s.history == nil {
		return nil
	}
	var errs []error
	if err := s.history.SaveState(state); err != nil {
		errs = append(errs, fmt.Errorf("ingest: save state %s: %w", state.EntityID, err))
	}
	if v, ok := toFloat(value); ok {
		if err := s.history.AppendReading(state.EntityID, v, state.LastUpdated); err != nil {
			errs = append(errs, fmt.Errorf("ingest: append reading %s: %w", state.EntityID, err))
		}
	}
	return errors.Join(errs...)
}

// stampLastSync refreshes the per-user last-sync entity, at most once per
// throttle window so chatty clients don't flood watchers with no-op updates.
func (s *Service) stampLastSync(userID string) {
	now := s.now().UTC()

	s.mu.Lock()
	if last, ok := s.lastSync[userID]; ok && now.Sub(last) < syncThrottle {
		s.mu.Unlock()
		return
	}
	s.lastSync[userID] = now
	s.mu.Unlock()

	const metric = "last_sync_time"
	def, _ := metrics.Lookup(metric)
	stored := s.registry.Set(states.EntityState{
		EntityID: metrics.EntityID(metric, userID),
		State:    now.Format(time.RFC3339),
		Attributes: map[string]any{
			states.AttrFriendlyName: metrics.FriendlyName(metric, userID),
			states.AttrIcon:         def.Icon,
			states.AttrDeviceClass:  def.DeviceClass,
			states.AttrUniqueID:     metrics.UniqueID(metric, userID),
			states.AttrDeviceName:   metrics.DeviceName(userID),
		},
	})
	if s.history != nil {
		// Best effort; sync stamps are reconstructed on the next payload.
		_ = s.history.SaveState(stored)
	}
}
