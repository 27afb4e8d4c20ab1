package states

import (
	"sync"
	"time"
)

// ChangeEvent describes a state-table mutation delivered to watchers.
type ChangeEvent struct {
	EntityID string      `json:"entity_id"`
	State    EntityState `json:"state"`
	Reason   string      `json:"reason"`
}

// Change reasons.
const (
	ReasonCreate = "create"
	ReasonUpdate = "update"
)

// Registry is the in-process entity-state table. All access is
// concurrency-safe; watchers receive change events with non-blocking fan-out
// so a slow consumer never stalls ingestion.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]EntityState

	watchMu  sync.RWMutex
	watchers map[int]chan ChangeEvent
	nextID   int
}

// NewRegistry returns an empty state table.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityState),
		watchers: make(map[int]chan ChangeEvent),
	}
}

// Set stores an entity state, stamping LastUpdated, and notifies watchers.
// It returns the stored value.
func (r *Registry) Set(state EntityState) EntityState {
	state.LastUpdated = time.Now().UTC()
	r.mu.Lock()
	_, existed := r.entities[state.EntityID]
	r.entities[state.EntityID] = state
	r.mu.Unlock()

	reason := ReasonUpdate
	if !existed {
		reason = ReasonCreate
	}
	r.notify(ChangeEvent{EntityID: state.EntityID, State: state, Reason: reason})
	return state
}

// Get returns the current state of an entity.
func (r *Registry) Get(entityID string) (EntityState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.entities[entityID]
	return state, ok
}

// Snapshot returns a copy of the full state table.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(Snapshot, len(r.entities))
	for id, state := range r.entities {
		snap[id] = state
	}
	return snap
}

// Load replaces missing entries from persisted states without emitting
// change events. Existing in-memory entries win.
func (r *Registry) Load(persisted []EntityState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, state := range persisted {
		if _, ok := r.entities[state.EntityID]; !ok {
			r.entities[state.EntityID] = state
		}
	}
}

// Watch returns a channel of change events and a cancel func.
func (r *Registry) Watch() (<-chan ChangeEvent, func()) {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	id := r.nextID
	r.nextID++
	ch := make(chan ChangeEvent, 16)
	r.watchers[id] = ch
	cancel := func() {
		r.watchMu.Lock()
		defer r.watchMu.Unlock()
		if sub, ok := r.watchers[id]; ok {
			delete(r.watchers, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (r *Registry) notify(event ChangeEvent) {
	r.watchMu.RLock()
	defer r.watchMu.RUnlock()
	for _, ch := range r.watchers {
		select {
		case ch <- event:
		default:
		}
	}
}
