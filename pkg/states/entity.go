package states

import "time"

// Attribute keys shared with the dashboard and the ingest pipeline.
const (
	AttrFriendlyName = "friendly_name"
	AttrUnit         = "unit_of_measurement"
	AttrIcon         = "icon"
	AttrDeviceClass  = "device_class"
	AttrStateClass   = "state_class"
	AttrUniqueID     = "unique_id"
	AttrDeviceName   = "device_name"
)

// EntityState is one named data point in the state table. The registry owns
// the lifecycle; consumers treat instances as read-only values.
type EntityState struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastUpdated time.Time      `json:"last_updated"`
}

// FriendlyName returns the display name attribute, or "" when unset.
func (e EntityState) FriendlyName() string {
	name, _ := e.Attributes[AttrFriendlyName].(string)
	return name
}

// Unit returns the unit_of_measurement attribute, or "" when unset.
func (e EntityState) Unit() string {
	unit, _ := e.Attributes[AttrUnit].(string)
	return unit
}

// Icon returns the icon attribute, or "" when unset.
func (e EntityState) Icon() string {
	icon, _ := e.Attributes[AttrIcon].(string)
	return icon
}

// Snapshot is the complete point-in-time mapping of entity identifiers to
// their states. A fresh copy is handed out on every read; holders never see
// later mutations.
type Snapshot map[string]EntityState
