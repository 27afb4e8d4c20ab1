package metrics

import (
	"fmt"

	"github.com/ettle/strcase"
)

// Domain is the platform prefix used when deriving identifiers.
const Domain = "health_bridge"

// Display-name overrides for metrics whose title-cased key reads poorly.
var displayOverrides = map[string]string{
	"sleep_duration":    "Sleep Duration",
	"sleep_rem_hours":   "REM Sleep Duration",
	"sleep_core_hours":  "Light Sleep Duration",
	"sleep_deep_hours":  "Deep Sleep Duration",
	"sleep_awake_hours": "Sleep Awake Duration",
	"last_sync_time":    "Last Sync Time",
}

// DisplayName renders a metric key as a human readable title, e.g.
// "heart_rate" becomes "Heart Rate".
func DisplayName(metric string) string {
	if name, ok := displayOverrides[metric]; ok {
		return name
	}
	return strcase.ToCase(metric, strcase.TitleCase, ' ')
}

// FriendlyName follows the naming convention the dashboard groups by:
// "<Display Name> (<user>)".
func FriendlyName(metric, userID string) string {
	return fmt.Sprintf("%s (%s)", DisplayName(metric), userID)
}

// EntityID derives the state-table identifier for a user's metric sensor.
func EntityID(metric, userID string) string {
	return fmt.Sprintf("sensor.%s_%s", metric, userID)
}

// UniqueID derives the stable identity carried in entity attributes.
func UniqueID(metric, userID string) string {
	return fmt.Sprintf("%s_%s_%s", Domain, metric, userID)
}

// DeviceName labels the per-user device grouping.
func DeviceName(userID string) string {
	return fmt.Sprintf("Health Bridge (%s)", userID)
}
