package healthboard

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gregt1993/Health-Bridge/pkg/states"
)

const sensorPrefix = "sensor."

// UnknownIcon is rendered for metric cards whose entity carries no icon.
const UnknownIcon = "mdi:help-circle"

// trailingGroup captures the content of the parenthetical that terminates a
// friendly name, e.g. "Steps (alice)" -> "alice". Only the last parenthetical
// counts, so "Blood Pressure (sys) (alice)" groups under "alice".
var trailingGroup = regexp.MustCompile(`\(([^)]*)\)$`)

// isMetricSensor reports whether an entity id follows the sensor naming
// convention: the sensor prefix plus an underscore-delimited object id.
func isMetricSensor(entityID string) bool {
	if !strings.HasPrefix(entityID, sensorPrefix) {
		return false
	}
	return strings.Contains(entityID[len(sensorPrefix):], "_")
}

// splitFriendlyName extracts the grouping key from a friendly name and
// returns the display name with the trailing parenthetical stripped. ok is
// false when the name does not end in "(...)".
func splitFriendlyName(name string) (display, key string, ok bool) {
	trimmed := strings.TrimSpace(name)
	loc := trailingGroup.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return "", "", false
	}
	key = trimmed[loc[2]:loc[3]]
	display = strings.TrimSpace(trimmed[:loc[0]])
	return display, key, true
}

// groupMetrics filters a snapshot down to convention-matching metric sensors
// and clusters them by grouping key. Snapshot iteration order is defined as
// lexicographic entity-id order, which keeps group membership and ordering
// stable across renders of the same snapshot. The second return value counts
// sensor entities that were dropped for not matching the friendly-name
// convention.
func groupMetrics(snapshot states.Snapshot) ([]UserGroup, int) {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		order   []string
		byKey   = make(map[string]*UserGroup)
		dropped int
	)
	for _, id := range ids {
		entity := snapshot[id]
		if !isMetricSensor(id) {
			continue
		}
		name := entity.FriendlyName()
		if name == "" || !strings.Contains(name, "(") {
			dropped++
			continue
		}
		display, key, ok := splitFriendlyName(name)
		if !ok {
			// An opening parenthesis without a closing one at the end,
			// e.g. "Steps (raw".
			dropped++
			continue
		}
		group, exists := byKey[key]
		if !exists {
			group = &UserGroup{Key: key}
			byKey[key] = group
			order = append(order, key)
		}
		group.Cards = append(group.Cards, newMetricCard(entity, display))
	}

	groups := make([]UserGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups, dropped
}

func newMetricCard(entity states.EntityState, display string) MetricCard {
	icon := entity.Icon()
	if icon == "" {
		icon = UnknownIcon
	}
	return MetricCard{
		EntityID: entity.EntityID,
		Icon:     icon,
		Value:    entity.State,
		Name:     display,
		Unit:     entity.Unit(),
	}
}
