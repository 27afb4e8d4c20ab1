package healthboard

import (
	"testing"

	"github.com/gregt1993/Health-Bridge/pkg/states"
)

func TestIsMetricSensor(t *testing.T) {
	cases := map[string]bool{
		"sensor.steps_alice":      true,
		"sensor.heart_rate_bob":   true,
		"sensor.temperature":      false, // no underscore in object id
		"sensor.":                 false,
		"light.kitchen_lamp":      false,
		"binary_sensor.door_open": false,
		"":                        false,
	}
	for id, want := range cases {
		if got := isMetricSensor(id); got != want {
			t.Errorf("isMetricSensor(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestSplitFriendlyName(t *testing.T) {
	cases := []struct {
		name    string
		display string
		key     string
		ok      bool
	}{
		{"Steps (alice)", "Steps", "alice", true},
		{"Heart Rate (bob)", "Heart Rate", "bob", true},
		{"Steps", "", "", false},
		{"Steps (alice", "", "", false},
		{"Steps (alice) extra", "", "", false},
		{"Blood Pressure (sys) (alice)", "Blood Pressure (sys)", "alice", true},
		{"Steps ()", "Steps", "", true},
		{"(alice)", "", "alice", true},
		{"  Steps (alice)  ", "Steps", "alice", true},
	}
	for _, tc := range cases {
		display, key, ok := splitFriendlyName(tc.name)
		if ok != tc.ok || display != tc.display || key != tc.key {
			t.Errorf("splitFriendlyName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.name, display, key, ok, tc.display, tc.key, tc.ok)
		}
	}
}

func TestGroupMetricsCountsUnmatched(t *testing.T) {
	snapshot := states.Snapshot{
		"sensor.steps_alice": {
			EntityID:   "sensor.steps_alice",
			State:      "1200",
			Attributes: map[string]any{states.AttrFriendlyName: "Steps (alice)"},
		},
		// Matches the sensor convention but has no parenthetical suffix.
		"sensor.steps_nobody": {
			EntityID:   "sensor.steps_nobody",
			State:      "1",
			Attributes: map[string]any{states.AttrFriendlyName: "Steps"},
		},
		// Sensor with no friendly name at all.
		"sensor.raw_reading": {
			EntityID: "sensor.raw_reading",
			State:    "1",
		},
		// Not a sensor; ignored without counting.
		"light.kitchen_lamp": {
			EntityID:   "light.kitchen_lamp",
			State:      "on",
			Attributes: map[string]any{states.AttrFriendlyName: "Kitchen (lamp)"},
		},
	}

	groups, unmatched := groupMetrics(snapshot)
	if len(groups) != 1 || groups[0].Key != "alice" {
		t.Fatalf("unexpected groups: %#v", groups)
	}
	if unmatched != 2 {
		t.Fatalf("unmatched = %d, want 2", unmatched)
	}
}
