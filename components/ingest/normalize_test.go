package ingest

import "testing"

func TestNormalizeValuePercentScaling(t *testing.T) {
	cases := []struct {
		name   string
		metric string
		in     any
		want   any
	}{
		{"fraction scaled", "body_fat_percentage", 0.213, 21.3},
		{"one becomes hundred", "oxygen_saturation", 1.0, 100.0},
		{"zero stays zero", "oxygen_saturation", 0.0, 0.0},
		{"already percent passes", "body_fat_percentage", 21.3, 21.3},
		{"negative clamps low", "walking_asymmetry_percentage", -3.0, 0.0},
		{"overflow clamps high", "walking_double_support_percentage", 140.0, 100.0},
		{"non numeric untouched", "body_fat_percentage", "n/a", "n/a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeValue(tc.metric, tc.in)
			if got != tc.want {
				t.Fatalf("normalizeValue(%s, %v) = %v, want %v", tc.metric, tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeValueSleepSecondsToHours(t *testing.T) {
	got := normalizeValue("sleep_duration", 27000.0)
	if got != 7.5 {
		t.Fatalf("expected 7.5 hours, got %v", got)
	}
	got = normalizeValue("sleep_rem_hours", 5400.0)
	if got != 1.5 {
		t.Fatalf("expected 1.5 hours, got %v", got)
	}
	// Rounds to two decimals.
	got = normalizeValue("sleep_deep_hours", 5000.0)
	if got != 1.39 {
		t.Fatalf("expected 1.39 hours, got %v", got)
	}
}

func TestNormalizeValueWalkingSpeedCoercion(t *testing.T) {
	if got := normalizeValue("walking_speed", "1.42"); got != 1.42 {
		t.Fatalf("expected coerced 1.42, got %v", got)
	}
	if got := normalizeValue("walking_speed", 1.42); got != 1.42 {
		t.Fatalf("expected 1.42, got %v", got)
	}
}

func TestNormalizeValueOtherMetricsUntouched(t *testing.T) {
	if got := normalizeValue("heart_rate", 62.0); got != 62.0 {
		t.Fatalf("expected 62, got %v", got)
	}
	if got := normalizeValue("steps", 10321.0); got != 10321.0 {
		t.Fatalf("expected 10321, got %v", got)
	}
}

func TestSleepHoursToMinutes(t *testing.T) {
	if got := sleepHoursToMinutes(7.5); got != 450 {
		t.Fatalf("expected 450 minutes, got %d", got)
	}
	if got := sleepHoursToMinutes(0.01); got != 1 {
		t.Fatalf("expected 1 minute, got %d", got)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{62.0, "62"},
		{62.5, "62.5"},
		{int(7), "7"},
		{"ready", "ready"},
		{true, "true"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Fatalf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
