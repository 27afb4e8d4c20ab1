package ingest

import (
	"math"
	"strconv"
)

// Metrics the companion app may report as a 0..1 fraction instead of 0..100.
var percentMetrics = map[string]struct{}{
	"body_fat_percentage":               {},
	"walking_asymmetry_percentage":      {},
	"walking_double_support_percentage": {},
	"oxygen_saturation":                 {},
}

// Sleep metrics arrive in seconds and are stored as hours.
var sleepHourMetrics = map[string]struct{}{
	"sleep_duration":    {},
	"sleep_rem_hours":   {},
	"sleep_core_hours":  {},
	"sleep_deep_hours":  {},
	"sleep_awake_hours": {},
}

// normalizeValue applies the per-metric unit fixups before a value is
// written to the state table. Non-numeric values pass through untouched.
func normalizeValue(metric string, value any) any {
	if _, ok := percentMetrics[metric]; ok {
		if v, ok := toFloat(value); ok {
			switch {
			case v >= 0 && v <= 1:
				return v * 100
			case v < 0:
				return 0.0
			case v > 100:
				return 100.0
			}
			return v
		}
		return value
	}
	if _, ok := sleepHourMetrics[metric]; ok {
		if v, ok := toFloat(value); ok {
			return math.Round(v/3600*100) / 100
		}
		return value
	}
	if metric == "walking_speed" {
		if v, ok := toFloat(value); ok {
			return v
		}
	}
	return value
}

// sleepHoursToMinutes converts the normalized sleep_duration hours figure to
// whole minutes, the unit its entity publishes.
func sleepHoursToMinutes(hours float64) int {
	return int(math.Round(hours * 60))
}

// toFloat coerces JSON scalar values to float64.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// formatValue renders a normalized value as the entity's state string. The
// raw value is preserved verbatim; floats drop insignificant zeros so "62"
// stays "62" rather than "62.000000".
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return ""
	}
}
