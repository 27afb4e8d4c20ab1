package metrics

// Definition carries the sensor attributes published for a metric: the
// device class and state class hints consumed by downstream tooling, the
// native unit readings are stored in, and the dashboard icon.
type Definition struct {
	DeviceClass string
	Unit        string
	StateClass  string
	Icon        string
}

// State classes understood by consumers of the entity table.
const (
	StateClassMeasurement     = "measurement"
	StateClassTotalIncreasing = "total_increasing"
)

// DefaultIcon is used for metrics without a catalog entry.
const DefaultIcon = "mdi:heart-pulse"

var catalog = map[string]Definition{
	// Activity / movement
	"steps":                             {Unit: "steps", StateClass: StateClassTotalIncreasing, Icon: "mdi:walk"},
	"distance":                          {DeviceClass: "distance", Unit: "m", StateClass: StateClassTotalIncreasing, Icon: "mdi:map-marker-distance"},
	"active_calories":                   {Unit: "kcal", StateClass: StateClassTotalIncreasing, Icon: "mdi:fire"},
	"flights_climbed":                   {Unit: "floors", StateClass: StateClassTotalIncreasing, Icon: "mdi:stairs-up"},
	"walking_speed":                     {DeviceClass: "speed", Unit: "m/s", StateClass: StateClassMeasurement, Icon: "mdi:run"},
	"walking_step_length":               {DeviceClass: "distance", Unit: "m", StateClass: StateClassMeasurement, Icon: "mdi:ruler"},
	"walking_asymmetry_percentage":      {Unit: "%", StateClass: StateClassMeasurement, Icon: "mdi:axis-z-rotate-clockwise"},
	"walking_double_support_percentage": {Unit: "%", StateClass: StateClassMeasurement, Icon: "mdi:human-handsup"},
	"swimming_distance":                 {DeviceClass: "distance", Unit: "m", StateClass: StateClassTotalIncreasing, Icon: "mdi:swim"},
	"six_minute_walk_test_distance":     {DeviceClass: "distance", Unit: "m", StateClass: StateClassMeasurement, Icon: "mdi:walk"},
	"stair_ascent_speed":                {DeviceClass: "speed", Unit: "m/s", StateClass: StateClassMeasurement, Icon: "mdi:stairs-up"},
	"stair_descent_speed":               {DeviceClass: "speed", Unit: "m/s", StateClass: StateClassMeasurement, Icon: "mdi:stairs-down"},

	// Body measures
	"body_mass":           {DeviceClass: "weight", Unit: "kg", StateClass: StateClassMeasurement, Icon: "mdi:weight-kilogram"},
	"height":              {DeviceClass: "distance", Unit: "mm", StateClass: StateClassMeasurement, Icon: "mdi:ruler"},
	"body_fat_percentage": {Unit: "%", StateClass: StateClassMeasurement, Icon: "mdi:human-handsup"},
	"lean_body_mass":      {DeviceClass: "weight", Unit: "kg", StateClass: StateClassMeasurement, Icon: "mdi:dumbbell"},
	"waist_circumference": {DeviceClass: "distance", Unit: "mm", StateClass: StateClassMeasurement, Icon: "mdi:tape-measure"},

	// Vitals
	"body_temperature":           {DeviceClass: "temperature", Unit: "°C", StateClass: StateClassMeasurement, Icon: "mdi:thermometer"},
	"heart_rate":                 {DeviceClass: "heart_rate", Unit: "bpm", StateClass: StateClassMeasurement, Icon: "mdi:heart-pulse"},
	"resting_heart_rate":         {DeviceClass: "heart_rate", Unit: "bpm", StateClass: StateClassMeasurement, Icon: "mdi:heart"},
	"walking_heart_rate_average": {DeviceClass: "heart_rate", Unit: "bpm", StateClass: StateClassMeasurement, Icon: "mdi:walk"},
	"heart_rate_variability":     {Unit: "ms", StateClass: StateClassMeasurement, Icon: "mdi:waves"},
	"vo2_max":                    {Unit: "mL/kg/min", StateClass: StateClassMeasurement, Icon: "mdi:lungs"},
	"blood_pressure_systolic":    {DeviceClass: "pressure", Unit: "mmHg", StateClass: StateClassMeasurement, Icon: "mdi:heart-pulse"},
	"blood_pressure_diastolic":   {DeviceClass: "pressure", Unit: "mmHg", StateClass: StateClassMeasurement, Icon: "mdi:heart-pulse"},
	"oxygen_saturation":          {Unit: "%", StateClass: StateClassMeasurement, Icon: "mdi:lungs"},

	// Nutrition and glucose
	"dietary_carbohydrates": {DeviceClass: "weight", Unit: "g", StateClass: StateClassTotalIncreasing, Icon: "mdi:food-apple"},
	"dietary_fat":           {DeviceClass: "weight", Unit: "g", StateClass: StateClassTotalIncreasing, Icon: "mdi:food-drumstick"},
	"dietary_protein":       {DeviceClass: "weight", Unit: "g", StateClass: StateClassTotalIncreasing, Icon: "mdi:food-steak"},
	"dietary_water":         {DeviceClass: "volume", Unit: "mL", StateClass: StateClassTotalIncreasing, Icon: "mdi:cup-water"},
	"blood_glucose":         {Unit: "mmol/L", StateClass: StateClassMeasurement, Icon: "mdi:water-percent"},
	"basal_energy_burned":   {Unit: "kcal", StateClass: StateClassTotalIncreasing, Icon: "mdi:fire-alert"},

	// Sleep and breathing
	"sleep_duration":    {DeviceClass: "duration", Unit: "h", StateClass: StateClassMeasurement, Icon: "mdi:sleep"},
	"sleep_rem_hours":   {DeviceClass: "duration", Unit: "h", StateClass: StateClassMeasurement, Icon: "mdi:sleep"},
	"sleep_core_hours":  {DeviceClass: "duration", Unit: "h", StateClass: StateClassMeasurement, Icon: "mdi:sleep"},
	"sleep_deep_hours":  {DeviceClass: "duration", Unit: "h", StateClass: StateClassMeasurement, Icon: "mdi:sleep"},
	"sleep_awake_hours": {DeviceClass: "duration", Unit: "h", StateClass: StateClassMeasurement, Icon: "mdi:sleep"},
	"respiratory_rate":  {Unit: "breaths/min", StateClass: StateClassMeasurement, Icon: "mdi:lungs"},
	"mindful_minutes":   {DeviceClass: "duration", Unit: "s", StateClass: StateClassTotalIncreasing, Icon: "mdi:meditation"},

	// Audio exposure
	"headphone_audio_exposure":     {DeviceClass: "sound_pressure", Unit: "dB", StateClass: StateClassMeasurement, Icon: "mdi:headphones"},
	"environmental_audio_exposure": {DeviceClass: "sound_pressure", Unit: "dB", StateClass: StateClassMeasurement, Icon: "mdi:volume-high"},

	// Connectivity / internal
	"test_connection": {Icon: "mdi:check-circle"},
	"last_sync_time":  {DeviceClass: "timestamp", Icon: "mdi:update"},
}

// Lookup returns the catalog definition for a metric. Unknown metrics get a
// zero definition with the default icon so they still render.
func Lookup(name string) (Definition, bool) {
	def, ok := catalog[name]
	if !ok {
		return Definition{Icon: DefaultIcon}, false
	}
	if def.Icon == "" {
		def.Icon = DefaultIcon
	}
	return def, true
}

// Supported reports whether a metric has a catalog entry.
func Supported(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Names returns all cataloged metric names, unsorted.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	return out
}
