package healthboard

// CardConfig is the resolved configuration of the metrics card.
type CardConfig struct {
	Title string
}

// MetricCard is the smallest rendered unit: one metric's icon, raw value,
// display name, and optional unit.
type MetricCard struct {
	EntityID string `json:"entity_id"`
	Icon     string `json:"icon"`
	Value    string `json:"value"`
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
}

// UserGroup clusters the metric cards that share a grouping key.
type UserGroup struct {
	Key   string       `json:"key"`
	Cards []MetricCard `json:"cards"`
}

// Board is the fully resolved visual tree for one render pass.
type Board struct {
	Title       string      `json:"title"`
	Groups      []UserGroup `json:"groups"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// Empty reports whether the board holds no metric groups.
func (b Board) Empty() bool {
	return len(b.Groups) == 0
}
