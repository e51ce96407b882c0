package model

// Default values applied by ApplyDefaults.
const (
	DefaultSystemName = "System"
	DefaultKind       = "service"
	DefaultLayout     = "LR"
)

// Model is the structured input of the model pipeline: one system graph and
// the views to cut from it.
type Model struct {
	System System              `yaml:"system"`
	Nodes  map[string]Node     `yaml:"nodes" validate:"dive"`
	Edges  []Edge              `yaml:"edges" validate:"dive"`
	Views  map[string]ViewSpec `yaml:"views" validate:"dive"`
}

// System carries model-wide metadata.
type System struct {
	Name string `yaml:"name"`
}

// Node is a diagram vertex. ID is taken from its key in Model.Nodes.
type Node struct {
	ID    string   `yaml:"-"`
	Label string   `yaml:"label"`
	Kind  string   `yaml:"kind"` // database, queue, service, ... (case-insensitive)
	Tags  []string `yaml:"tags"`
}

// Edge is a directed connection. Duplicate (From, To) pairs are allowed.
type Edge struct {
	From string   `yaml:"from" validate:"required"`
	To   string   `yaml:"to" validate:"required"`
	Tags []string `yaml:"tags"`
}

// ViewSpec declares how one view is selected from the graph.
type ViewSpec struct {
	Name    string  `yaml:"-"`
	Title   string  `yaml:"title"`
	Layout  string  `yaml:"layout" validate:"omitempty,oneof=LR RL TB TD BT"`
	Include Include `yaml:"include"`
	Expand  Expand  `yaml:"expand"`
}

// Include is the union of the three seed selectors.
type Include struct {
	Nodes    []string `yaml:"nodes"`
	Tags     []string `yaml:"tags"`
	EdgeTags []string `yaml:"edge_tags"`
}

// Expand widens the seed set. A nil field means the key was absent, which is
// not the same as an explicit zero: presence decides whether a walk runs.
// Negative counts are accepted and walk nowhere.
type Expand struct {
	Neighbours *int `yaml:"neighbours"`
	Outbound   *int `yaml:"outbound"`
	Inbound    *int `yaml:"inbound"`
}

// Directional reports whether an outbound or inbound hop count was given.
func (e Expand) Directional() bool {
	return e.Outbound != nil || e.Inbound != nil
}

// NegativeKeys names the hop counts below zero, in declaration order.
func (e Expand) NegativeKeys() []string {
	var keys []string
	for _, k := range []struct {
		name string
		hops *int
	}{{"neighbours", e.Neighbours}, {"outbound", e.Outbound}, {"inbound", e.Inbound}} {
		if k.hops != nil && *k.hops < 0 {
			keys = append(keys, k.name)
		}
	}
	return keys
}

// Hops dereferences an optional hop count. Absent and negative both mean zero.
func Hops(p *int) int {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}
