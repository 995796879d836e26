package search

import "fmt"

// GroupMode is the logic that combines the members of a group.
type GroupMode int

const (
	ModeAnd GroupMode = iota
	ModeOr
)

func (m GroupMode) String() string {
	if m == ModeOr {
		return "OR"
	}
	return "AND"
}

// Group is one nesting level of the condition tree: an ordered set of
// field constraints and sub-groups combined under the group's mode.
// The mode is fixed at construction. A field name can appear at most
// once per group.
type Group struct {
	mode   GroupMode
	names  []string
	fields map[string]*ValuesBag
	groups []*Group
}

func NewGroup(mode GroupMode) *Group {
	return &Group{
		mode:   mode,
		fields: make(map[string]*ValuesBag),
	}
}

func (g *Group) Mode() GroupMode { return g.mode }

// AddField attaches a value bag under the given field name.
func (g *Group) AddField(name string, bag *ValuesBag) error {
	if _, exists := g.fields[name]; exists {
		return fmt.Errorf("field %q is already present in this group", name)
	}
	g.names = append(g.names, name)
	g.fields[name] = bag
	return nil
}

// HasField reports whether the field was already added.
func (g *Group) HasField(name string) bool {
	_, ok := g.fields[name]
	return ok
}

// Field returns the value bag for a field name.
func (g *Group) Field(name string) (*ValuesBag, bool) {
	bag, ok := g.fields[name]
	return bag, ok
}

// FieldNames returns the field names in the order they were added.
func (g *Group) FieldNames() []string { return g.names }

// AddGroup appends a sub-group in encounter order.
func (g *Group) AddGroup(child *Group) {
	g.groups = append(g.groups, child)
}

// Groups returns the sub-groups in encounter order.
func (g *Group) Groups() []*Group { return g.groups }

// IsEmpty reports whether the group has no fields and no sub-groups.
func (g *Group) IsEmpty() bool {
	return len(g.names) == 0 && len(g.groups) == 0
}
