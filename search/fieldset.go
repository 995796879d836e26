package search

import "fmt"

// Type validates and normalizes raw values for a field. Implementations
// live outside this package; the parser only relies on this contract.
type Type interface {
	Name() string
	Validate(raw string) (any, error)
}

// Orderable is implemented by types whose normalized values have a total
// order. The parser uses it to reject ranges whose lower bound exceeds
// the upper bound.
type Orderable interface {
	// Compare returns a negative number when a sorts before b, zero when
	// equal, and a positive number when a sorts after b.
	Compare(a, b any) int
}

// FieldConfig describes one searchable field.
type FieldConfig struct {
	// Name is the canonical field name used in the condition tree.
	Name string
	// Label is the query-facing name. Empty means the canonical name is
	// also the label.
	Label string
	// Type converts raw query values to their normalized form.
	Type Type
	// MaxValues overrides the processor-wide per-field value cap when
	// greater than zero.
	MaxValues int
}

// FieldSet is an immutable, named collection of field configurations.
type FieldSet struct {
	name   string
	order  []string
	fields map[string]*FieldConfig
}

// NewFieldSet builds a field set. Field names and labels must be unique
// and every field needs a type.
func NewFieldSet(name string, fields ...*FieldConfig) (*FieldSet, error) {
	fs := &FieldSet{
		name:   name,
		fields: make(map[string]*FieldConfig, len(fields)),
	}
	labels := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field set %q: field with empty name", name)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("field set %q: field %q has no type", name, f.Name)
		}
		if _, exists := fs.fields[f.Name]; exists {
			return nil, fmt.Errorf("field set %q: duplicate field %q", name, f.Name)
		}
		label := f.Label
		if label == "" {
			label = f.Name
		}
		if labels[label] {
			return nil, fmt.Errorf("field set %q: duplicate label %q", name, label)
		}
		labels[label] = true
		fs.order = append(fs.order, f.Name)
		fs.fields[f.Name] = f
	}
	return fs, nil
}

func (fs *FieldSet) Name() string { return fs.name }

// Field returns the configuration for a canonical field name.
func (fs *FieldSet) Field(name string) (*FieldConfig, bool) {
	f, ok := fs.fields[name]
	return f, ok
}

// Names returns the canonical field names in registration order.
func (fs *FieldSet) Names() []string { return fs.order }

// Labels returns a fresh label-to-canonical-name mapping. The parser
// builds one per process call so lookups stay read-only afterwards.
func (fs *FieldSet) Labels() map[string]string {
	m := make(map[string]string, len(fs.fields))
	for name, f := range fs.fields {
		label := f.Label
		if label == "" {
			label = name
		}
		m[label] = name
	}
	return m
}
