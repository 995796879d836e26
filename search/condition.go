// Package search holds the condition tree produced by parsing a query:
// groups of field constraints combined under AND or OR logic, plus the
// field-set contracts the parser resolves field names against.
package search

// Condition is the result of processing one query: the field set it was
// resolved against and the root group of constraints. A Condition is built
// once by the parser and not mutated afterwards.
type Condition struct {
	FieldSet *FieldSet
	Root     *Group
}

// IsEmpty reports whether the condition carries no constraints at all,
// which is the result of parsing blank input.
func (c *Condition) IsEmpty() bool {
	return c.Root == nil || c.Root.IsEmpty()
}
