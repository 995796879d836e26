package search

// Value is one accepted field value: the raw token text and the normalized
// form produced by the field's type.
type Value struct {
	Raw   string
	Typed any
}

// Range is a bounded interval. Bounds are inclusive unless marked otherwise.
type Range struct {
	Lower          Value
	Upper          Value
	LowerInclusive bool
	UpperInclusive bool
}

// CompareOp is a single-value comparison operator.
type CompareOp string

const (
	CompareLT  CompareOp = "<"
	CompareLTE CompareOp = "<="
	CompareNEQ CompareOp = "<>"
	CompareGT  CompareOp = ">"
	CompareGTE CompareOp = ">="
)

// Comparison constrains a field relative to a single value.
type Comparison struct {
	Op    CompareOp
	Value Value
}

// PatternOp is a pattern-match operator.
type PatternOp int

const (
	PatternContains PatternOp = iota
	PatternStartsWith
	PatternEndsWith
	PatternRegex
	PatternEquals
	PatternNotContains
	PatternNotStartsWith
	PatternNotEndsWith
	PatternNotRegex
	PatternNotEquals
)

// Negated returns the NOT_ form of the operator. Already negated
// operators are returned unchanged.
func (op PatternOp) Negated() PatternOp {
	switch op {
	case PatternContains:
		return PatternNotContains
	case PatternStartsWith:
		return PatternNotStartsWith
	case PatternEndsWith:
		return PatternNotEndsWith
	case PatternRegex:
		return PatternNotRegex
	case PatternEquals:
		return PatternNotEquals
	}
	return op
}

func (op PatternOp) String() string {
	switch op {
	case PatternContains:
		return "CONTAINS"
	case PatternStartsWith:
		return "STARTS_WITH"
	case PatternEndsWith:
		return "ENDS_WITH"
	case PatternRegex:
		return "REGEX"
	case PatternEquals:
		return "EQUALS"
	case PatternNotContains:
		return "NOT_CONTAINS"
	case PatternNotStartsWith:
		return "NOT_STARTS_WITH"
	case PatternNotEndsWith:
		return "NOT_ENDS_WITH"
	case PatternNotRegex:
		return "NOT_REGEX"
	case PatternNotEquals:
		return "NOT_EQUALS"
	}
	return "UNKNOWN"
}

// PatternMatch constrains a field by a textual pattern.
type PatternMatch struct {
	Op              PatternOp
	Value           Value
	CaseInsensitive bool
}

// ValuesBag holds every constraint attached to one field, split into six
// homogeneous ordered sequences. It is dumb data; the parser's ingestion
// layer enforces the per-field value cap before appending.
type ValuesBag struct {
	SimpleValues    []Value
	ExcludedValues  []Value
	Ranges          []Range
	ExcludedRanges  []Range
	Comparisons     []Comparison
	PatternMatchers []PatternMatch
}

// Count returns the total number of entries across all six sequences.
func (b *ValuesBag) Count() int {
	return len(b.SimpleValues) + len(b.ExcludedValues) +
		len(b.Ranges) + len(b.ExcludedRanges) +
		len(b.Comparisons) + len(b.PatternMatchers)
}
