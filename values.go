package stringquery

import (
	"fmt"
	"strconv"

	"github.com/searchkit/stringquery/search"
)

// bagBuilder ingests the raw values of one field: every entry is
// converted through the field's type, rejected entries are recorded on
// the shared collector, and the per-field value cap is enforced before
// anything is appended. Conversion failures never abort the parse.
type bagBuilder struct {
	field      *search.FieldConfig
	bag        *search.ValuesBag
	max        int
	overflowed bool
	groupPath  string
	errs       *errorCollector
}

func newBagBuilder(field *search.FieldConfig, max int, groupPath string, errs *errorCollector) *bagBuilder {
	return &bagBuilder{
		field:     field,
		bag:       &search.ValuesBag{},
		max:       max,
		groupPath: groupPath,
		errs:      errs,
	}
}

// entryPath renders the position of the entry about to be added,
// e.g. "[tags][2]" or "[1][date][0]" inside the second sub-group.
func (b *bagBuilder) entryPath() string {
	return b.groupPath + "[" + b.field.Name + "][" + strconv.Itoa(b.bag.Count()) + "]"
}

// accept checks the value cap. The first overflow records an error;
// later entries for the same field are dropped silently.
func (b *bagBuilder) accept() bool {
	if b.overflowed {
		return false
	}
	if b.bag.Count() >= b.max {
		b.overflowed = true
		b.errs.add(&ConditionError{
			Message: fmt.Sprintf("too many values, at most %d are accepted", b.max),
			Field:   b.field.Name,
			Path:    b.groupPath + "[" + b.field.Name + "]",
			Pos:     -1,
		})
		return false
	}
	return true
}

func (b *bagBuilder) convert(tok Token) (search.Value, bool) {
	typed, err := b.field.Type.Validate(tok.Value)
	if err != nil {
		b.errs.add(&ConditionError{
			Message: err.Error(),
			Field:   b.field.Name,
			Path:    b.entryPath(),
			Pos:     tok.Pos,
		})
		return search.Value{}, false
	}
	return search.Value{Raw: tok.Value, Typed: typed}, true
}

func (b *bagBuilder) addSimpleValue(tok Token) {
	if !b.accept() {
		return
	}
	if v, ok := b.convert(tok); ok {
		b.bag.SimpleValues = append(b.bag.SimpleValues, v)
	}
}

func (b *bagBuilder) addExcludedValue(tok Token) {
	if !b.accept() {
		return
	}
	if v, ok := b.convert(tok); ok {
		b.bag.ExcludedValues = append(b.bag.ExcludedValues, v)
	}
}

func (b *bagBuilder) addRange(lower, upper Token, lowerIncl, upperIncl bool) {
	if r, ok := b.buildRange(lower, upper, lowerIncl, upperIncl); ok {
		b.bag.Ranges = append(b.bag.Ranges, r)
	}
}

func (b *bagBuilder) addExcludedRange(lower, upper Token, lowerIncl, upperIncl bool) {
	if r, ok := b.buildRange(lower, upper, lowerIncl, upperIncl); ok {
		b.bag.ExcludedRanges = append(b.bag.ExcludedRanges, r)
	}
}

// buildRange converts both bounds and checks their order when the type
// is orderable. A bad bound or inverted order rejects the whole entry.
func (b *bagBuilder) buildRange(lower, upper Token, lowerIncl, upperIncl bool) (search.Range, bool) {
	if !b.accept() {
		return search.Range{}, false
	}
	lo, okLo := b.convert(lower)
	hi, okHi := b.convert(upper)
	if !okLo || !okHi {
		return search.Range{}, false
	}
	if ord, ok := b.field.Type.(search.Orderable); ok && ord.Compare(lo.Typed, hi.Typed) > 0 {
		b.errs.add(&ConditionError{
			Message: fmt.Sprintf("lower bound %q must not exceed upper bound %q", lower.Value, upper.Value),
			Field:   b.field.Name,
			Path:    b.entryPath(),
			Pos:     lower.Pos,
		})
		return search.Range{}, false
	}
	return search.Range{
		Lower:          lo,
		Upper:          hi,
		LowerInclusive: lowerIncl,
		UpperInclusive: upperIncl,
	}, true
}

func (b *bagBuilder) addComparison(op search.CompareOp, tok Token) {
	if !b.accept() {
		return
	}
	if v, ok := b.convert(tok); ok {
		b.bag.Comparisons = append(b.bag.Comparisons, search.Comparison{Op: op, Value: v})
	}
}

func (b *bagBuilder) addPatternMatch(op search.PatternOp, tok Token, caseInsensitive bool) {
	if !b.accept() {
		return
	}
	if v, ok := b.convert(tok); ok {
		b.bag.PatternMatchers = append(b.bag.PatternMatchers, search.PatternMatch{
			Op:              op,
			Value:           v,
			CaseInsensitive: caseInsensitive,
		})
	}
}
