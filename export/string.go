// Package export renders search conditions to external representations:
// canonical StringQuery text and JSON. These are surrounding plumbing;
// the parser core does not depend on them.
package export

import (
	"strings"

	"github.com/searchkit/stringquery/search"
)

// StringExporter renders a condition back to StringQuery text. The
// output re-parses to a structurally equal condition under the same
// field set.
type StringExporter struct{}

func (e StringExporter) Export(cond *search.Condition) string {
	var b strings.Builder
	root := cond.Root
	if root == nil {
		return ""
	}
	if root.Mode() == search.ModeOr {
		b.WriteString("*")
	}
	e.writeGroupBody(&b, root)
	return b.String()
}

func (e StringExporter) writeGroupBody(b *strings.Builder, g *search.Group) {
	first := true
	for _, name := range g.FieldNames() {
		if !first {
			b.WriteString(" ")
		}
		first = false
		bag, _ := g.Field(name)
		b.WriteString(name)
		b.WriteString(": ")
		e.writeValues(b, bag)
		b.WriteString(";")
	}
	for _, child := range g.Groups() {
		if !first {
			b.WriteString(" ")
		}
		first = false
		if child.Mode() == search.ModeOr {
			b.WriteString("*")
		}
		b.WriteString("(")
		e.writeGroupBody(b, child)
		b.WriteString(")")
	}
}

func (e StringExporter) writeValues(b *strings.Builder, bag *search.ValuesBag) {
	first := true
	sep := func() {
		if !first {
			b.WriteString(", ")
		}
		first = false
	}
	for _, v := range bag.SimpleValues {
		sep()
		b.WriteString(quote(v.Raw))
	}
	for _, v := range bag.ExcludedValues {
		sep()
		b.WriteString("!")
		b.WriteString(quote(v.Raw))
	}
	for _, r := range bag.Ranges {
		sep()
		writeRange(b, r)
	}
	for _, r := range bag.ExcludedRanges {
		sep()
		b.WriteString("!")
		writeRange(b, r)
	}
	for _, c := range bag.Comparisons {
		sep()
		b.WriteString(string(c.Op))
		b.WriteString(quote(c.Value.Raw))
	}
	for _, m := range bag.PatternMatchers {
		sep()
		b.WriteString("~")
		if m.CaseInsensitive {
			b.WriteString("i")
		}
		b.WriteString(patternToken(m.Op))
		b.WriteString(quote(m.Value.Raw))
	}
}

func writeRange(b *strings.Builder, r search.Range) {
	if r.LowerInclusive && r.UpperInclusive {
		b.WriteString(quote(r.Lower.Raw))
		b.WriteString("-")
		b.WriteString(quote(r.Upper.Raw))
		return
	}
	if r.LowerInclusive {
		b.WriteString("[")
	} else {
		b.WriteString("]")
	}
	b.WriteString(quote(r.Lower.Raw))
	b.WriteString("-")
	b.WriteString(quote(r.Upper.Raw))
	if r.UpperInclusive {
		b.WriteString("]")
	} else {
		b.WriteString("[")
	}
}

func patternToken(op search.PatternOp) string {
	switch op {
	case search.PatternContains:
		return "*"
	case search.PatternStartsWith:
		return ">"
	case search.PatternEndsWith:
		return "<"
	case search.PatternRegex:
		return "?"
	case search.PatternEquals:
		return "="
	case search.PatternNotContains:
		return "!*"
	case search.PatternNotStartsWith:
		return "!>"
	case search.PatternNotEndsWith:
		return "!<"
	case search.PatternNotRegex:
		return "!?"
	case search.PatternNotEquals:
		return "!="
	}
	return "*"
}

// quote wraps a raw value in double quotes when it contains characters
// the lexer treats specially, doubling embedded quotes.
func quote(raw string) string {
	if raw != "" && raw != "i" && !strings.ContainsAny(raw, "()[],;-<>=~!?*:\" \t\n\r") {
		return raw
	}
	return `"` + strings.ReplaceAll(raw, `"`, `""`) + `"`
}
