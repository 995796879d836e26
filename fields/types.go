// Package fields provides reference implementations of the search.Type
// contract. The parser never depends on them concretely; they exist for
// callers, the CLI, and the tests.
package fields

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/searchkit/stringquery/search"
)

// Text accepts any value unchanged.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) Validate(raw string) (any, error) {
	return raw, nil
}

// Integer accepts base-10 integers.
type Integer struct{}

func (Integer) Name() string { return "integer" }

func (Integer) Validate(raw string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid integer", raw)
	}
	return n, nil
}

func (Integer) Compare(a, b any) int {
	x, y := a.(int64), b.(int64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Decimal accepts decimal numbers.
type Decimal struct{}

func (Decimal) Name() string { return "decimal" }

func (Decimal) Validate(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid decimal number", raw)
	}
	return f, nil
}

func (Decimal) Compare(a, b any) int {
	x, y := a.(float64), b.(float64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Date accepts calendar dates in YYYY-MM-DD form.
type Date struct{}

func (Date) Name() string { return "date" }

func (Date) Validate(raw string) (any, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid date, expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func (Date) Compare(a, b any) int {
	return a.(time.Time).Compare(b.(time.Time))
}

// ByName resolves a type by its registered name.
func ByName(name string) (search.Type, bool) {
	switch strings.ToLower(name) {
	case "text":
		return Text{}, true
	case "integer":
		return Integer{}, true
	case "decimal":
		return Decimal{}, true
	case "date":
		return Date{}, true
	}
	return nil, false
}
