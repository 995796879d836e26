package stringquery

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchkit/stringquery/fields"
	"github.com/searchkit/stringquery/search"
)

func testFieldSet(t *testing.T) *search.FieldSet {
	t.Helper()
	fs, err := search.NewFieldSet("test",
		&search.FieldConfig{Name: "name", Type: fields.Text{}},
		&search.FieldConfig{Name: "tags", Type: fields.Text{}},
		&search.FieldConfig{Name: "age", Type: fields.Integer{}},
		&search.FieldConfig{Name: "price", Type: fields.Decimal{}},
		&search.FieldConfig{Name: "published", Type: fields.Date{}},
		&search.FieldConfig{Name: "customer_name", Label: "customer", Type: fields.Text{}},
	)
	require.NoError(t, err)
	return fs
}

func testProcessor(t *testing.T, cfg Config) *Processor {
	t.Helper()
	return NewProcessor(cfg, testFieldSet(t))
}

func process(t *testing.T, input string) *search.Condition {
	t.Helper()
	cond, err := testProcessor(t, Config{}).Process(input)
	require.NoError(t, err)
	require.NotNil(t, cond)
	return cond
}

func rawValues(values []search.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Raw
	}
	return out
}

func TestProcessSimpleValues(t *testing.T) {
	cond := process(t, "name: v1, v2;")

	root := cond.Root
	assert.Equal(t, search.ModeAnd, root.Mode())
	assert.Empty(t, root.Groups())
	require.Equal(t, []string{"name"}, root.FieldNames())

	bag, ok := root.Field("name")
	require.True(t, ok)
	assert.Equal(t, []string{"v1", "v2"}, rawValues(bag.SimpleValues))
	assert.Equal(t, 2, bag.Count())
}

func TestProcessOneEntryPerCategory(t *testing.T) {
	cond := process(t, "age: 10, !20, 30-40, !50-60, >70, ~*8;")

	bag, ok := cond.Root.Field("age")
	require.True(t, ok)
	require.Len(t, bag.SimpleValues, 1)
	require.Len(t, bag.ExcludedValues, 1)
	require.Len(t, bag.Ranges, 1)
	require.Len(t, bag.ExcludedRanges, 1)
	require.Len(t, bag.Comparisons, 1)
	require.Len(t, bag.PatternMatchers, 1)
	assert.Equal(t, 6, bag.Count())

	assert.Equal(t, "10", bag.SimpleValues[0].Raw)
	assert.Equal(t, int64(10), bag.SimpleValues[0].Typed)
	assert.Equal(t, "20", bag.ExcludedValues[0].Raw)
	assert.Equal(t, "30", bag.Ranges[0].Lower.Raw)
	assert.Equal(t, "40", bag.Ranges[0].Upper.Raw)
	assert.Equal(t, "50", bag.ExcludedRanges[0].Lower.Raw)
	assert.Equal(t, search.CompareGT, bag.Comparisons[0].Op)
	assert.Equal(t, "70", bag.Comparisons[0].Value.Raw)
	assert.Equal(t, search.PatternContains, bag.PatternMatchers[0].Op)
	assert.Equal(t, "8", bag.PatternMatchers[0].Value.Raw)
}

func TestProcessRangeInclusivity(t *testing.T) {
	tests := []struct {
		input      string
		lowerIncl  bool
		upperIncl  bool
		lowerValue string
		upperValue string
	}{
		{"age: 1-100", true, true, "1", "100"},
		{"age: [1-100]", true, true, "1", "100"},
		{"age: ]1-100[", false, false, "1", "100"},
		{"age: ]1-100]", false, true, "1", "100"},
		{"age: [1-100[", true, false, "1", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cond := process(t, tt.input)
			bag, ok := cond.Root.Field("age")
			require.True(t, ok)
			require.Len(t, bag.Ranges, 1)

			r := bag.Ranges[0]
			assert.Equal(t, tt.lowerIncl, r.LowerInclusive)
			assert.Equal(t, tt.upperIncl, r.UpperInclusive)
			assert.Equal(t, tt.lowerValue, r.Lower.Raw)
			assert.Equal(t, tt.upperValue, r.Upper.Raw)
		})
	}
}

func TestProcessQuoteEscaping(t *testing.T) {
	cond := process(t, `name: "va""lue";`)

	bag, ok := cond.Root.Field("name")
	require.True(t, ok)
	assert.Equal(t, []string{`va"lue`}, rawValues(bag.SimpleValues))
}

func TestProcessGroupMode(t *testing.T) {
	cond := process(t, "*(name: a; age: 5)")

	root := cond.Root
	assert.Equal(t, search.ModeAnd, root.Mode())
	assert.Empty(t, root.FieldNames())
	require.Len(t, root.Groups(), 1)

	child := root.Groups()[0]
	assert.Equal(t, search.ModeOr, child.Mode())
	assert.Equal(t, []string{"name", "age"}, child.FieldNames())
}

func TestProcessTopLevelOrPrefix(t *testing.T) {
	cond := process(t, "* name: a; age: 5;")
	assert.Equal(t, search.ModeOr, cond.Root.Mode())
	assert.Equal(t, []string{"name", "age"}, cond.Root.FieldNames())
}

func TestProcessNesting(t *testing.T) {
	cond := process(t, "name: a; (age: 5; *(tags: x))")

	root := cond.Root
	assert.Equal(t, []string{"name"}, root.FieldNames())
	require.Len(t, root.Groups(), 1)

	level1 := root.Groups()[0]
	assert.Equal(t, search.ModeAnd, level1.Mode())
	assert.Equal(t, []string{"age"}, level1.FieldNames())
	require.Len(t, level1.Groups(), 1)

	level2 := level1.Groups()[0]
	assert.Equal(t, search.ModeOr, level2.Mode())
	assert.Equal(t, []string{"tags"}, level2.FieldNames())
}

func TestProcessComparisonOperators(t *testing.T) {
	cond := process(t, "age: <5, <=6, <>7, >8, >=9;")

	bag, ok := cond.Root.Field("age")
	require.True(t, ok)
	require.Len(t, bag.Comparisons, 5)

	ops := make([]search.CompareOp, len(bag.Comparisons))
	for i, c := range bag.Comparisons {
		ops[i] = c.Op
	}
	assert.Equal(t, []search.CompareOp{
		search.CompareLT,
		search.CompareLTE,
		search.CompareNEQ,
		search.CompareGT,
		search.CompareGTE,
	}, ops)
}

func TestProcessPatternMatchers(t *testing.T) {
	cond := process(t, "name: ~*con, ~>start, ~<end, ~?reg, ~=eq, ~!*ncon, ~i>istart, ~i!?nireg;")

	bag, ok := cond.Root.Field("name")
	require.True(t, ok)
	require.Len(t, bag.PatternMatchers, 8)

	expect := []struct {
		op    search.PatternOp
		value string
		ci    bool
	}{
		{search.PatternContains, "con", false},
		{search.PatternStartsWith, "start", false},
		{search.PatternEndsWith, "end", false},
		{search.PatternRegex, "reg", false},
		{search.PatternEquals, "eq", false},
		{search.PatternNotContains, "ncon", false},
		{search.PatternStartsWith, "istart", true},
		{search.PatternNotRegex, "nireg", true},
	}
	for i, want := range expect {
		m := bag.PatternMatchers[i]
		assert.Equal(t, want.op, m.Op, "matcher %d", i)
		assert.Equal(t, want.value, m.Value.Raw, "matcher %d", i)
		assert.Equal(t, want.ci, m.CaseInsensitive, "matcher %d", i)
	}
}

func TestProcessLabelResolution(t *testing.T) {
	cond := process(t, "customer: jane;")

	require.Equal(t, []string{"customer_name"}, cond.Root.FieldNames())
	bag, ok := cond.Root.Field("customer_name")
	require.True(t, ok)
	assert.Equal(t, []string{"jane"}, rawValues(bag.SimpleValues))
}

func TestProcessEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \r\n"} {
		cond, err := testProcessor(t, Config{}).Process(input)
		require.NoError(t, err)
		require.NotNil(t, cond)
		assert.True(t, cond.IsEmpty())
		assert.Empty(t, cond.Root.FieldNames())
		assert.Empty(t, cond.Root.Groups())
	}
}

func TestProcessSemicolonElision(t *testing.T) {
	for _, input := range []string{
		"name: a",
		"name: a;",
		"(name: a)",
		"(name: a);",
		"(name: a;)",
		"name: a; (age: 5)",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := testProcessor(t, Config{}).Process(input)
			assert.NoError(t, err)
		})
	}
}

func TestProcessNestingLimit(t *testing.T) {
	cond, err := testProcessor(t, Config{MaxNestingLevel: 1}).Process("((name: a))")
	require.Error(t, err)
	assert.Nil(t, cond)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Contains(t, report[0].Message, "nesting level exceeds the maximum of 1")
	assert.Equal(t, "[0][0]", report[0].Path)
}

func TestProcessGroupCountLimit(t *testing.T) {
	cond, err := testProcessor(t, Config{MaxGroupCount: 2}).Process("(name: a)(name: b)(name: c)")
	require.Error(t, err)
	assert.Nil(t, cond)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Contains(t, report[0].Message, "group count exceeds the maximum of 2")
	assert.Equal(t, "[2]", report[0].Path)
}

func TestProcessUnknownField(t *testing.T) {
	cond, err := testProcessor(t, Config{}).Process("nofield: 1;")
	require.Error(t, err)
	assert.Nil(t, cond)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Equal(t, `unknown field "nofield"`, report[0].Message)
	assert.Equal(t, "nofield", report[0].Field)
}

func TestProcessDuplicateField(t *testing.T) {
	cond, err := testProcessor(t, Config{}).Process("name: a; name: b;")
	require.Error(t, err)
	assert.Nil(t, cond)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Contains(t, report[0].Message, "more than once")
	assert.Equal(t, "name", report[0].Field)
}

func TestProcessValueOverflow(t *testing.T) {
	cond, err := testProcessor(t, Config{MaxValuesPerField: 2}).Process("name: 1,2,3;")
	require.Error(t, err)
	require.NotNil(t, cond)

	// the two accepted values survive on the partial condition
	bag, ok := cond.Root.Field("name")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, rawValues(bag.SimpleValues))

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Contains(t, report[0].Message, "too many values, at most 2 are accepted")
	assert.Equal(t, "name", report[0].Field)
	assert.Equal(t, "[name]", report[0].Path)
}

func TestProcessOverflowErrorsOnce(t *testing.T) {
	_, err := testProcessor(t, Config{MaxValuesPerField: 1}).Process("name: 1,2,3,4,5;")
	require.Error(t, err)
	assert.Len(t, ErrorReport(err), 1)
}

func TestProcessFieldMaxValuesOverride(t *testing.T) {
	fs, err := search.NewFieldSet("test",
		&search.FieldConfig{Name: "name", Type: fields.Text{}, MaxValues: 1},
	)
	require.NoError(t, err)

	_, err = NewProcessor(Config{MaxValuesPerField: 10}, fs).Process("name: a, b;")
	require.Error(t, err)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Contains(t, report[0].Message, "at most 1")
}

func TestProcessInvalidValuesAccumulate(t *testing.T) {
	cond, err := testProcessor(t, Config{}).Process("age: abc, 5, xyz; name: ok;")
	require.Error(t, err)
	require.NotNil(t, cond)

	// parsing continued past both rejected values
	bag, ok := cond.Root.Field("age")
	require.True(t, ok)
	assert.Equal(t, []string{"5"}, rawValues(bag.SimpleValues))
	_, ok = cond.Root.Field("name")
	assert.True(t, ok)

	report := ErrorReport(err)
	require.Len(t, report, 2)
	assert.Equal(t, `"abc" is not a valid integer`, report[0].Message)
	assert.Equal(t, "age", report[0].Field)
	assert.Equal(t, "[age][0]", report[0].Path)
	assert.Equal(t, `"xyz" is not a valid integer`, report[1].Message)
	assert.Equal(t, "[age][1]", report[1].Path)
}

func TestProcessInvalidRangeBound(t *testing.T) {
	_, err := testProcessor(t, Config{}).Process("age: abc-10;")
	require.Error(t, err)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Equal(t, `"abc" is not a valid integer`, report[0].Message)
}

func TestProcessInvertedRange(t *testing.T) {
	cond, err := testProcessor(t, Config{}).Process("age: 10-5;")
	require.Error(t, err)
	require.NotNil(t, cond)

	bag, ok := cond.Root.Field("age")
	require.True(t, ok)
	assert.Empty(t, bag.Ranges)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Contains(t, report[0].Message, `lower bound "10" must not exceed upper bound "5"`)
}

func TestProcessInvertedRangeNonOrderableType(t *testing.T) {
	// text values have no order, so no bound check applies
	cond := process(t, "name: z-a;")
	bag, ok := cond.Root.Field("name")
	require.True(t, ok)
	require.Len(t, bag.Ranges, 1)
}

func TestProcessDateRange(t *testing.T) {
	cond := process(t, `published: ]"2010-01-01"-"2012-06-15"];`)

	bag, ok := cond.Root.Field("published")
	require.True(t, ok)
	require.Len(t, bag.Ranges, 1)
	assert.False(t, bag.Ranges[0].LowerInclusive)
	assert.True(t, bag.Ranges[0].UpperInclusive)
	assert.Equal(t, "2010-01-01", bag.Ranges[0].Lower.Raw)
}

func TestProcessSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"dangling close paren", "name: a; )", `expected "(" or field name`},
		{"missing close paren", "(name: a", `expected ")"`},
		{"bare value at pair position", "name: a b", `expected "(" or field name`},
		{"missing value", "name: ;", "expected value or range or comparison or pattern match"},
		{"dangling comma", "name: a,;", "expected value"},
		{"unterminated string", `name: "abc`, "unterminated string"},
		{"missing range upper", "name: 1- ;", "expected value"},
		{"lone negation", "name: !;", "expected value or range"},
		{"pattern without operator", "name: ~foo;", `expected "*" or ">" or "<" or "?" or "="`},
		{"double pattern negation", "name: ~!!*foo;", `expected "*"`},
		{"star without group or field", "* )", `expected "(" or field name`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := testProcessor(t, Config{}).Process(tt.input)
			require.Error(t, err)
			assert.Nil(t, cond)
			assert.Contains(t, err.Error(), tt.contains)

			require.Len(t, ErrorReport(err), 1)
		})
	}
}

func TestProcessSyntaxErrorPosition(t *testing.T) {
	_, err := testProcessor(t, Config{}).Process("name: a; )")
	require.Error(t, err)

	report := ErrorReport(err)
	require.Len(t, report, 1)
	assert.Equal(t, 9, report[0].Pos)
}

func TestProcessInvalidUTF8(t *testing.T) {
	cond, err := testProcessor(t, Config{}).Process("name: \xff\xfe;")
	require.Error(t, err)
	assert.Nil(t, cond)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestProcessIdempotence(t *testing.T) {
	const input = `name: a, !b, ~*c; (age: 1-10, >5; *(tags: x, y))`

	proc := testProcessor(t, Config{})
	first, err := proc.Process(input)
	require.NoError(t, err)
	second, err := proc.Process(input)
	require.NoError(t, err)

	diff := cmp.Diff(first.Root, second.Root, cmp.AllowUnexported(search.Group{}))
	assert.Empty(t, diff)
}

func TestProcessorConcurrentUse(t *testing.T) {
	proc := testProcessor(t, Config{})
	const input = "name: a; (age: 1-10)"

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := proc.Process(input)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}

func TestProcessDeepNestingWithinLimit(t *testing.T) {
	depth := 10
	input := strings.Repeat("(", depth) + "name: a" + strings.Repeat(")", depth)
	cond, err := testProcessor(t, Config{MaxNestingLevel: 10}).Process(input)
	require.NoError(t, err)

	g := cond.Root
	for i := 0; i < depth; i++ {
		require.Len(t, g.Groups(), 1)
		g = g.Groups()[0]
	}
	assert.Equal(t, []string{"name"}, g.FieldNames())
}
