package export

import (
	"github.com/valyala/fastjson"

	"github.com/searchkit/stringquery/search"
)

// JSONExporter renders a condition tree as a JSON document. Values are
// emitted in their raw form so the output is independent of the field
// types' normalized representations.
type JSONExporter struct{}

func (e JSONExporter) Export(cond *search.Condition) []byte {
	var arena fastjson.Arena
	root := e.groupValue(&arena, cond.Root)
	return root.MarshalTo(nil)
}

func (e JSONExporter) groupValue(a *fastjson.Arena, g *search.Group) *fastjson.Value {
	obj := a.NewObject()
	obj.Set("mode", a.NewString(g.Mode().String()))

	if names := g.FieldNames(); len(names) > 0 {
		fields := a.NewObject()
		for _, name := range names {
			bag, _ := g.Field(name)
			fields.Set(name, e.bagValue(a, bag))
		}
		obj.Set("fields", fields)
	}
	if children := g.Groups(); len(children) > 0 {
		groups := a.NewArray()
		for i, child := range children {
			groups.SetArrayItem(i, e.groupValue(a, child))
		}
		obj.Set("groups", groups)
	}
	return obj
}

func (e JSONExporter) bagValue(a *fastjson.Arena, bag *search.ValuesBag) *fastjson.Value {
	obj := a.NewObject()
	if len(bag.SimpleValues) > 0 {
		obj.Set("values", stringArray(a, bag.SimpleValues))
	}
	if len(bag.ExcludedValues) > 0 {
		obj.Set("excluded-values", stringArray(a, bag.ExcludedValues))
	}
	if len(bag.Ranges) > 0 {
		obj.Set("ranges", rangeArray(a, bag.Ranges))
	}
	if len(bag.ExcludedRanges) > 0 {
		obj.Set("excluded-ranges", rangeArray(a, bag.ExcludedRanges))
	}
	if len(bag.Comparisons) > 0 {
		arr := a.NewArray()
		for i, c := range bag.Comparisons {
			item := a.NewObject()
			item.Set("operator", a.NewString(string(c.Op)))
			item.Set("value", a.NewString(c.Value.Raw))
			arr.SetArrayItem(i, item)
		}
		obj.Set("comparisons", arr)
	}
	if len(bag.PatternMatchers) > 0 {
		arr := a.NewArray()
		for i, m := range bag.PatternMatchers {
			item := a.NewObject()
			item.Set("operator", a.NewString(m.Op.String()))
			item.Set("value", a.NewString(m.Value.Raw))
			if m.CaseInsensitive {
				item.Set("case-insensitive", a.NewTrue())
			}
			arr.SetArrayItem(i, item)
		}
		obj.Set("pattern-matchers", arr)
	}
	return obj
}

func stringArray(a *fastjson.Arena, values []search.Value) *fastjson.Value {
	arr := a.NewArray()
	for i, v := range values {
		arr.SetArrayItem(i, a.NewString(v.Raw))
	}
	return arr
}

func rangeArray(a *fastjson.Arena, ranges []search.Range) *fastjson.Value {
	arr := a.NewArray()
	for i, r := range ranges {
		item := a.NewObject()
		item.Set("lower", a.NewString(r.Lower.Raw))
		item.Set("upper", a.NewString(r.Upper.Raw))
		if !r.LowerInclusive {
			item.Set("lower-inclusive", a.NewFalse())
		}
		if !r.UpperInclusive {
			item.Set("upper-inclusive", a.NewFalse())
		}
		arr.SetArrayItem(i, item)
	}
	return arr
}
