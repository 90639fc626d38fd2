package widgets

import (
	"fmt"
	"sort"
	"strconv"

	"storefront-backend/internal/models"
)

// EvalCondition evaluates a restricted predicate against a render context
// (query parameters, device class, and similar flat values). An empty or
// malformed condition evaluates to true so broken documents degrade to
// visible content instead of blank pages.
func EvalCondition(cond *models.Condition, ctx map[string]interface{}) bool {
	if cond == nil || cond.Field == "" {
		return true
	}

	current, ok := ctx[cond.Field]
	if !ok {
		current = nil
	}

	switch cond.Operator {
	case "equals":
		return valuesEqual(current, cond.Value)
	case "not_equals":
		return !valuesEqual(current, cond.Value)
	case "contains":
		return listContains(current, cond.Value)
	case "greater_than":
		a, aok := toNumber(current)
		b, bok := toNumber(cond.Value)
		return aok && bok && a > b
	case "less_than":
		a, aok := toNumber(current)
		b, bok := toNumber(cond.Value)
		return aok && bok && a < b
	default:
		return true
	}
}

// ShouldRender combines a widget's show/hide predicates.
func ShouldRender(w models.Widget, ctx map[string]interface{}) bool {
	if w.Conditions == nil {
		return true
	}
	if w.Conditions.ShowWhen != nil && !EvalCondition(w.Conditions.ShowWhen, ctx) {
		return false
	}
	if w.Conditions.HideWhen != nil && EvalCondition(w.Conditions.HideWhen, ctx) {
		return false
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	al, aIsList := toStringList(a)
	bl, bIsList := toStringList(b)
	if aIsList && bIsList {
		if len(al) != len(bl) {
			return false
		}
		sort.Strings(al)
		sort.Strings(bl)
		for i := range al {
			if al[i] != bl[i] {
				return false
			}
		}
		return true
	}
	if aIsList != bIsList {
		return false
	}
	return toString(a) == toString(b)
}

func listContains(current, wanted interface{}) bool {
	cl, cok := toStringList(current)
	wl, wok := toStringList(wanted)
	if !cok || !wok {
		return false
	}
	for _, w := range wl {
		for _, c := range cl {
			if w == c {
				return true
			}
		}
	}
	return false
}

func toStringList(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, toString(item))
		}
		return out, true
	default:
		return nil, false
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
