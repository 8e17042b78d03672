package rules

import "encoding/json"

// EvalCondition reports whether value op target holds. Comparisons use the
// natural ordering of the value's type: numeric for numbers, lexicographic
// for strings. Anything not computable (mixed types, unsupported operator)
// is false, never an error; a failed comparison is indistinguishable from
// "condition not met".
func EvalCondition(value any, op Operator, target any) bool {
	if a, b, ok := numericPair(value, target); ok {
		return compareFloats(a, op, b)
	}
	if a, ok := value.(string); ok {
		if b, ok := target.(string); ok {
			return compareStrings(a, op, b)
		}
	}
	return false
}

func compareFloats(a float64, op Operator, b float64) bool {
	switch op {
	case OpGTE:
		return a >= b
	case OpLTE:
		return a <= b
	case OpGT:
		return a > b
	case OpLT:
		return a < b
	case OpEQ:
		return a == b
	}
	return false
}

func compareStrings(a string, op Operator, b string) bool {
	switch op {
	case OpGTE:
		return a >= b
	case OpLTE:
		return a <= b
	case OpGT:
		return a > b
	case OpLT:
		return a < b
	case OpEQ:
		return a == b
	}
	return false
}

func numericPair(a, b any) (float64, float64, bool) {
	af, ok := toFloat(a)
	if !ok {
		return 0, 0, false
	}
	bf, ok := toFloat(b)
	if !ok {
		return 0, 0, false
	}
	return af, bf, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
