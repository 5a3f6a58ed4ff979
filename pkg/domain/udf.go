package domain

import "reflect"

// UDF holds user-defined fields: arbitrary caller-supplied scalar (or nil) values.
type UDF map[string]any

// Clone returns a shallow copy; values are scalars.
func (u UDF) Clone() UDF {
	if u == nil {
		return nil
	}
	out := make(UDF, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Matches reports whether every key in required is present in u with an equal
// value. Extra keys in u are ignored. A missing key never matches, even when
// the required value is nil.
func (u UDF) Matches(required UDF) bool {
	for key, want := range required {
		got, ok := u[key]
		if !ok {
			return false
		}
		if !udfValueEqual(got, want) {
			return false
		}
	}
	return true
}

func udfValueEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// toFloat widens numeric values so fixture-decoded float64 compares equal to
// int literals written in Go tests.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
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
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
