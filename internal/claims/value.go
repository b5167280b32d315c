package claims

import (
	"encoding/json"
	"math"
)

// ValueKind identifies the dynamic type carried by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindBool
	KindDouble
	KindArray
	KindMap
)

// String makes ValueKind satisfy the fmt.Stringer interface.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindDouble:
		return "double"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged variant for arbitrary JSON claim values. Conversions are
// explicit and fail-soft: each As* accessor reports whether the value held
// the requested representation instead of coercing or panicking.
type Value struct {
	kind    ValueKind
	str     string
	num     int64
	boolean bool
	dbl     float64
	arr     []Value
	obj     map[string]Value
}

// NullValue returns the null Value. The zero Value is also null.
func NullValue() Value { return Value{kind: KindNull} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntValue wraps an integer.
func IntValue(n int64) Value { return Value{kind: KindInt, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, boolean: b} }

// DoubleValue wraps a floating-point number.
func DoubleValue(f float64) Value { return Value{kind: KindDouble, dbl: f} }

// FromJSON converts a decoded JSON value (as produced by encoding/json into
// interface{}) into a Value. Unrecognized types map to null.
func FromJSON(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case float64:
		// encoding/json decodes every number to float64; keep integral
		// values as integers so flag and entitlement checks see them as such.
		if t == math.Trunc(t) && t >= math.MinInt64 && t <= math.MaxInt64 {
			return IntValue(int64(t))
		}
		return DoubleValue(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return IntValue(n)
		}
		if f, err := t.Float64(); err == nil {
			return DoubleValue(f)
		}
		return StringValue(t.String())
	case []interface{}:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			arr = append(arr, FromJSON(item))
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for key, item := range t {
			obj[key] = FromJSON(item)
		}
		return Value{kind: KindMap, obj: obj}
	default:
		return NullValue()
	}
}

// Kind returns the dynamic type of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string representation, if the value is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer representation. Doubles convert only when they
// carry an integral value.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindDouble:
		if v.dbl == math.Trunc(v.dbl) {
			return int64(v.dbl), true
		}
	}
	return 0, false
}

// AsBool returns the boolean representation, if the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

// AsFloat returns the floating-point representation. Integers widen.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.dbl, true
	case KindInt:
		return float64(v.num), true
	}
	return 0, false
}

// AsArray returns the element slice, if the value is an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsMap returns the member map, if the value is a map.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.obj, true
}

// Interface returns the value as the plain Go type encoding/json would
// produce for it. Used for display and re-serialization.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindBool:
		return v.boolean
	case KindDouble:
		return v.dbl
	case KindArray:
		out := make([]interface{}, 0, len(v.arr))
		for _, item := range v.arr {
			out = append(out, item.Interface())
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.obj))
		for key, item := range v.obj {
			out[key] = item.Interface()
		}
		return out
	default:
		return nil
	}
}
