package claims

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONKinds(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		kind ValueKind
	}{
		{"nil", nil, KindNull},
		{"string", "hello", KindString},
		{"bool", true, KindBool},
		{"int", 42, KindInt},
		{"integral float", float64(42), KindInt},
		{"fractional float", 42.5, KindDouble},
		{"array", []interface{}{"a", "b"}, KindArray},
		{"map", map[string]interface{}{"a": 1}, KindMap},
		{"unsupported type", struct{}{}, KindNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, FromJSON(tt.in).Kind())
		})
	}
}

func TestFromJSONNumber(t *testing.T) {
	assert.Equal(t, KindInt, FromJSON(json.Number("42")).Kind())
	assert.Equal(t, KindDouble, FromJSON(json.Number("42.5")).Kind())
}

func TestValueAccessorsFailSoft(t *testing.T) {
	v := StringValue("hello")

	s, ok := v.AsString()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = v.AsInt()
	assert.False(t, ok)
	_, ok = v.AsBool()
	assert.False(t, ok)
	_, ok = v.AsFloat()
	assert.False(t, ok)
	_, ok = v.AsArray()
	assert.False(t, ok)
	_, ok = v.AsMap()
	assert.False(t, ok)
}

func TestValueNumericConversions(t *testing.T) {
	// Integers widen to float.
	f, ok := IntValue(42).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 42.0, f)

	// Integral doubles narrow to int.
	n, ok := DoubleValue(42.0).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	// Fractional doubles do not.
	_, ok = DoubleValue(42.5).AsInt()
	assert.False(t, ok)
}

func TestValueNull(t *testing.T) {
	assert.True(t, NullValue().IsNull())

	// The zero Value is null.
	var zero Value
	assert.True(t, zero.IsNull())
	assert.Nil(t, zero.Interface())
}

func TestValueInterfaceRoundTrip(t *testing.T) {
	raw := map[string]interface{}{
		"name":    "starter",
		"seats":   float64(10),
		"active":  true,
		"tags":    []interface{}{"a", "b"},
		"ratio":   0.5,
		"nothing": nil,
	}

	got := FromJSON(raw).Interface()
	want := map[string]interface{}{
		"name":    "starter",
		"seats":   int64(10),
		"active":  true,
		"tags":    []interface{}{"a", "b"},
		"ratio":   0.5,
		"nothing": nil,
	}
	assert.Equal(t, want, got)
}
