package accessor

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeName(t *testing.T) {
	var nilMeeting *Meeting
	var nilSlice []string

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, "null"},
		{"nil pointer", nilMeeting, "null"},
		{"nil slice", nilSlice, "array"},
		{"string", "x", "string"},
		{"int", 3, "int"},
		{"int64", int64(3), "int"},
		{"uint8", uint8(3), "int"},
		{"float32", float32(1.5), "float"},
		{"bool", true, "bool"},
		{"slice", []int{1}, "array"},
		{"array", [2]int{1, 2}, "array"},
		{"named struct", time.Time{}, "time.Time"},
		{"named int", time.Second, "time.Duration"},
		{"pointer", &Meeting{}, "*accessor.Meeting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeName(tt.value))
		})
	}
}

func TestTypeDisplay(t *testing.T) {
	tests := []struct {
		typ     Type
		display string
		element string
	}{
		{Type{Kind: Scalar, ElementTypeName: "string", RawExpression: "string"}, "string", "string"},
		{Type{Kind: Scalar, Nullable: true, ElementTypeName: "int", RawExpression: "null|int"}, "null|int", "int"},
		{Type{Kind: Object, Nullable: true, ElementTypeName: `\Foo\Bar`, RawExpression: `\Foo\Bar|null`}, `Foo\Bar|null`, `Foo\Bar`},
		{Type{Kind: ArrayOfScalar, ElementTypeName: "string", RawExpression: "string[]"}, "array", "string"},
		{Type{Kind: ArrayOfObject, Nullable: true, ElementTypeName: `\Foo`, RawExpression: `\Foo[]|null`}, "array|null", "Foo"},
		{Type{Kind: RawExpression, RawExpression: "string|int"}, "string|int", ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ.RawExpression, func(t *testing.T) {
			assert.Equal(t, tt.display, tt.typ.Display())
			assert.Equal(t, tt.element, tt.typ.ElementDisplay())
		})
	}
}

func TestChecker_Scalars(t *testing.T) {
	tests := []struct {
		name    string
		scalar  string
		valid   []any
		invalid []any
	}{
		{"string", "string", []any{"", "0", "text"}, []any{1, true, []string{}}},
		{"integer", "integer", []any{0, int64(7), uint(3)}, []any{"1", 1.5, false}},
		{"boolean", "boolean", []any{true, false}, []any{0, "true"}},
		{"double", "double", []any{1.5, float32(2)}, []any{1, "1.5"}},
		{"array", "array", []any{[]int{}, [1]string{"x"}}, []any{"x", 1}},
		{"mixed", "mixed", []any{"x", 1, true, &Meeting{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(Type{Kind: Scalar, ElementTypeName: tt.scalar, RawExpression: tt.scalar}, nil)
			for _, v := range tt.valid {
				assert.NoError(t, checker.CheckValue(v), "value %#v", v)
			}
			for _, v := range tt.invalid {
				assert.Error(t, checker.CheckValue(v), "value %#v", v)
			}
		})
	}
}

func TestChecker_RawExpressionAcceptsAnything(t *testing.T) {
	checker := NewChecker(Type{Kind: RawExpression, RawExpression: "string|int"}, nil)

	for _, v := range []any{nil, "x", 1, struct{}{}} {
		assert.NoError(t, checker.CheckValue(v))
		assert.NoError(t, checker.CheckElement(v))
	}
}

func TestChecker_ObjectPointerAcceptsPointee(t *testing.T) {
	checker := NewChecker(
		Type{Kind: Object, ElementTypeName: "Meeting", RawExpression: "Meeting"},
		reflect.TypeFor[*Meeting](),
	)

	assert.NoError(t, checker.CheckValue(&Meeting{}))
	assert.NoError(t, checker.CheckValue(Meeting{}))
	assert.Error(t, checker.CheckValue(Note{}))
}

func TestChecker_CollectionReportsFirstBadElement(t *testing.T) {
	checker := NewChecker(Type{Kind: ArrayOfScalar, ElementTypeName: "int", RawExpression: "int[]"}, nil)

	err := checker.CheckValue([]any{1, "two", 3.0})
	var invalid *InvalidArgumentTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "two", invalid.Value)
	assert.Equal(t, "string", invalid.ValueType)
	assert.Equal(t, "int", invalid.ExpectedTypes)
	assert.Equal(t, `int expected, "two" [string] given`, err.Error())

	assert.NoError(t, checker.CheckValue([]int{}))
	assert.NoError(t, checker.CheckValue([3]int{1, 2, 3}))
}

func TestInvalidArgumentTypeError(t *testing.T) {
	err := NewInvalidArgumentTypeError(nil, "string")

	assert.True(t, IsInvalidArgumentType(err))
	assert.Equal(t, "string expected, null [null] given", err.Error())
	assert.False(t, IsInvalidArgumentType(ErrUnknownMethod))
}
