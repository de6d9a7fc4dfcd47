package interop

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

func TestMarshallerToObject(t *testing.T) {
	m := NewMarshaller(nil)

	tests := []struct {
		in   interface{}
		want *typesystem.Type
	}{
		{int8(1), typesystem.Int8},
		{int32(1), typesystem.Int32},
		{1, typesystem.Int64},
		{uint16(1), typesystem.UInt16},
		{float32(1), typesystem.Float32},
		{true, typesystem.Bool},
		{"s", typesystem.String},
		{nil, typesystem.Null},
		{&point{}, typesystem.Host},
		{map[string]int{}, typesystem.Host},
	}
	for _, tt := range tests {
		got, err := m.ToObject(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.RuntimeType(), "%T", tt.in)
	}

	arr, err := m.ToObject([]int32{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "Int32[]", arr.RuntimeType().String())
}

func TestMarshallerFromObject(t *testing.T) {
	m := NewMarshaller(nil)

	v, err := m.FromObject(object.NewInteger(typesystem.Int32, 7), reflect.TypeOf(int(0)))
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = m.FromObject(object.NewChar('x'), nil)
	require.NoError(t, err)
	assert.Equal(t, 'x', v)

	u := typesystem.NewUniverse()
	pt := pointType(t, u)
	inst := object.NewInstance(pt)
	inst.Set("X", object.NewInteger(typesystem.Int32, 5))
	inst.Set("Label", object.NewString("five"))

	v, err = m.FromObject(inst, reflect.TypeOf(&point{}))
	require.NoError(t, err)
	assert.Equal(t, &point{X: 5, Label: "five"}, v)

	v, err = m.FromObject(inst, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"X": int64(5), "Y": nil, "Label": "five"}, v)

	arr := object.NewArray(u.ArrayOf(typesystem.Int64), []object.Object{
		object.NewInteger(typesystem.Int64, 1), object.NewInteger(typesystem.Int64, 2),
	})
	v, err = m.FromObject(arr, reflect.TypeOf([]int{}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	_, err = m.FromObject(arr, reflect.TypeOf(""))
	assert.Error(t, err)
}
