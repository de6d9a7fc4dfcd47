package interop

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

type point struct {
	X     int
	Y     int
	Label string
}

func pointType(t *testing.T, u *typesystem.Universe) *typesystem.Type {
	t.Helper()
	pt := &typesystem.Type{
		Name: "Point", Kind: typesystem.KindStruct,
		Fields: []typesystem.Field{
			{Name: "X", Type: typesystem.Int32},
			{Name: "Y", Type: typesystem.Int32},
			{Name: "Label", Type: typesystem.String},
		},
	}
	require.NoError(t, u.Define(pt))
	return pt
}

func TestTryConvertIgnoresNativeOperands(t *testing.T) {
	b := New(nil)
	_, ok, err := b.TryConvert(binder.Descriptor{Target: typesystem.Int64}, object.NewInteger(typesystem.Int32, 1))
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestTryConvertPrimitives(t *testing.T) {
	b := New(nil)

	tests := []struct {
		name    string
		value   interface{}
		target  *typesystem.Type
		checked bool
		want    object.Object
	}{
		{"int to int32", 42, typesystem.Int32, true, object.NewInteger(typesystem.Int32, 42)},
		{"string to int64", "42", typesystem.Int64, true, object.NewInteger(typesystem.Int64, 42)},
		{"uint8 to uint64", uint8(7), typesystem.UInt64, true, object.NewUnsigned(typesystem.UInt64, 7)},
		{"float to float32", 1.5, typesystem.Float32, false, object.NewFloat(typesystem.Float32, 1.5)},
		{"string to char", "A", typesystem.Char, false, object.NewChar('A')},
		{"int to char", 66, typesystem.Char, true, object.NewChar('B')},
		{"string to bool", "true", typesystem.Bool, false, object.TRUE},
		{"int to string", 12, typesystem.String, false, object.NewString("12")},
		{"nil to string", nil, typesystem.String, false, object.NULL},
		{"proto wrapper", wrapperspb.Int32(9), typesystem.Int64, true, object.NewInteger(typesystem.Int64, 9)},
		{"proto string wrapper", wrapperspb.String("hi"), typesystem.String, false, object.NewString("hi")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := binder.Descriptor{Target: tt.target, Kind: binder.ExplicitNumeric, Checked: tt.checked}
			got, ok, err := b.TryConvert(d, object.NewHost(tt.value))
			require.True(t, ok)
			require.NoError(t, err)
			assert.True(t, object.Equal(tt.want, got), "got %s", got.Inspect())
		})
	}
}

func TestTryConvertFailures(t *testing.T) {
	b := New(nil)

	t.Run("checked overflow", func(t *testing.T) {
		d := binder.Descriptor{Target: typesystem.Int8, Kind: binder.ExplicitNumeric, Checked: true}
		_, ok, err := b.TryConvert(d, object.NewHost(int64(300)))
		assert.True(t, ok)
		assert.ErrorIs(t, err, binder.ErrOverflow)
	})

	t.Run("unparsable string", func(t *testing.T) {
		d := binder.Descriptor{Target: typesystem.Int32, Kind: binder.ExplicitNumeric}
		_, ok, err := b.TryConvert(d, object.NewHost("forty-two"))
		assert.True(t, ok)
		assert.ErrorIs(t, err, binder.ErrNoConversion)
		var bindErr *binder.BindingError
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, typesystem.Host, bindErr.Source)
	})

	t.Run("nil to value type", func(t *testing.T) {
		d := binder.Descriptor{Target: typesystem.Int32, Kind: binder.ExplicitNumeric}
		_, _, err := b.TryConvert(d, object.NewHost(nil))
		assert.ErrorIs(t, err, binder.ErrNoConversion)
	})

	t.Run("unregistered struct", func(t *testing.T) {
		u := typesystem.NewUniverse()
		d := binder.Descriptor{Target: pointType(t, u), Kind: binder.ExplicitUserDefined}
		_, _, err := New(u).TryConvert(d, object.NewHost(point{}))
		assert.ErrorIs(t, err, binder.ErrNoConversion)
	})
}

func TestTryConvertRegisteredStruct(t *testing.T) {
	u := typesystem.NewUniverse()
	pt := pointType(t, u)
	b := New(u)
	require.NoError(t, b.Register("Point", reflect.TypeOf(&point{})))
	assert.Error(t, b.Register("Bad", reflect.TypeOf(1)))

	d := binder.Descriptor{Target: pt, Kind: binder.ExplicitUserDefined, Checked: true}
	got, ok, err := b.TryConvert(d, object.NewHost(&point{X: 1, Y: 2, Label: "p"}))
	require.True(t, ok)
	require.NoError(t, err)

	inst, isInst := got.(*object.Instance)
	require.True(t, isInst)
	assert.Equal(t, pt, inst.T)
	assert.True(t, object.Equal(object.NewInteger(typesystem.Int32, 2), inst.Get("Y")))
	assert.True(t, object.Equal(object.NewString("p"), inst.Get("Label")))

	arr := u.ArrayOf(pt)
	got, _, err = b.TryConvert(binder.Descriptor{Target: arr, Kind: binder.ExplicitReference}, object.NewHost([]point{{X: 3}, {X: 4}}))
	require.NoError(t, err)
	assert.Equal(t, arr, got.RuntimeType())
	assert.Equal(t, 2, got.(*object.Array).Len())
}

func TestBinderIntegration(t *testing.T) {
	interop := New(nil)
	b := binder.New(nil, binder.WithInterop(interop))
	site, err := b.Attach(binder.Descriptor{Target: typesystem.Int64, Kind: binder.ImplicitNumeric})
	require.NoError(t, err)

	got, err := b.Bind(site, object.NewHost(int16(5)), nil)
	require.NoError(t, err)
	assert.True(t, object.Equal(object.NewInteger(typesystem.Int64, 5), got))
	assert.Equal(t, binder.Empty, site.State())

	got, err = b.Bind(site, object.NewInteger(typesystem.Int16, 5), nil)
	require.NoError(t, err)
	assert.True(t, object.Equal(object.NewInteger(typesystem.Int64, 5), got))
	assert.Equal(t, binder.Monomorphic, site.State())
}
