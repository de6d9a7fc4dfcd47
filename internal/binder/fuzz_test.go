package binder

import (
	"errors"
	"testing"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

var integralTargets = []*typesystem.Type{
	typesystem.Int8, typesystem.UInt8, typesystem.Int16, typesystem.UInt16,
	typesystem.Int32, typesystem.UInt32, typesystem.Int64, typesystem.UInt64,
	typesystem.Char,
}

// wrapped is the two's complement truncation of v to the width of t.
func wrapped(v int64, t *typesystem.Type) object.Object {
	switch t.Num {
	case typesystem.NumInt8:
		return object.NewInteger(t, int64(int8(v)))
	case typesystem.NumUInt8:
		return object.NewUnsigned(t, uint64(uint8(v)))
	case typesystem.NumInt16:
		return object.NewInteger(t, int64(int16(v)))
	case typesystem.NumUInt16:
		return object.NewUnsigned(t, uint64(uint16(v)))
	case typesystem.NumInt32:
		return object.NewInteger(t, int64(int32(v)))
	case typesystem.NumUInt32:
		return object.NewUnsigned(t, uint64(uint32(v)))
	case typesystem.NumUInt64:
		return object.NewUnsigned(t, uint64(v))
	case typesystem.NumChar:
		return object.NewChar(uint16(v))
	}
	return object.NewInteger(t, v)
}

// FuzzNarrowing compares checked and unchecked explicit conversions of an
// Int64 against Go's own integer conversions.
func FuzzNarrowing(f *testing.F) {
	f.Add(int64(0), uint8(0))
	f.Add(int64(3000000000), uint8(4))
	f.Add(int64(-1), uint8(1))
	f.Add(int64(65536), uint8(8))

	f.Fuzz(func(t *testing.T, v int64, pick uint8) {
		target := integralTargets[int(pick)%len(integralTargets)]
		operand := object.NewInteger(typesystem.Int64, v)
		b := New(nil)

		unchecked, _ := b.Attach(descriptor(target, ExplicitNumeric, false))
		got, err := b.Bind(unchecked, operand, nil)
		if err != nil {
			t.Fatalf("unchecked %d to %s: %v", v, target, err)
		}
		want := wrapped(v, target)
		if !object.Equal(want, got) {
			t.Fatalf("unchecked %d to %s = %s, want %s", v, target, got.Inspect(), want.Inspect())
		}

		checked, _ := b.Attach(descriptor(target, ExplicitNumeric, true))
		got, err = b.Bind(checked, operand, nil)
		back, _ := object.Raw(want)
		fits := false
		switch r := back.(type) {
		case int64:
			fits = r == v
		case uint64:
			fits = v >= 0 && r == uint64(v)
		case uint16:
			fits = v >= 0 && int64(r) == v
		}
		switch {
		case fits && err != nil:
			t.Fatalf("checked %d to %s: %v", v, target, err)
		case fits && !object.Equal(want, got):
			t.Fatalf("checked %d to %s = %s, want %s", v, target, got.Inspect(), want.Inspect())
		case !fits && !errors.Is(err, ErrOverflow):
			t.Fatalf("checked %d to %s: err = %v, want overflow", v, target, err)
		}
	})
}

// FuzzCachedBind checks that a cached rule gives the same answer as a
// fresh resolution for the same operand type.
func FuzzCachedBind(f *testing.F) {
	f.Add(int64(1), uint8(0), uint8(0))
	f.Add(int64(-7), uint8(3), uint8(5))

	sources := []*typesystem.Type{typesystem.Int8, typesystem.Int16, typesystem.Int32, typesystem.Int64}
	f.Fuzz(func(t *testing.T, v int64, srcPick, dstPick uint8) {
		source := sources[int(srcPick)%len(sources)]
		target := integralTargets[int(dstPick)%len(integralTargets)]
		operand := wrapped(v, source)

		cached := New(nil, WithPolymorphicLimit(1))
		site, _ := cached.Attach(descriptor(target, ImplicitNumeric, false))
		first, firstErr := cached.Bind(site, operand, nil)
		second, secondErr := cached.Bind(site, operand, nil)

		fresh := New(nil)
		freshSite, _ := fresh.Attach(descriptor(target, ImplicitNumeric, false))
		want, wantErr := fresh.Bind(freshSite, operand, nil)

		if (firstErr == nil) != (wantErr == nil) || (secondErr == nil) != (wantErr == nil) {
			t.Fatalf("%s to %s: errors differ: %v / %v / %v", source, target, firstErr, secondErr, wantErr)
		}
		if wantErr == nil && (!object.Equal(want, first) || !object.Equal(want, second)) {
			t.Fatalf("%s to %s: results differ", source, target)
		}
		if site.Stats().Hits != 1 {
			t.Fatalf("second bind missed the cache: %+v", site.Stats())
		}
	})
}
