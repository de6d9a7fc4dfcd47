package binder

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// world is a small type universe shared by the binder tests.
type world struct {
	u       *typesystem.Universe
	animal  *typesystem.Type
	dog     *typesystem.Type
	puppy   *typesystem.Type
	meters  *typesystem.Type
	ia      *typesystem.Type
	ib      *typesystem.Type
	both    *typesystem.Type
	target  *typesystem.Type
	tag     *typesystem.Type
	wrapper *typesystem.Type
	secret  *typesystem.Type
}

func field(name string) typesystem.ConvertFunc {
	return func(v typesystem.Value) (typesystem.Value, error) {
		return v.(*object.Instance).Get(name), nil
	}
}

func construct(t *typesystem.Type, name string) typesystem.ConvertFunc {
	return func(v typesystem.Value) (typesystem.Value, error) {
		inst := object.NewInstance(t)
		inst.Set(name, v.(object.Object))
		return inst, nil
	}
}

func constant(o object.Object) typesystem.ConvertFunc {
	return func(typesystem.Value) (typesystem.Value, error) { return o, nil }
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{u: typesystem.NewUniverse()}

	w.animal = &typesystem.Type{Name: "Animal", Package: "zoo", Kind: typesystem.KindClass}
	w.dog = &typesystem.Type{Name: "Dog", Package: "zoo", Kind: typesystem.KindClass, Base: w.animal}
	w.puppy = &typesystem.Type{Name: "Puppy", Package: "zoo", Kind: typesystem.KindClass, Base: w.dog}
	w.meters = &typesystem.Type{
		Name: "Meters", Package: "geo", Kind: typesystem.KindStruct,
		Fields: []typesystem.Field{{Name: "Value", Type: typesystem.Int64}},
	}
	w.ia = &typesystem.Type{Name: "IA", Kind: typesystem.KindInterface}
	w.ib = &typesystem.Type{Name: "IB", Kind: typesystem.KindInterface}
	w.both = &typesystem.Type{Name: "Both", Kind: typesystem.KindClass, Interfaces: []*typesystem.Type{w.ia, w.ib}}
	w.target = &typesystem.Type{Name: "Target", Kind: typesystem.KindClass}
	w.tag = &typesystem.Type{Name: "Tag", Kind: typesystem.KindClass}
	w.wrapper = &typesystem.Type{Name: "Wrapper", Kind: typesystem.KindStruct}
	w.secret = &typesystem.Type{Name: "Secret", Package: "vault", Kind: typesystem.KindStruct}

	for _, typ := range []*typesystem.Type{w.animal, w.dog, w.puppy, w.meters, w.ia, w.ib, w.both, w.target, w.tag, w.wrapper, w.secret} {
		require.NoError(t, w.u.Define(typ))
	}

	declare := func(on *typesystem.Type, op *typesystem.Operator) {
		require.NoError(t, on.Declare(op))
	}
	declare(w.meters, &typesystem.Operator{Source: w.meters, Target: typesystem.Int64, Fn: field("Value")})
	declare(w.meters, &typesystem.Operator{
		Source: typesystem.Int64, Target: w.meters, Explicit: true, Visibility: typesystem.Internal,
		Fn: construct(w.meters, "Value"),
	})
	declare(w.target, &typesystem.Operator{Source: w.ia, Target: w.target, Fn: constant(object.NewInstance(w.target))})
	declare(w.target, &typesystem.Operator{Source: w.ib, Target: w.target, Fn: constant(object.NewInstance(w.target))})
	declare(w.tag, &typesystem.Operator{Source: w.animal, Target: w.tag, Fn: constant(object.NewString("animal"))})
	declare(w.tag, &typesystem.Operator{Source: w.dog, Target: w.tag, Fn: constant(object.NewString("dog"))})
	declare(w.wrapper, &typesystem.Operator{Source: w.wrapper, Target: typesystem.Int32, Fn: constant(object.NewInteger(typesystem.Int32, 1))})
	declare(w.wrapper, &typesystem.Operator{Source: w.wrapper, Target: typesystem.Int64, Fn: constant(object.NewInteger(typesystem.Int64, 2))})
	declare(w.secret, &typesystem.Operator{
		Source: w.secret, Target: typesystem.String, Visibility: typesystem.Private,
		Fn: constant(object.NewString("open")),
	})
	return w
}

func (w *world) metersOf(v int64) *object.Instance {
	inst := object.NewInstance(w.meters)
	inst.Set("Value", object.NewInteger(typesystem.Int64, v))
	return inst
}

func int32Of(v int64) object.Object { return object.NewInteger(typesystem.Int32, v) }
func int64Of(v int64) object.Object { return object.NewInteger(typesystem.Int64, v) }

func descriptor(target *typesystem.Type, kind Kind, checked bool) Descriptor {
	return Descriptor{Target: target, Kind: kind, Checked: checked}
}

// countingCatalog counts catalog queries.
type countingCatalog struct {
	Declared
	calls atomic.Int64
}

func (c *countingCatalog) FindCandidates(source, target *typesystem.Type, d Descriptor) Candidates {
	c.calls.Add(1)
	return c.Declared.FindCandidates(source, target, d)
}
