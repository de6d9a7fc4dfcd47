package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/interop"
	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

func TestRunConversions(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "conversions.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "conversions", s.Name)

	b := binder.New(nil, binder.WithInterop(interop.New(s.Universe)))
	report, err := s.Run(b)
	require.NoError(t, err)
	require.Len(t, report.Results, len(s.Document.Calls))

	for _, r := range report.Results {
		assert.True(t, r.Passed(), "call %d at %s: %s", r.Index, r.Site, r.Mismatch)
	}
	assert.Zero(t, report.Failures())

	states := map[string]binder.State{}
	for _, site := range report.Sites {
		states[site.Name] = site.Site.State()
	}
	assert.Equal(t, binder.Polymorphic, states["widen"])
	assert.Equal(t, binder.Monomorphic, states["narrow"])
	assert.Equal(t, binder.Polymorphic, states["size"])
}

func TestRunReportsMismatches(t *testing.T) {
	doc := `
sites:
  - {name: narrow, target: Int8, kind: ExplicitNumeric, checked: true}
calls:
  - {site: narrow, operand: {type: Int32, value: 1}, expect: {value: 2}}
  - {site: narrow, operand: {type: Int32, value: 1000}, expect: {value: 1}}
  - {site: narrow, operand: {type: Int32, value: 5}, error: Overflow}
  - {site: narrow, operand: {type: String, value: "s"}, error: Ambiguous}
  - {site: narrow, operand: {type: Int32, value: 5}, state: Megamorphic}
`
	s, err := Parse([]byte(doc), "inline.yaml")
	require.NoError(t, err)
	report, err := s.Run(binder.New(nil))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Failures())
	assert.Contains(t, report.Results[0].Mismatch, "expected Int8 2, got Int8 1")
	assert.Contains(t, report.Results[1].Mismatch, "unexpected error")
	assert.Contains(t, report.Results[2].Mismatch, "expected Overflow error, got 5")
	assert.Contains(t, report.Results[3].Mismatch, "expected Ambiguous error")
	assert.Contains(t, report.Results[4].Mismatch, "expected site state Megamorphic")
}

func TestMegamorphicSite(t *testing.T) {
	doc := `
sites:
  - {name: any, target: Object, kind: Boxing}
calls:
  - {site: any, operand: {type: Int8, value: 1}, state: Monomorphic}
  - {site: any, operand: {type: Int16, value: 1}, state: Polymorphic}
  - {site: any, operand: {type: Int32, value: 1}, state: Megamorphic}
  - {site: any, operand: {type: Int32, value: 2}, expect: {type: Int32, value: 2}, state: Megamorphic}
`
	s, err := Parse([]byte(doc), "inline.yaml")
	require.NoError(t, err)
	report, err := s.Run(binder.New(nil, binder.WithPolymorphicLimit(2)))
	require.NoError(t, err)
	for _, r := range report.Results {
		assert.True(t, r.Passed(), "call %d: %s", r.Index, r.Mismatch)
	}
}

func TestRunMatchesSiteState(t *testing.T) {
	doc := `
sites:
  - {name: widen, target: Int64, kind: ImplicitNumeric}
calls:
  - {site: widen, operand: {type: Int8, value: 3}, expect: {value: 3}, state: Monomorphic}
  - {site: widen, operand: {type: Int16, value: 4}, state: Polymorphic}
  - {site: widen, operand: {type: Int16, value: 5}, state: Monomorphic}
`
	s, err := Parse([]byte(doc), "inline.yaml")
	require.NoError(t, err)
	report, err := s.Run(binder.New(nil))
	require.NoError(t, err)

	assert.True(t, report.Results[0].Passed(), report.Results[0].Mismatch)
	assert.True(t, report.Results[1].Passed(), report.Results[1].Mismatch)
	assert.Equal(t, "expected site state Monomorphic, got Polymorphic", report.Results[2].Mismatch)
	assert.Equal(t, 1, report.Failures())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "types: [", "parsing"},
		{"unknown kind", "types: [{name: A, kind: enum}]", `unknown kind "enum"`},
		{"duplicate type", "types: [{name: A, kind: class}, {name: A, kind: class}]", "already defined"},
		{"unknown base", "types: [{name: A, kind: class, base: B}]", "type not found: B"},
		{"struct base", "types: [{name: A, kind: class}, {name: B, kind: struct, base: A}]", "only classes have a base"},
		{"not an interface", "types: [{name: A, kind: class}, {name: B, kind: class, interfaces: [A]}]", "not an interface"},
		{"cycle", "types: [{name: A, kind: class, base: B}, {name: B, kind: class, base: A}]", "inheritance cycle"},
		{"bad visibility", "types: [{name: A, kind: class, visibility: secret}]", "unknown visibility"},
		{"operator without impl", "types: [{name: A, kind: struct}]\noperators: [{from: A, to: Int32}]", "exactly one of"},
		{"operator on predeclared", "operators: [{from: Int32, to: Int64, const: {value: 1}}]", "neither side"},
		{"missing field", "types: [{name: A, kind: struct}]\noperators: [{from: A, to: Int32, field: X}]", "has no field X"},
		{"unknown site", "calls: [{site: nowhere}]", `unknown site "nowhere"`},
		{"duplicate site", "sites: [{name: s, target: Int32, kind: Identity}, {name: s, target: Int32, kind: Identity}]", "declared twice"},
		{"unknown error", "sites: [{name: s, target: Int32, kind: Identity}]\ncalls: [{site: s, error: Boom}]", `unknown error "Boom"`},
		{"unknown state", "sites: [{name: s, target: Int32, kind: Identity}]\ncalls: [{site: s, state: monomorphic}]", `unknown site state "monomorphic"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "test.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunDocumentErrors(t *testing.T) {
	s, err := Parse([]byte("sites: [{name: s, target: Int32, kind: Sideways}]"), "test.yaml")
	require.NoError(t, err)
	_, err = s.Run(binder.New(nil))
	assert.ErrorContains(t, err, `unknown conversion kind "Sideways"`)

	s, err = Parse([]byte("sites: [{name: s, target: Int32, kind: Identity}]\ncalls: [{site: s, operand: {type: Int8, value: 300}}]"), "test.yaml")
	require.NoError(t, err)
	_, err = s.Run(binder.New(nil))
	assert.ErrorContains(t, err, "out of range for Int8")
}

func TestLiteral(t *testing.T) {
	s, err := Parse([]byte(`
types:
  - {name: Base, kind: class, fields: [{name: ID, type: Int32}]}
  - {name: Item, kind: class, base: Base, fields: [{name: Tags, type: "String[]"}]}
  - {name: Shape, kind: interface}
`), "test.yaml")
	require.NoError(t, err)
	u := s.Universe
	item, err := u.Lookup("Item")
	require.NoError(t, err)

	t.Run("inherited fields", func(t *testing.T) {
		got, err := s.Literal(&Literal{Type: "Item", Fields: map[string]*Literal{
			"ID":   {Value: 7},
			"Tags": {Elements: []*Literal{{Value: "a"}, {Value: "b"}}},
		}}, nil)
		require.NoError(t, err)
		inst := got.(*object.Instance)
		assert.Equal(t, item, inst.T)
		assert.True(t, object.Equal(object.NewInteger(typesystem.Int32, 7), inst.Get("ID")))
		tags := inst.Get("Tags").(*object.Array)
		assert.Equal(t, u.ArrayOf(typesystem.String), tags.T)
		assert.Equal(t, 2, tags.Len())
	})

	t.Run("scalars", func(t *testing.T) {
		cases := []struct {
			lit  *Literal
			want object.Object
		}{
			{nil, object.NULL},
			{&Literal{}, object.NULL},
			{&Literal{Type: "Null"}, object.NULL},
			{&Literal{Type: "Bool", Value: "true"}, object.TRUE},
			{&Literal{Type: "Char", Value: 66}, object.NewChar('B')},
			{&Literal{Type: "UInt16", Value: 65535}, object.NewUnsigned(typesystem.UInt16, 65535)},
			{&Literal{Type: "Float32", Value: "0.5"}, object.NewFloat(typesystem.Float32, 0.5)},
			{&Literal{Type: "String", Value: 12}, object.NewString("12")},
			{&Literal{Host: []int{1}}, object.NewHost([]int{1})},
		}
		for _, c := range cases {
			got, err := s.Literal(c.lit, nil)
			require.NoError(t, err)
			assert.True(t, object.Equal(c.want, got), "got %s, want %s", got.Inspect(), c.want.Inspect())
		}
	})

	t.Run("errors", func(t *testing.T) {
		bad := []*Literal{
			{Value: 1},
			{Type: "Missing"},
			{Type: "Shape"},
			{Type: "UInt8", Value: -1},
			{Type: "UInt8", Value: 256},
			{Type: "Char", Value: "AB"},
			{Type: "Int32", Value: "one"},
			{Type: "Item", Value: 1},
			{Type: "Item", Fields: map[string]*Literal{"Nope": {Value: 1}}},
		}
		for _, l := range bad {
			_, err := s.Literal(l, nil)
			assert.Error(t, err, "%+v", l)
		}
	})
}
