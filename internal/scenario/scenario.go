package scenario

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Scenario is a loaded document: its universe holds the declared types with
// their operators attached.
type Scenario struct {
	Name     string
	Universe *typesystem.Universe
	Document *Document
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", path)
	}
	return Parse(data, path)
}

// Parse builds a scenario from YAML. The path is used only for error messages.
func Parse(data []byte, path string) (*Scenario, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	s := &Scenario{Name: doc.Name, Universe: typesystem.NewUniverse(), Document: doc}
	if s.Name == "" {
		s.Name = path
	}
	if err := s.declareTypes(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	if err := s.declareOperators(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	if err := s.checkCalls(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return s, nil
}

// declareTypes defines every type first so that bases, interfaces and
// fields may refer to types declared later in the document.
func (s *Scenario) declareTypes() error {
	types := make([]*typesystem.Type, len(s.Document.Types))
	for i, decl := range s.Document.Types {
		kind, ok := typesystem.ParseKind(decl.Kind)
		if !ok {
			return errors.Errorf("type %s: unknown kind %q", decl.Name, decl.Kind)
		}
		visibility, ok := typesystem.ParseVisibility(decl.Visibility)
		if !ok {
			return errors.Errorf("type %s: unknown visibility %q", decl.Name, decl.Visibility)
		}
		t := &typesystem.Type{Name: decl.Name, Package: decl.Package, Kind: kind, Visibility: visibility}
		if err := s.Universe.Define(t); err != nil {
			return err
		}
		types[i] = t
	}

	for i, decl := range s.Document.Types {
		t := types[i]
		if decl.Base != "" {
			if t.Kind != typesystem.KindClass {
				return errors.Errorf("type %s: only classes have a base", t)
			}
			base, err := s.Universe.Lookup(decl.Base)
			if err != nil {
				return errors.Wrapf(err, "type %s", t)
			}
			if base.Kind != typesystem.KindClass {
				return errors.Errorf("type %s: base %s is not a class", t, base)
			}
			t.Base = base
		}
		for _, name := range decl.Interfaces {
			iface, err := s.Universe.Lookup(name)
			if err != nil {
				return errors.Wrapf(err, "type %s", t)
			}
			if iface.Kind != typesystem.KindInterface {
				return errors.Errorf("type %s: %s is not an interface", t, iface)
			}
			t.Interfaces = append(t.Interfaces, iface)
		}
		for _, f := range decl.Fields {
			ft, err := s.Universe.Lookup(f.Type)
			if err != nil {
				return errors.Wrapf(err, "field %s.%s", t, f.Name)
			}
			t.Fields = append(t.Fields, typesystem.Field{Name: f.Name, Type: ft})
		}
	}

	for _, t := range types {
		for b := t.Base; b != nil; b = b.Base {
			if b == t {
				return errors.Errorf("type %s: inheritance cycle", t)
			}
		}
	}
	return nil
}

func (s *Scenario) declareOperators() error {
	for i, decl := range s.Document.Operators {
		from, err := s.Universe.Lookup(decl.From)
		if err != nil {
			return errors.Wrapf(err, "operator %d", i)
		}
		to, err := s.Universe.Lookup(decl.To)
		if err != nil {
			return errors.Wrapf(err, "operator %d", i)
		}
		on, err := s.declaringType(decl, from, to)
		if err != nil {
			return errors.Wrapf(err, "operator %s(%s)", to, from)
		}
		visibility, ok := typesystem.ParseVisibility(decl.Visibility)
		if !ok {
			return errors.Errorf("operator %s(%s): unknown visibility %q", to, from, decl.Visibility)
		}
		fn, err := s.implementation(decl, on, from, to)
		if err != nil {
			return errors.Wrapf(err, "operator %s(%s)", to, from)
		}
		op := &typesystem.Operator{Source: from, Target: to, Explicit: decl.Explicit, Visibility: visibility, Fn: fn}
		if err := on.Declare(op); err != nil {
			return err
		}
	}
	return nil
}

// declaringType is the explicit "on" type, or else whichever side of the
// operator is a user type, source first.
func (s *Scenario) declaringType(decl OperatorDecl, from, to *typesystem.Type) (*typesystem.Type, error) {
	if decl.On != "" {
		return s.Universe.Lookup(decl.On)
	}
	for _, t := range []*typesystem.Type{from, to} {
		if t.Kind == typesystem.KindClass || t.Kind == typesystem.KindStruct {
			return t, nil
		}
	}
	return nil, errors.New("neither side is a class or struct, set on")
}

func (s *Scenario) implementation(decl OperatorDecl, on, from, to *typesystem.Type) (typesystem.ConvertFunc, error) {
	set := 0
	for _, present := range []bool{decl.Field != "", decl.Wrap != "", decl.Const != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of field, wrap or const is required")
	}

	switch {
	case decl.Field != "":
		if _, ok := lookupField(from, decl.Field); !ok {
			return nil, errors.Errorf("%s has no field %s", from, decl.Field)
		}
		name := decl.Field
		return func(v typesystem.Value) (typesystem.Value, error) {
			inst, ok := v.(*object.Instance)
			if !ok {
				return nil, errors.Errorf("field %s: operand is %T, not an instance", name, v)
			}
			return inst.Get(name), nil
		}, nil
	case decl.Wrap != "":
		if _, ok := lookupField(to, decl.Wrap); !ok {
			return nil, errors.Errorf("%s has no field %s", to, decl.Wrap)
		}
		name := decl.Wrap
		return func(v typesystem.Value) (typesystem.Value, error) {
			operand, ok := object.From(v)
			if !ok {
				return nil, errors.Errorf("wrap %s: operand is %T", name, v)
			}
			inst := object.NewInstance(to)
			inst.Set(name, operand)
			return inst, nil
		}, nil
	}

	result, err := s.Literal(decl.Const, to)
	if err != nil {
		return nil, err
	}
	return func(typesystem.Value) (typesystem.Value, error) { return result, nil }, nil
}

// Descriptor builds the descriptor of a declared site.
func (s *Scenario) Descriptor(decl SiteDecl) (binder.Descriptor, error) {
	target, err := s.Universe.Lookup(decl.Target)
	if err != nil {
		return binder.Descriptor{}, errors.Wrapf(err, "site %s", decl.Name)
	}
	kind, ok := binder.ParseKind(decl.Kind)
	if !ok {
		return binder.Descriptor{}, errors.Errorf("site %s: unknown conversion kind %q", decl.Name, decl.Kind)
	}
	d := binder.Descriptor{Target: target, Kind: kind, Checked: decl.Checked, Scope: binder.Scope{Package: decl.Scope.Package}}
	if decl.Scope.Type != "" {
		if d.Scope.Type, err = s.Universe.Lookup(decl.Scope.Type); err != nil {
			return binder.Descriptor{}, errors.Wrapf(err, "site %s scope", decl.Name)
		}
		if d.Scope.Package == "" {
			d.Scope.Package = d.Scope.Type.Package
		}
	}
	return d, nil
}

func (s *Scenario) checkCalls() error {
	sites := make(map[string]bool, len(s.Document.Sites))
	for _, site := range s.Document.Sites {
		if site.Name == "" {
			return errors.New("site name is required")
		}
		if sites[site.Name] {
			return errors.Errorf("site %s declared twice", site.Name)
		}
		sites[site.Name] = true
	}
	for i, call := range s.Document.Calls {
		if !sites[call.Site] {
			return errors.Errorf("call %d: unknown site %q", i+1, call.Site)
		}
		if call.Expect != nil && call.Error != "" {
			return errors.Errorf("call %d: expect and error are exclusive", i+1)
		}
		if call.State != "" {
			if _, ok := binder.ParseState(call.State); !ok {
				return errors.Errorf("call %d: unknown site state %q", i+1, call.State)
			}
		}
		if call.Error != "" {
			if _, ok := expectedErrors[call.Error]; !ok {
				return errors.Errorf("call %d: unknown error %q", i+1, call.Error)
			}
		}
	}
	return nil
}
