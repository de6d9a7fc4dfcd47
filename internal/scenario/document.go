// Package scenario loads YAML documents that declare a type universe,
// conversion call sites and the binds to run against them.
package scenario

// Document is the YAML shape of a scenario file.
type Document struct {
	Name      string         `yaml:"name,omitempty"`
	Types     []TypeDecl     `yaml:"types,omitempty"`
	Operators []OperatorDecl `yaml:"operators,omitempty"`
	Sites     []SiteDecl     `yaml:"sites,omitempty"`
	Calls     []CallDecl     `yaml:"calls,omitempty"`
}

// TypeDecl declares a class, struct or interface.
type TypeDecl struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Package    string      `yaml:"package,omitempty"`
	Visibility string      `yaml:"visibility,omitempty"`
	Base       string      `yaml:"base,omitempty"`
	Interfaces []string    `yaml:"interfaces,omitempty"`
	Fields     []FieldDecl `yaml:"fields,omitempty"`
}

type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// OperatorDecl declares a user-defined conversion operator. Exactly one of
// Field, Wrap and Const gives its implementation:
//
//	field: projects a field of the operand
//	wrap:  builds an instance of the declaring type holding the operand in a field
//	const: always returns the literal
type OperatorDecl struct {
	On         string   `yaml:"on,omitempty"`
	From       string   `yaml:"from"`
	To         string   `yaml:"to"`
	Explicit   bool     `yaml:"explicit,omitempty"`
	Visibility string   `yaml:"visibility,omitempty"`
	Field      string   `yaml:"field,omitempty"`
	Wrap       string   `yaml:"wrap,omitempty"`
	Const      *Literal `yaml:"const,omitempty"`
}

// SiteDecl declares a call site.
type SiteDecl struct {
	Name    string    `yaml:"name"`
	Target  string    `yaml:"target"`
	Kind    string    `yaml:"kind"`
	Checked bool      `yaml:"checked,omitempty"`
	Scope   ScopeDecl `yaml:"scope,omitempty"`
}

type ScopeDecl struct {
	Package string `yaml:"package,omitempty"`
	Type    string `yaml:"type,omitempty"`
}

// CallDecl binds one operand at a site and states what should happen.
type CallDecl struct {
	Site     string   `yaml:"site"`
	Operand  *Literal `yaml:"operand"`
	Fallback *Literal `yaml:"fallback,omitempty"`
	Expect   *Literal `yaml:"expect,omitempty"`
	// Error is the expected failure: NoConversion, Ambiguous, Inaccessible,
	// Overflow or InvalidCast.
	Error string `yaml:"error,omitempty"`
	// State is the expected cache state of the site after the call.
	State string `yaml:"state,omitempty"`
}

// Literal is a runtime value written in YAML.
//
//	{type: Int32, value: 7}
//	{type: Meters, fields: {Value: {type: Int64, value: 3}}}
//	{type: Int32[], elements: [{value: 1}, {value: 2}]}
//	{host: 42}
//	{type: Null}
type Literal struct {
	Type     string              `yaml:"type,omitempty"`
	Value    interface{}         `yaml:"value,omitempty"`
	Fields   map[string]*Literal `yaml:"fields,omitempty"`
	Elements []*Literal          `yaml:"elements,omitempty"`
	Host     interface{}         `yaml:"host,omitempty"`
}
