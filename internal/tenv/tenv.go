// Package tenv defines the typing-environment collaborator (§6): the
// read-only surface the variance checker consumes to learn about classes,
// typedefs, and their members. Everything here is an interface plus an
// in-memory reference implementation for tests and the CLI demo loader —
// the real implementation (backed by a parser, name resolver, and decl
// cache) lives entirely outside this repository.
package tenv

import (
	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/hacktype"
	"github.com/sunholo/variance/internal/polarity"
)

// Visibility distinguishes public (checked) members from private
// (exempt) ones.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// Kind distinguishes the three nominal declaration kinds; only static
// properties treat Trait specially (§4.8).
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindTrait
)

// TParamDecl is one generic parameter as declared on a class, typedef, or
// function: its name, its declared variance annotation, and any bounds.
type TParamDecl struct {
	Name        string
	Variance    polarity.Annotation
	Constraints []hacktype.Constraint
}

// PropertyInfo describes one instance or static property.
type PropertyInfo struct {
	Name       string
	Pos        ast.Pos
	Visibility Visibility
	Static     bool
	// Type is lazy: constructing a member's type can be expensive in a real
	// decl cache, and most properties are never visited (private ones are
	// skipped outright).
	Type func() hacktype.Type
}

// MethodInfo describes one instance or static method.
type MethodInfo struct {
	Name       string
	Pos        ast.Pos
	Visibility Visibility
	Static     bool
	Final      bool
	Type       func() hacktype.Type // always a hacktype.TFun value
}

// ClassInfo is the read-only view of a class or interface definition.
type ClassInfo struct {
	NameVal    string
	Pos        ast.Pos
	Final      bool
	Kind       Kind
	TParams    []TParamDecl
	Properties []PropertyInfo
	Methods    []MethodInfo
}

func (c *ClassInfo) Name() string { return c.NameVal }

// TypedefInfo is the read-only view of a type alias.
type TypedefInfo struct {
	NameVal string
	Pos     ast.Pos
	TParams []TParamDecl
	Body    hacktype.Type
}

func (t *TypedefInfo) Name() string { return t.NameVal }

// TEnv is the collaborator interface: a read-only lookup from name to
// either a *ClassInfo or a *TypedefInfo. Exactly one of the two return
// values is non-nil when ok is true.
type TEnv interface {
	LookupClassOrTypedef(name string) (class *ClassInfo, typedef *TypedefInfo, ok bool)
}

// MemTEnv is an in-memory TEnv for tests and for the CLI's YAML-loaded demo
// programs. Keys are unique; insertion order is irrelevant to lookups
// (mirrors the corpus's association-map environments).
type MemTEnv struct {
	classes   map[string]*ClassInfo
	typedefs  map[string]*TypedefInfo
}

// NewMemTEnv creates an empty in-memory typing environment.
func NewMemTEnv() *MemTEnv {
	return &MemTEnv{
		classes:  make(map[string]*ClassInfo),
		typedefs: make(map[string]*TypedefInfo),
	}
}

// AddClass registers a class or interface definition.
func (e *MemTEnv) AddClass(c *ClassInfo) { e.classes[c.NameVal] = c }

// AddTypedef registers a typedef definition.
func (e *MemTEnv) AddTypedef(t *TypedefInfo) { e.typedefs[t.NameVal] = t }

// LookupClassOrTypedef implements TEnv.
func (e *MemTEnv) LookupClassOrTypedef(name string) (*ClassInfo, *TypedefInfo, bool) {
	if c, ok := e.classes[name]; ok {
		return c, nil, true
	}
	if t, ok := e.typedefs[name]; ok {
		return nil, t, true
	}
	return nil, nil, false
}
