// Package hacktype defines the closed type grammar the variance checker
// consumes (§6): the already-resolved type representation produced by the
// surrounding type-checker's parser and name resolver. Nothing in this
// package resolves names, parses source, or performs subtype checking —
// it is pure data, grounded on the same tagged-interface-plus-concrete-struct
// shape the host type-checker uses for its own Type representation.
package hacktype

import (
	"fmt"
	"strings"

	"github.com/sunholo/variance/internal/ast"
)

// Type is the base interface implemented by every node in the grammar.
// Pattern-match on the concrete type in a type switch; there is no default
// case anywhere that matters semantically.
type Type interface {
	String() string
	Pos() ast.Pos
}

// Mode is a function parameter's passing mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInout
)

// ConstraintKind is the relation a generic bound or where-clause expresses.
type ConstraintKind int

const (
	KindAs ConstraintKind = iota
	KindEq
	KindSuper
)

func (k ConstraintKind) String() string {
	switch k {
	case KindAs:
		return "as"
	case KindEq:
		return "="
	default:
		return "super"
	}
}

// ---- Atomic types: no variance obligation of their own ----

type TAny struct{ P ast.Pos }
type TErr struct{ P ast.Pos }
type TMixed struct{ P ast.Pos }
type TNonNull struct{ P ast.Pos }
type TDynamic struct{ P ast.Pos }
type TVarType struct{ P ast.Pos } // an already-bound type variable, not a generic parameter
type TPrim struct {
	P    ast.Pos
	Name string
}
type TThis struct{ P ast.Pos }

func (t TAny) Pos() ast.Pos      { return t.P }
func (t TErr) Pos() ast.Pos      { return t.P }
func (t TMixed) Pos() ast.Pos    { return t.P }
func (t TNonNull) Pos() ast.Pos  { return t.P }
func (t TDynamic) Pos() ast.Pos  { return t.P }
func (t TVarType) Pos() ast.Pos  { return t.P }
func (t TPrim) Pos() ast.Pos     { return t.P }
func (t TThis) Pos() ast.Pos     { return t.P }

func (t TAny) String() string     { return "any" }
func (t TErr) String() string     { return "error" }
func (t TMixed) String() string   { return "mixed" }
func (t TNonNull) String() string { return "nonnull" }
func (t TDynamic) String() string { return "dynamic" }
func (t TVarType) String() string { return "#var" }
func (t TPrim) String() string    { return t.Name }
func (t TThis) String() string    { return "this" }

// ---- Wrapping types: descend unchanged ----

type TOption struct {
	P     ast.Pos
	Inner Type
}

func (t TOption) Pos() ast.Pos   { return t.P }
func (t TOption) String() string { return "?" + t.Inner.String() }

type TLike struct {
	P     ast.Pos
	Inner Type
}

func (t TLike) Pos() ast.Pos   { return t.P }
func (t TLike) String() string { return "~" + t.Inner.String() }

type TAccess struct {
	P     ast.Pos
	Inner Type
	Name  string
}

func (t TAccess) Pos() ast.Pos   { return t.P }
func (t TAccess) String() string { return fmt.Sprintf("%s::%s", t.Inner.String(), t.Name) }

// ---- Covariant containers: descend on each member unchanged ----

type TUnion struct {
	P       ast.Pos
	Members []Type
}

func (t TUnion) Pos() ast.Pos { return t.P }
func (t TUnion) String() string {
	return "(" + joinTypes(t.Members, " | ") + ")"
}

type TIntersection struct {
	P       ast.Pos
	Members []Type
}

func (t TIntersection) Pos() ast.Pos { return t.P }
func (t TIntersection) String() string {
	return "(" + joinTypes(t.Members, " & ") + ")"
}

type TTuple struct {
	P     ast.Pos
	Elems []Type
}

func (t TTuple) Pos() ast.Pos   { return t.P }
func (t TTuple) String() string { return "(" + joinTypes(t.Elems, ", ") + ")" }

type TDarray struct {
	P     ast.Pos
	Key   Type
	Value Type
}

func (t TDarray) Pos() ast.Pos { return t.P }
func (t TDarray) String() string {
	return fmt.Sprintf("darray<%s, %s>", t.Key.String(), t.Value.String())
}

type TVarray struct {
	P     ast.Pos
	Value Type
}

func (t TVarray) Pos() ast.Pos   { return t.P }
func (t TVarray) String() string { return fmt.Sprintf("varray<%s>", t.Value.String()) }

type TVarrayOrDarray struct {
	P     ast.Pos
	Key   Type
	Value Type
}

func (t TVarrayOrDarray) Pos() ast.Pos { return t.P }
func (t TVarrayOrDarray) String() string {
	return fmt.Sprintf("varray_or_darray<%s, %s>", t.Key.String(), t.Value.String())
}

// ShapeField is one field of a shape type.
type ShapeField struct {
	Name     string
	Optional bool
	Type     Type
}

type TShape struct {
	P      ast.Pos
	Fields []ShapeField // order is significant for deterministic traversal
}

func (t TShape) Pos() ast.Pos { return t.P }
func (t TShape) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts[i] = fmt.Sprintf("%s%s: %s", opt, f.Name, f.Type.String())
	}
	return "shape(" + strings.Join(parts, ", ") + ")"
}

// ---- Named types ----

// TGeneric is an occurrence of a generic parameter in scope (env[Name]
// exists). Per §4.4 its target arguments are not descended — higher-kinded
// variance for generic-of-generic arguments is an out-of-scope TODO,
// reproduced verbatim from the source this was distilled from.
type TGeneric struct {
	P    ast.Pos
	Name string
	Args []Type
}

func (t TGeneric) Pos() ast.Pos   { return t.P }
func (t TGeneric) String() string { return t.Name + argsSuffix(t.Args) }

// TApply is an occurrence of a named class or typedef applied to type
// arguments. Its declared variance vector comes from the nominal oracle.
type TApply struct {
	P    ast.Pos
	Name string
	Args []Type
}

func (t TApply) Pos() ast.Pos   { return t.P }
func (t TApply) String() string { return t.Name + argsSuffix(t.Args) }

// Param is a single function parameter: its passing mode and type.
type Param struct {
	Mode Mode
	Type Type
}

// Constraint is a single bound on a function type parameter ('as'/'='/'super').
type Constraint struct {
	Kind ConstraintKind
	Type Type
}

// TParam is a function-local generic parameter declaration.
type TParam struct {
	Name        string
	Constraints []Constraint
}

// WhereConstraint relates two types via 'as'/'='/'super' in a function's
// where-clause.
type WhereConstraint struct {
	Left  Type
	Kind  ConstraintKind
	Right Type
}

// TFun is a function type: params, optional variadic tail, its own
// (method-local) generic parameters, where-clauses, and a return type.
type TFun struct {
	P        ast.Pos
	Params   []Param
	Variadic *Param
	TParams  []TParam
	Where    []WhereConstraint
	Ret      Type
}

func (t TFun) Pos() ast.Pos { return t.P }
func (t TFun) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		prefix := ""
		if p.Mode == ModeInout {
			prefix = "inout "
		}
		parts[i] = prefix + p.Type.String()
	}
	return fmt.Sprintf("function(%s): %s", strings.Join(parts, ", "), t.Ret.String())
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func argsSuffix(args []Type) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + joinTypes(args, ", ") + ">"
}
