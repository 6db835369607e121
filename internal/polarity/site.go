// Package polarity implements the closed polarity algebra that sits at the
// heart of the variance checker: the Cov/Contra/Inv/Bivariant domain, the
// flip and compose operations over it, and the append-only reason stacks
// that let every inferred polarity explain itself.
//
// Nothing in this package knows about classes, typedefs, or function
// signatures — it only knows about positions (ast.Pos), the syntactic role
// that induced a polarity (PosDescr), and the algebra over Tag values. The
// type traversal in internal/variance uses the whole algebra; internal/oracle
// and the explain shell use it to build declared variances.
package polarity

import (
	"fmt"

	"github.com/sunholo/variance/internal/ast"
)

// Tag is the three-valued (plus bivariant) polarity domain.
type Tag int

const (
	Cov Tag = iota
	Contra
	Inv
	Bivariant
)

func (t Tag) String() string {
	switch t {
	case Cov:
		return "+"
	case Contra:
		return "-"
	case Inv:
		return "invariant"
	case Bivariant:
		return "bivariant"
	default:
		return "unknown"
	}
}

// PosDescr names the syntactic role that induced a polarity. Every value
// maps 1:1 to a fixed, verbatim message so that diagnostics are stable
// across runs and comparable in tests.
type PosDescr int

const (
	DescrTypedefBody PosDescr = iota
	DescrInstanceMember
	DescrTparamDecl
	DescrFunParam
	DescrFunReturn
	DescrTypeArgument // carries the outer class/typedef name in Site.Outer
	DescrInoutParam
	DescrThis
	DescrMethodBoundAs
	DescrMethodBoundEq
	DescrMethodBoundSuper
	DescrWhereAsLeft
	DescrWhereAsRight
	DescrWhereEqLeft
	DescrWhereEqRight
	DescrWhereSuperLeft
	DescrWhereSuperRight
)

// descrMessages holds the fixed, verbatim text for each PosDescr. Reproduced
// exactly so that two runs (or a human and the checker) describe the same
// position identically.
var descrMessages = map[PosDescr]string{
	DescrTypedefBody:      "aliased types are covariant",
	DescrInstanceMember:   "class and interface member declarations are invariant",
	DescrTparamDecl:       "this is the generic parameter's own declaration",
	DescrFunParam:         "function parameters are contravariant",
	DescrFunReturn:        "function return types are covariant",
	DescrTypeArgument:     "type argument to %s",
	DescrInoutParam:       "inout parameters are invariant",
	DescrThis:             "this is used here",
	DescrMethodBoundAs:    "'as' bounds on a generic parameter are contravariant",
	DescrMethodBoundEq:    "'=' bounds on a generic parameter are invariant",
	DescrMethodBoundSuper: "'super' bounds on a generic parameter are covariant",
	DescrWhereAsLeft:      "the left side of a 'where ... as ...' constraint is covariant",
	DescrWhereAsRight:     "the right side of a 'where ... as ...' constraint is contravariant",
	DescrWhereEqLeft:      "the left side of a 'where ... = ...' constraint is invariant",
	DescrWhereEqRight:     "the right side of a 'where ... = ...' constraint is invariant",
	DescrWhereSuperLeft:   "the left side of a 'where ... super ...' constraint is contravariant",
	DescrWhereSuperRight:  "the right side of a 'where ... super ...' constraint is covariant",
}

// Message renders the fixed message for this descriptor. outer is only
// consulted for DescrTypeArgument (the enclosing class/typedef name).
func (d PosDescr) Message(outer string) string {
	msg, ok := descrMessages[d]
	if !ok {
		return "unknown position"
	}
	if d == DescrTypeArgument {
		return fmt.Sprintf(msg, outer)
	}
	return msg
}

// Site is an unresolved reason: a position and the syntactic role that
// produced it, but not yet the polarity tag that role ended up carrying.
// flip and compose fill in the tag when they build the Reason that gets
// pushed onto a stack.
type Site struct {
	Pos   ast.Pos
	Descr PosDescr
	Outer string // populated only when Descr == DescrTypeArgument
}

// Reason is a single, immutable frame of provenance: the exact position,
// the syntactic role, and the polarity tag that role composed to.
type Reason struct {
	Pos   ast.Pos
	Descr PosDescr
	Tag   Tag
	Outer string
}

func (s Site) reason(tag Tag) Reason {
	return Reason{Pos: s.Pos, Descr: s.Descr, Tag: tag, Outer: s.Outer}
}

// Message renders this single frame, prefixed with its polarity sign.
func (r Reason) Message() string {
	return fmt.Sprintf("%s: %s", signPrefix(r.Tag), r.Descr.Message(r.Outer))
}

func signPrefix(t Tag) string {
	switch t {
	case Cov:
		return "+"
	case Contra:
		return "-"
	case Inv:
		return "I"
	default:
		return "?"
	}
}
