// Package oracle implements the nominal variance oracle (§4.3): the single
// query the type traversal needs for every occurrence of a named class or
// typedef — its declared variance vector, in parameter order. It is a thin
// projection over the tenv.TEnv collaborator; the core traversal depends
// only on the Oracle interface, never on tenv directly.
package oracle

import (
	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/polarity"
	"github.com/sunholo/variance/internal/tenv"
)

// awaitableName is the built-in type whose declared variance is hard-coded
// rather than looked up: it lives in a prelude whose decl may not be
// available to every caller (§4.3, design notes).
const awaitableName = "Awaitable"

// Oracle answers "what is the declared variance vector of this nominal
// name?" Unknown names return an empty slice; the traversal zips that
// against the occurrence's type arguments as short-as-shorter, tolerating
// arity mismatches that the surrounding type-checker reports separately.
type Oracle interface {
	DeclaredVariances(name string) []polarity.Variance
}

// FromTEnv builds an Oracle backed by a tenv.TEnv.
func FromTEnv(env tenv.TEnv) Oracle {
	return &tenvOracle{env: env}
}

type tenvOracle struct {
	env tenv.TEnv
}

func (o *tenvOracle) DeclaredVariances(name string) []polarity.Variance {
	if name == awaitableName {
		return []polarity.Variance{syntheticCovariant()}
	}

	class, typedef, ok := o.env.LookupClassOrTypedef(name)
	if !ok {
		return nil
	}

	var params []tenv.TParamDecl
	var pos ast.Pos
	if class != nil {
		params = class.TParams
		pos = class.Pos
	} else {
		params = typedef.TParams
		pos = typedef.Pos
	}

	variances := make([]polarity.Variance, len(params))
	for i, p := range params {
		site := polarity.Site{Pos: pos, Descr: polarity.DescrTparamDecl}
		variances[i] = polarity.InitialFromAnnotation(site, p.Variance)
	}
	return variances
}

func syntheticCovariant() polarity.Variance {
	site := polarity.Site{Pos: ast.Pos{File: "<builtin>"}, Descr: polarity.DescrTparamDecl}
	return polarity.InitialFromAnnotation(site, polarity.AnnotationCovariant)
}

// InMemory is a minimal Oracle for unit tests that don't want to build a
// full tenv.MemTEnv — just a name-to-annotations table.
type InMemory map[string][]polarity.Annotation

func (m InMemory) DeclaredVariances(name string) []polarity.Variance {
	if name == awaitableName {
		return []polarity.Variance{syntheticCovariant()}
	}
	annots, ok := m[name]
	if !ok {
		return nil
	}
	out := make([]polarity.Variance, len(annots))
	for i, a := range annots {
		site := polarity.Site{Pos: ast.Pos{File: "<mock>"}, Descr: polarity.DescrTparamDecl}
		out[i] = polarity.InitialFromAnnotation(site, a)
	}
	return out
}
