package variance

import (
	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/errors"
	"github.com/sunholo/variance/internal/hacktype"
	"github.com/sunholo/variance/internal/oracle"
	"github.com/sunholo/variance/internal/polarity"
	"github.com/sunholo/variance/internal/tenv"
)

// CheckTypedef implements §4.8's typedef entry point: environment is the
// typedef's own declared variances, there is no enclosing class, and the
// body is traversed under a seeded covariant polarity (aliased bodies are
// covariant).
func CheckTypedef(o oracle.Oracle, td *tenv.TypedefInfo) *Sink {
	sink := NewSink()
	ctx := &Ctx{Oracle: o, Root: nil, TypeName: td.Name(), Sink: sink}
	env := buildEnv(td.TParams, td.Pos)

	site := polarity.Site{Pos: td.Pos, Descr: polarity.DescrTypedefBody}
	seed := polarity.InitialFromAnnotation(site, polarity.AnnotationCovariant)
	typeOf(ctx, env, nil, seed, td.Body)

	return sink
}

// CheckClass implements §4.8's class entry point. parents is the list of
// extends/implements/use types, traversed under Bivariant — they impose no
// obligation of their own, but a use of a class tparam inside one is still
// compared against its declared variance by checkUse.
func CheckClass(o oracle.Oracle, class *tenv.ClassInfo, parents []hacktype.Type) *Sink {
	sink := NewSink()
	ctx := &Ctx{Oracle: o, Root: class, TypeName: class.Name(), Sink: sink}
	env := buildEnv(class.TParams, class.Pos)

	for _, p := range parents {
		typeOf(ctx, env, nil, polarity.Biv, p)
	}

	for _, prop := range class.Properties {
		if prop.Visibility == tenv.Private {
			continue
		}
		if prop.Static {
			if class.Kind == tenv.KindTrait {
				continue
			}
			scanStaticProperty(ctx, env, prop.Type())
			continue
		}
		site := polarity.Site{Pos: prop.Pos, Descr: polarity.DescrInstanceMember}
		seed := polarity.InitialFromAnnotation(site, polarity.AnnotationInvariant)
		typeOf(ctx, env, nil, seed, prop.Type())
	}

	for _, m := range class.Methods {
		if m.Visibility == tenv.Private {
			continue
		}
		if m.Final {
			continue
		}
		if m.Static && class.Final {
			continue
		}
		// Cov([]): the empty-stack seed is never observed directly — the
		// function-type case pushes a frame before any generic occurrence
		// under it can reach checkUse (§4.8).
		typeOf(ctx, env, nil, polarity.CovVariance{}, m.Type())
	}

	return sink
}

// CheckExpr runs the traversal on a single ad hoc type expression under the
// given environment, root (optional, for the contravariant-`this` rule),
// and seed polarity. It is the entry point the `explain` debug shell uses
// to demonstrate the algebra on type expressions that were never attached
// to a real class or typedef member.
func CheckExpr(o oracle.Oracle, env Env, root *tenv.ClassInfo, typeName string, seed polarity.Variance, t hacktype.Type) *Sink {
	sink := NewSink()
	ctx := &Ctx{Oracle: o, Root: root, TypeName: typeName, Sink: sink}
	typeOf(ctx, env, nil, seed, t)
	return sink
}

func buildEnv(tparams []tenv.TParamDecl, pos ast.Pos) Env {
	env := make(Env, len(tparams))
	for _, tp := range tparams {
		site := polarity.Site{Pos: pos, Descr: polarity.DescrTparamDecl}
		env[tp.Name] = polarity.InitialFromAnnotation(site, tp.Variance)
	}
	return env
}

// scanStaticProperty implements §4.8's static-property rule for non-trait
// classes: rather than traversing for variance, it rejects every
// occurrence of a class tparam anywhere in the type.
func scanStaticProperty(ctx *Ctx, env Env, t hacktype.Type) {
	switch n := t.(type) {
	case hacktype.TOption:
		scanStaticProperty(ctx, env, n.Inner)
	case hacktype.TLike:
		scanStaticProperty(ctx, env, n.Inner)
	case hacktype.TAccess:
		scanStaticProperty(ctx, env, n.Inner)
	case hacktype.TUnion:
		for _, m := range n.Members {
			scanStaticProperty(ctx, env, m)
		}
	case hacktype.TIntersection:
		for _, m := range n.Members {
			scanStaticProperty(ctx, env, m)
		}
	case hacktype.TTuple:
		for _, e := range n.Elems {
			scanStaticProperty(ctx, env, e)
		}
	case hacktype.TDarray:
		scanStaticProperty(ctx, env, n.Key)
		scanStaticProperty(ctx, env, n.Value)
	case hacktype.TVarray:
		scanStaticProperty(ctx, env, n.Value)
	case hacktype.TVarrayOrDarray:
		scanStaticProperty(ctx, env, n.Key)
		scanStaticProperty(ctx, env, n.Value)
	case hacktype.TShape:
		for _, f := range n.Fields {
			scanStaticProperty(ctx, env, f.Type)
		}
	case hacktype.TApply:
		for _, a := range n.Args {
			scanStaticProperty(ctx, env, a)
		}
	case hacktype.TGeneric:
		if _, ok := env[n.Name]; ok {
			emitStaticPropertyError(ctx, n)
			return
		}
	case hacktype.TFun:
		local := make(map[string]bool, len(n.TParams))
		for _, tp := range n.TParams {
			local[tp.Name] = true
		}
		scoped := env.Without(keysOf(local))
		for _, p := range n.Params {
			scanStaticProperty(ctx, scoped, p.Type)
		}
		if n.Variadic != nil {
			scanStaticProperty(ctx, scoped, n.Variadic.Type)
		}
		for _, tp := range n.TParams {
			for _, c := range tp.Constraints {
				scanStaticProperty(ctx, scoped, c.Type)
			}
		}
		for _, w := range n.Where {
			scanStaticProperty(ctx, scoped, w.Left)
			scanStaticProperty(ctx, scoped, w.Right)
		}
		scanStaticProperty(ctx, scoped, n.Ret)
	}
}

func emitStaticPropertyError(ctx *Ctx, n hacktype.TGeneric) {
	ctx.Sink.Emit(&errors.Report{
		Schema:   errors.Schema,
		Code:     errors.CodeForKind(errors.KindStaticPropertyTypeGenericParam),
		Kind:     errors.KindStaticPropertyTypeGenericParam,
		Phase:    "variance",
		Message:  n.Name + " cannot appear in the type of a static property outside a trait",
		Span:     &ast.Span{Start: n.Pos(), End: n.Pos()},
		TypeName: ctx.TypeName,
	})
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
