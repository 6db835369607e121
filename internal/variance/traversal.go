// Package variance implements the declaration-site variance checker's core:
// the polarity-carrying type traversal (§4.4), the use-site check (§4.5),
// the tparam bound-propagation pass (§4.7), and the two entry points,
// CheckClass and CheckTypedef (§4.8).
package variance

import (
	"fmt"

	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/errors"
	"github.com/sunholo/variance/internal/hacktype"
	"github.com/sunholo/variance/internal/polarity"
)

// typeOf is the structural recursive traversal of §4.4: it carries the
// current polarity and the declared-use environment down through a type,
// composing variance across nested constructors and calling checkUse at
// every generic occurrence. It never returns an error directly — every
// mismatch it finds is reported through ctx.Sink and traversal continues.
func typeOf(ctx *Ctx, env Env, frames []*frame, cur polarity.Variance, t hacktype.Type) {
	switch n := t.(type) {

	// Atomic types carry no variance obligation of their own.
	case hacktype.TAny, hacktype.TErr, hacktype.TMixed, hacktype.TNonNull,
		hacktype.TDynamic, hacktype.TVarType, hacktype.TPrim:
		return

	case hacktype.TThis:
		handleThis(ctx, cur, n.Pos())

	// Wrapping types: descend unchanged.
	case hacktype.TOption:
		typeOf(ctx, env, frames, cur, n.Inner)
	case hacktype.TLike:
		typeOf(ctx, env, frames, cur, n.Inner)
	case hacktype.TAccess:
		typeOf(ctx, env, frames, cur, n.Inner)

	// Covariant containers: every member descends unchanged.
	case hacktype.TUnion:
		for _, m := range n.Members {
			typeOf(ctx, env, frames, cur, m)
		}
	case hacktype.TIntersection:
		for _, m := range n.Members {
			typeOf(ctx, env, frames, cur, m)
		}
	case hacktype.TTuple:
		for _, e := range n.Elems {
			typeOf(ctx, env, frames, cur, e)
		}
	case hacktype.TDarray:
		typeOf(ctx, env, frames, cur, n.Key)
		typeOf(ctx, env, frames, cur, n.Value)
	case hacktype.TVarray:
		typeOf(ctx, env, frames, cur, n.Value)
	case hacktype.TVarrayOrDarray:
		typeOf(ctx, env, frames, cur, n.Key)
		typeOf(ctx, env, frames, cur, n.Value)
	case hacktype.TShape:
		for _, f := range n.Fields {
			typeOf(ctx, env, frames, cur, f.Type)
		}

	case hacktype.TGeneric:
		handleGeneric(ctx, env, frames, cur, n)
	case hacktype.TApply:
		handleApply(ctx, env, frames, cur, n)
	case hacktype.TFun:
		handleFun(ctx, env, frames, cur, n)
	}
}

// handleThis implements the contravariant-`this` rule (§4.4). The literal
// spec text and its own worked example disagree on whether this fires for
// final or non-final classes; the worked example (a non-final class with a
// co/contravariant tparam) is the one honoured here, matching the
// soundness argument: a final class can never be narrowed by a subclass,
// so a contravariant use of `this` there is safe. See DESIGN.md.
func handleThis(ctx *Ctx, cur polarity.Variance, pos ast.Pos) {
	if cur.Tag() != polarity.Contra {
		return
	}
	if ctx.Root == nil || ctx.Root.Final {
		return
	}
	for _, tp := range ctx.Root.TParams {
		if tp.Variance != polarity.AnnotationCovariant && tp.Variance != polarity.AnnotationContravariant {
			continue
		}
		word := "covariant"
		if tp.Variance == polarity.AnnotationContravariant {
			word = "contravariant"
		}
		ctx.Sink.Emit(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.CodeForKind(errors.KindContravariantThis),
			Kind:    errors.KindContravariantThis,
			Phase:   "variance",
			Message: fmt.Sprintf("'this' is used contravariantly here, which is unsound in non-final %s because its type parameter %s is declared %s", ctx.Root.Name(), tp.Name, word),
			Span:    &ast.Span{Start: pos, End: pos},
			TypeName: ctx.TypeName,
		})
	}
}

// handleGeneric implements §4.4's generic case: refine the head reason's
// position to this exact occurrence, then check it against the declared
// Variance in scope. Target arguments are a documented TODO (hacktype.go).
func handleGeneric(ctx *Ctx, env Env, frames []*frame, cur polarity.Variance, n hacktype.TGeneric) {
	refined := polarity.RefineHeadPos(cur, n.Pos())
	record(frames, n.Name, refined.Tag())
	checkUse(ctx, env, refined, n.Name)
}

// handleApply implements §4.3/§4.4's nominal case: look up the applied
// name's declared variance vector, zip it against the occurrence's
// arguments short-as-shorter, and descend each argument under the
// composition of the current polarity with its slot's declared variance.
func handleApply(ctx *Ctx, env Env, frames []*frame, cur polarity.Variance, n hacktype.TApply) {
	declared := ctx.Oracle.DeclaredVariances(n.Name)
	m := len(declared)
	if len(n.Args) < m {
		m = len(n.Args)
	}
	for i := 0; i < m; i++ {
		site := polarity.Site{Pos: n.Args[i].Pos(), Descr: polarity.DescrTypeArgument, Outer: n.Name}
		next := polarity.Compose(site, cur, declared[i])
		typeOf(ctx, env, frames, next, n.Args[i])
	}
}

// handleFun implements §4.4 steps 1-6 (function-type traversal) followed by
// the §4.7 bound-propagation pass.
func handleFun(ctx *Ctx, env Env, frames []*frame, cur polarity.Variance, n hacktype.TFun) {
	localNames := tparamNames(n.TParams)
	localEnv := env.Without(localNames)
	f := newFrame(localNames)
	innerFrames := push(frames, f)

	for _, p := range n.Params {
		traverseParam(ctx, localEnv, innerFrames, cur, p)
	}
	if n.Variadic != nil {
		traverseParam(ctx, localEnv, innerFrames, cur, *n.Variadic)
	}

	for _, tp := range n.TParams {
		for _, c := range tp.Constraints {
			descr, tag := boundSite(c.Kind)
			site := polarity.Site{Pos: c.Type.Pos(), Descr: descr}
			slot := polarity.InitialFromAnnotation(site, tagToAnnotation(tag))
			next := polarity.Compose(site, cur, slot)
			typeOf(ctx, localEnv, innerFrames, next, c.Type)
		}
	}

	for _, w := range n.Where {
		leftDescr, leftTag := whereSide(w.Kind, true)
		rightDescr, rightTag := whereSide(w.Kind, false)

		leftSite := polarity.Site{Pos: w.Left.Pos(), Descr: leftDescr}
		leftSlot := polarity.InitialFromAnnotation(leftSite, tagToAnnotation(leftTag))
		typeOf(ctx, localEnv, innerFrames, polarity.Compose(leftSite, cur, leftSlot), w.Left)

		rightSite := polarity.Site{Pos: w.Right.Pos(), Descr: rightDescr}
		rightSlot := polarity.InitialFromAnnotation(rightSite, tagToAnnotation(rightTag))
		typeOf(ctx, localEnv, innerFrames, polarity.Compose(rightSite, cur, rightSlot), w.Right)
	}

	retSite := polarity.Site{Pos: n.Ret.Pos(), Descr: polarity.DescrFunReturn}
	typeOf(ctx, localEnv, innerFrames, polarity.PushReturn(retSite, cur), n.Ret)

	propagateBounds(ctx, localEnv, innerFrames, n, f)
}

func traverseParam(ctx *Ctx, env Env, frames []*frame, cur polarity.Variance, p hacktype.Param) {
	site := polarity.Site{Pos: p.Type.Pos(), Descr: polarity.DescrFunParam}
	if p.Mode == hacktype.ModeInout {
		inoutSite := polarity.Site{Pos: p.Type.Pos(), Descr: polarity.DescrInoutParam}
		typeOf(ctx, env, frames, polarity.InitialFromAnnotation(inoutSite, polarity.AnnotationInvariant), p.Type)
		return
	}
	typeOf(ctx, env, frames, polarity.Flip(site, cur), p.Type)
}

// propagateBounds implements §4.7: for each of this function's own tparams
// that occurred covariantly, its lower bounds are re-entered under a fresh
// covariant polarity; for each that occurred contravariantly, its upper
// bounds are re-entered under a fresh contravariant polarity ("flipped"
// from covariant, read symmetrically with the cov case). A tparam that
// occurred in both directions gets both passes.
//
// These seeds are deliberately absolute rather than composed with the
// enclosing `cur`: the point of this second pass is to catch transitive
// obligations the per-constraint and where-clause checks — which do
// compose with `cur` — can miss when a method-local tparam's own free use
// disagrees with the sign `cur` would otherwise have produced.
func propagateBounds(ctx *Ctx, env Env, frames []*frame, n hacktype.TFun, f *frame) {
	for _, tp := range n.TParams {
		o := f.names[tp.Name]
		if o == nil {
			continue
		}
		if o.cov {
			for _, b := range lowerBounds(tp, n.Where) {
				site := polarity.Site{Pos: b.Pos(), Descr: polarity.DescrMethodBoundSuper}
				typeOf(ctx, env, frames, polarity.InitialFromAnnotation(site, polarity.AnnotationCovariant), b)
			}
		}
		if o.contra {
			for _, b := range upperBounds(tp, n.Where) {
				site := polarity.Site{Pos: b.Pos(), Descr: polarity.DescrMethodBoundAs}
				typeOf(ctx, env, frames, polarity.InitialFromAnnotation(site, polarity.AnnotationContravariant), b)
			}
		}
	}
}

func lowerBounds(tp hacktype.TParam, wheres []hacktype.WhereConstraint) []hacktype.Type {
	var out []hacktype.Type
	for _, c := range tp.Constraints {
		if c.Kind == hacktype.KindSuper || c.Kind == hacktype.KindEq {
			out = append(out, c.Type)
		}
	}
	for _, w := range wheres {
		if w.Kind == hacktype.KindAs && isGenericRef(w.Right, tp.Name) {
			out = append(out, w.Left)
		}
		if w.Kind == hacktype.KindSuper && isGenericRef(w.Left, tp.Name) {
			out = append(out, w.Right)
		}
	}
	return out
}

func upperBounds(tp hacktype.TParam, wheres []hacktype.WhereConstraint) []hacktype.Type {
	var out []hacktype.Type
	for _, c := range tp.Constraints {
		if c.Kind == hacktype.KindAs || c.Kind == hacktype.KindEq {
			out = append(out, c.Type)
		}
	}
	for _, w := range wheres {
		if w.Kind == hacktype.KindAs && isGenericRef(w.Left, tp.Name) {
			out = append(out, w.Right)
		}
		if w.Kind == hacktype.KindSuper && isGenericRef(w.Right, tp.Name) {
			out = append(out, w.Left)
		}
	}
	return out
}

func isGenericRef(t hacktype.Type, name string) bool {
	g, ok := t.(hacktype.TGeneric)
	return ok && g.Name == name
}

func tparamNames(tps []hacktype.TParam) []string {
	out := make([]string, len(tps))
	for i, tp := range tps {
		out[i] = tp.Name
	}
	return out
}

// boundSite maps a method tparam's own bound kind to its polarity (§4.6).
func boundSite(k hacktype.ConstraintKind) (polarity.PosDescr, polarity.Tag) {
	switch k {
	case hacktype.KindAs:
		return polarity.DescrMethodBoundAs, polarity.Contra
	case hacktype.KindSuper:
		return polarity.DescrMethodBoundSuper, polarity.Cov
	default: // KindEq
		return polarity.DescrMethodBoundEq, polarity.Inv
	}
}

// whereSide maps a where-clause's kind and side to its polarity (§4.6).
func whereSide(k hacktype.ConstraintKind, left bool) (polarity.PosDescr, polarity.Tag) {
	switch k {
	case hacktype.KindAs:
		if left {
			return polarity.DescrWhereAsLeft, polarity.Cov
		}
		return polarity.DescrWhereAsRight, polarity.Contra
	case hacktype.KindSuper:
		if left {
			return polarity.DescrWhereSuperLeft, polarity.Contra
		}
		return polarity.DescrWhereSuperRight, polarity.Cov
	default: // KindEq
		if left {
			return polarity.DescrWhereEqLeft, polarity.Inv
		}
		return polarity.DescrWhereEqRight, polarity.Inv
	}
}

func tagToAnnotation(t polarity.Tag) polarity.Annotation {
	switch t {
	case polarity.Cov:
		return polarity.AnnotationCovariant
	case polarity.Contra:
		return polarity.AnnotationContravariant
	default:
		return polarity.AnnotationInvariant
	}
}
