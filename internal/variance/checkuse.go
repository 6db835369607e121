package variance

import (
	"fmt"

	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/errors"
	"github.com/sunholo/variance/internal/polarity"
)

// checkUse implements §4.5: compare the declared Variance of name against
// the observed Variance v at this occurrence, and emit a Report if they
// disagree. Bivariant on either side, and any Inv declaration, are always
// accepted — only a Cov or Contra declaration observed with a different
// tag (the opposite sign, or Inv) is an error.
func checkUse(ctx *Ctx, env Env, v polarity.Variance, name string) {
	declared := env.Get(name)
	if useIsOK(declared, v) {
		return
	}

	kind := errors.KindDeclaredCovariant
	if declared.Tag() == polarity.Contra {
		kind = errors.KindDeclaredContravariant
	}

	frames := polarity.Render(observedStack(v))
	secondary := make([]errors.Secondary, 0, len(frames))
	for _, f := range frames {
		secondary = append(secondary, errors.Secondary{
			Span:    ast.Span{Start: f.Pos, End: f.Pos},
			Message: f.Message,
		})
	}

	primary := headPos(declared)
	msg := fmt.Sprintf("%s is declared %s but used %s here", name, declaredWord(declared.Tag()), observedWord(v.Tag()))

	ctx.Sink.Emit(&errors.Report{
		Schema:    errors.Schema,
		Code:      errors.CodeForKind(kind),
		Kind:      kind,
		Phase:     "variance",
		Message:   msg,
		Span:      &ast.Span{Start: primary, End: primary},
		Secondary: secondary,
		TypeName:  ctx.TypeName,
	})
}

func useIsOK(declared, observed polarity.Variance) bool {
	if declared.Tag() == polarity.Bivariant || observed.Tag() == polarity.Bivariant {
		return true
	}
	if declared.Tag() == polarity.Inv {
		return true
	}
	return declared.Tag() == observed.Tag() && observed.Tag() != polarity.Inv
}

// headPos returns the position of a Variance's head reason — the CovStack
// head for an Inv declaration, since both its sub-stacks are seeded from
// the same declaration site.
func headPos(v polarity.Variance) ast.Pos {
	switch t := v.(type) {
	case polarity.CovVariance:
		if len(t.Stack) > 0 {
			return t.Stack[0].Pos
		}
	case polarity.ContraVariance:
		if len(t.Stack) > 0 {
			return t.Stack[0].Pos
		}
	case polarity.InvVariance:
		if len(t.CovStack) > 0 {
			return t.CovStack[0].Pos
		}
	}
	return ast.Pos{}
}

// observedStack picks the reason stack to render for the offending use.
// An Inv observation renders its CovStack consistently — both stacks carry
// the same story, just tagged for opposite sides of the same invariance.
func observedStack(v polarity.Variance) []polarity.Reason {
	switch t := v.(type) {
	case polarity.CovVariance:
		return t.Stack
	case polarity.ContraVariance:
		return t.Stack
	case polarity.InvVariance:
		return t.CovStack
	}
	return nil
}

func declaredWord(t polarity.Tag) string {
	if t == polarity.Cov {
		return "covariant"
	}
	return "contravariant"
}

func observedWord(t polarity.Tag) string {
	switch t {
	case polarity.Cov:
		return "covariantly"
	case polarity.Contra:
		return "contravariantly"
	case polarity.Inv:
		return "invariantly"
	default:
		return "bivariantly"
	}
}
