package polarity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/variance/internal/ast"
)

func pos(line int) ast.Pos {
	return ast.Pos{File: "test.hx", Line: line, Column: 1}
}

func site(line int, d PosDescr) Site {
	return Site{Pos: pos(line), Descr: d}
}

func allShapes(t *testing.T) []Variance {
	t.Helper()
	return []Variance{
		CovVariance{Stack: []Reason{site(1, DescrFunReturn).reason(Cov)}},
		ContraVariance{Stack: []Reason{site(1, DescrFunParam).reason(Contra)}},
		InvVariance{
			CovStack:    []Reason{site(1, DescrInstanceMember).reason(Inv)},
			ContraStack: []Reason{site(1, DescrInstanceMember).reason(Inv)},
		},
		Biv,
	}
}

// Reason-stack non-emptiness: every non-Bivariant Variance produced by
// Flip, Compose, or InitialFromAnnotation has a non-empty stack (or, for
// Inv, non-empty on both sides).
func TestReasonStackNonEmptiness(t *testing.T) {
	for _, annot := range []Annotation{AnnotationCovariant, AnnotationContravariant, AnnotationInvariant} {
		v := InitialFromAnnotation(site(1, DescrTparamDecl), annot)
		assertNonEmpty(t, v)
	}

	for _, v := range allShapes(t) {
		flipped := Flip(site(2, DescrFunParam), v)
		assertNonEmpty(t, flipped)
	}

	for _, from := range allShapes(t) {
		for _, to := range allShapes(t) {
			composed := Compose(site(3, DescrTypeArgument), from, to)
			assertNonEmpty(t, composed)
		}
	}
}

func assertNonEmpty(t *testing.T, v Variance) {
	t.Helper()
	switch c := v.(type) {
	case CovVariance:
		assert.NotEmpty(t, c.Stack)
	case ContraVariance:
		assert.NotEmpty(t, c.Stack)
	case InvVariance:
		assert.NotEmpty(t, c.CovStack)
		assert.NotEmpty(t, c.ContraStack)
	case BivariantVariance:
		// carries no reasons by definition
	}
}

// Double-flip identity on tag: flipping twice at the same site returns the
// original tag.
func TestDoubleFlipIdentity(t *testing.T) {
	s := site(4, DescrFunParam)
	for _, v := range allShapes(t) {
		once := Flip(s, v)
		twice := Flip(s, once)
		assert.Equal(t, v.Tag(), twice.Tag())
	}
}

// Inv absorption: composing Inv with anything (on either side) yields Inv.
func TestInvAbsorption(t *testing.T) {
	inv := InvVariance{
		CovStack:    []Reason{site(1, DescrInstanceMember).reason(Inv)},
		ContraStack: []Reason{site(1, DescrInstanceMember).reason(Inv)},
	}
	s := site(5, DescrTypeArgument)

	for _, v := range allShapes(t) {
		require.Equal(t, Inv, Compose(s, inv, v).Tag())
		require.Equal(t, Inv, Compose(s, v, inv).Tag())
	}
}

// Bivariant neutrality: Bivariant on either side of Compose returns the
// other side unchanged.
func TestBivariantNeutrality(t *testing.T) {
	s := site(6, DescrTypeArgument)
	for _, v := range allShapes(t) {
		if diff := cmp.Diff(v, Compose(s, Biv, v)); diff != "" {
			t.Errorf("Compose(Biv, v) changed v (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(v, Compose(s, v, Biv)); diff != "" {
			t.Errorf("Compose(v, Biv) changed v (-want +got):\n%s", diff)
		}
	}
}

// Composition sign table: tag(Compose(a, b)) follows the §4.1 table for
// all combinations that aren't absorbed by Inv or Bivariant.
func TestCompositionSignTable(t *testing.T) {
	s := site(7, DescrTypeArgument)
	cases := []struct {
		from, to Tag
		want     Tag
	}{
		{Cov, Cov, Cov},
		{Cov, Contra, Contra},
		{Contra, Cov, Contra},
		{Contra, Contra, Cov},
	}
	for _, c := range cases {
		from := variantFor(c.from)
		to := variantFor(c.to)
		got := Compose(s, from, to).Tag()
		assert.Equalf(t, c.want, got, "compose(%s, %s)", c.from, c.to)
	}
}

func variantFor(t Tag) Variance {
	switch t {
	case Cov:
		return CovVariance{Stack: []Reason{site(1, DescrFunReturn).reason(Cov)}}
	case Contra:
		return ContraVariance{Stack: []Reason{site(1, DescrFunParam).reason(Contra)}}
	default:
		return Biv
	}
}

// Determinism: repeated composition from the same inputs yields bit-identical
// stacks, not just equal tags.
func TestComposeDeterministic(t *testing.T) {
	s := site(8, DescrTypeArgument)
	from := CovVariance{Stack: []Reason{site(1, DescrFunReturn).reason(Cov)}}
	to := ContraVariance{Stack: []Reason{site(1, DescrFunParam).reason(Contra)}}

	a := Compose(s, from, to)
	b := Compose(s, from, to)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Compose not deterministic (-a +b):\n%s", diff)
	}
}

func TestRenderSingleEntryIsLeafOnly(t *testing.T) {
	stack := []Reason{site(1, DescrFunReturn).reason(Cov)}
	frames := Render(stack)
	require.Len(t, frames, 1)
	assert.Equal(t, "function return types are covariant", frames[0].Message)
}

func TestRenderMultiEntryHasSummaryAndFrames(t *testing.T) {
	stack := []Reason{
		site(2, DescrFunParam).reason(Contra),
		site(1, DescrTypeArgument).reason(Cov),
	}
	frames := Render(stack)
	require.Len(t, frames, 3)
	assert.Contains(t, frames[0].Message, "composition of")
}
