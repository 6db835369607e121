package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/polarity"
	"github.com/sunholo/variance/internal/tenv"
)

func TestAwaitableIsHardcodedCovariant(t *testing.T) {
	for _, o := range []Oracle{FromTEnv(tenv.NewMemTEnv()), InMemory{}} {
		vs := o.DeclaredVariances("Awaitable")
		require.Len(t, vs, 1)
		assert.Equal(t, polarity.Cov, vs[0].Tag())
	}
}

func TestFromTEnvUnknownNameIsEmpty(t *testing.T) {
	o := FromTEnv(tenv.NewMemTEnv())
	assert.Empty(t, o.DeclaredVariances("Nope"))
}

func TestFromTEnvClassVariances(t *testing.T) {
	env := tenv.NewMemTEnv()
	env.AddClass(&tenv.ClassInfo{
		NameVal: "Box",
		Pos:     ast.Pos{File: "t.hx", Line: 1},
		TParams: []tenv.TParamDecl{
			{Name: "T", Variance: polarity.AnnotationContravariant},
			{Name: "U", Variance: polarity.AnnotationInvariant},
		},
	})

	vs := FromTEnv(env).DeclaredVariances("Box")
	require.Len(t, vs, 2)
	assert.Equal(t, polarity.Contra, vs[0].Tag())
	assert.Equal(t, polarity.Inv, vs[1].Tag())
}

func TestFromTEnvTypedefVariances(t *testing.T) {
	env := tenv.NewMemTEnv()
	env.AddTypedef(&tenv.TypedefInfo{
		NameVal: "Pair",
		TParams: []tenv.TParamDecl{{Name: "T", Variance: polarity.AnnotationCovariant}},
	})

	vs := FromTEnv(env).DeclaredVariances("Pair")
	require.Len(t, vs, 1)
	assert.Equal(t, polarity.Cov, vs[0].Tag())
}

func TestInMemoryOracle(t *testing.T) {
	o := InMemory{"Box": []polarity.Annotation{polarity.AnnotationContravariant}}

	vs := o.DeclaredVariances("Box")
	require.Len(t, vs, 1)
	assert.Equal(t, polarity.Contra, vs[0].Tag())

	assert.Empty(t, o.DeclaredVariances("Nope"))
}
