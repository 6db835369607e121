package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/variance/internal/hacktype"
)

func TestParseTypePrimitivesAndWrappers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"?int", "?int"},
		{"~string", "~string"},
		{"this", "this"},
		{"any", "any"},
		{"mixed", "mixed"},
		{"dynamic", "dynamic"},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.src, nil)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestParseTypeGenericVsNominal(t *testing.T) {
	scope := map[string]bool{"T": true}

	g, err := ParseType("T", scope)
	require.NoError(t, err)
	_, isGeneric := g.(hacktype.TGeneric)
	assert.True(t, isGeneric)

	n, err := ParseType("Box", scope)
	require.NoError(t, err)
	_, isApply := n.(hacktype.TApply)
	assert.True(t, isApply)
}

func TestParseTypeApplyWithArgs(t *testing.T) {
	scope := map[string]bool{"T": true}
	got, err := ParseType("Box<T>", scope)
	require.NoError(t, err)
	app, ok := got.(hacktype.TApply)
	require.True(t, ok)
	assert.Equal(t, "Box", app.Name)
	require.Len(t, app.Args, 1)
	assert.Equal(t, "T", app.Args[0].String())
}

func TestParseTypeTuple(t *testing.T) {
	got, err := ParseType("(int, string)", nil)
	require.NoError(t, err)
	assert.Equal(t, "(int, string)", got.String())
	_, ok := got.(hacktype.TTuple)
	assert.True(t, ok)
}

func TestParseTypeUnionAndIntersection(t *testing.T) {
	u, err := ParseType("(int | string)", nil)
	require.NoError(t, err)
	assert.IsType(t, hacktype.TUnion{}, u)

	i, err := ParseType("(int & string)", nil)
	require.NoError(t, err)
	assert.IsType(t, hacktype.TIntersection{}, i)
}

func TestParseTypeMixedSeparatorsError(t *testing.T) {
	_, err := ParseType("(int, string | bool)", nil)
	assert.Error(t, err)
}

func TestParseTypeDarrayVarray(t *testing.T) {
	d, err := ParseType("darray<int, string>", nil)
	require.NoError(t, err)
	assert.Equal(t, "darray<int, string>", d.String())

	v, err := ParseType("varray<int>", nil)
	require.NoError(t, err)
	assert.Equal(t, "varray<int>", v.String())

	vd, err := ParseType("varray_or_darray<int, string>", nil)
	require.NoError(t, err)
	assert.Equal(t, "varray_or_darray<int, string>", vd.String())
}

func TestParseTypeShape(t *testing.T) {
	got, err := ParseType("shape(a: int, ?b: string)", nil)
	require.NoError(t, err)
	assert.Equal(t, "shape(a: int, ?b: string)", got.String())
}

func TestParseTypeAccess(t *testing.T) {
	scope := map[string]bool{"T": true}
	got, err := ParseType("T::Output", scope)
	require.NoError(t, err)
	assert.Equal(t, "T::Output", got.String())
}

func TestParseTypeFunSimple(t *testing.T) {
	got, err := ParseType("function(int, inout string): void", nil)
	require.NoError(t, err)
	fn, ok := got.(hacktype.TFun)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, hacktype.ModeInout, fn.Params[1].Mode)
	assert.Equal(t, "void", fn.Ret.String())
}

func TestParseTypeFunWithTParamsAndWhere(t *testing.T) {
	got, err := ParseType("function<U super T>(U): void where U as int", map[string]bool{"T": true})
	require.NoError(t, err)
	fn, ok := got.(hacktype.TFun)
	require.True(t, ok)
	require.Len(t, fn.TParams, 1)
	assert.Equal(t, "U", fn.TParams[0].Name)
	require.Len(t, fn.TParams[0].Constraints, 1)
	assert.Equal(t, hacktype.KindSuper, fn.TParams[0].Constraints[0].Kind)
	require.Len(t, fn.Where, 1)
	assert.Equal(t, hacktype.KindAs, fn.Where[0].Kind)

	// U inside the param list resolves to the function's own tparam, not a
	// nominal lookup, even though U isn't in the outer scope.
	_, isGeneric := fn.Params[0].Type.(hacktype.TGeneric)
	assert.True(t, isGeneric)
}

func TestParseTypeTrailingInputIsError(t *testing.T) {
	_, err := ParseType("int int", nil)
	assert.Error(t, err)
}
