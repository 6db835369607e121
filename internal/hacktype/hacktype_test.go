package hacktype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/variance/internal/ast"
)

func p(line int) ast.Pos { return ast.Pos{File: "t.hx", Line: line, Column: 1} }

func TestConstraintKindString(t *testing.T) {
	assert.Equal(t, "as", KindAs.String())
	assert.Equal(t, "=", KindEq.String())
	assert.Equal(t, "super", KindSuper.String())
}

func TestAtomicTypesStringAndPos(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{TAny{P: p(1)}, "any"},
		{TErr{P: p(1)}, "error"},
		{TMixed{P: p(1)}, "mixed"},
		{TNonNull{P: p(1)}, "nonnull"},
		{TDynamic{P: p(1)}, "dynamic"},
		{TVarType{P: p(1)}, "#var"},
		{TPrim{P: p(1), Name: "int"}, "int"},
		{TThis{P: p(1)}, "this"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.t.String())
		assert.Equal(t, p(1), tt.t.Pos())
	}
}

func TestWrappingTypesString(t *testing.T) {
	inner := TPrim{P: p(1), Name: "int"}
	assert.Equal(t, "?int", TOption{P: p(1), Inner: inner}.String())
	assert.Equal(t, "~int", TLike{P: p(1), Inner: inner}.String())
	assert.Equal(t, "int::T", TAccess{P: p(1), Inner: inner, Name: "T"}.String())
}

func TestContainerTypesString(t *testing.T) {
	a := TPrim{P: p(1), Name: "int"}
	b := TPrim{P: p(1), Name: "string"}

	assert.Equal(t, "(int | string)", TUnion{P: p(1), Members: []Type{a, b}}.String())
	assert.Equal(t, "(int & string)", TIntersection{P: p(1), Members: []Type{a, b}}.String())
	assert.Equal(t, "(int, string)", TTuple{P: p(1), Elems: []Type{a, b}}.String())
	assert.Equal(t, "darray<int, string>", TDarray{P: p(1), Key: a, Value: b}.String())
	assert.Equal(t, "varray<int>", TVarray{P: p(1), Value: a}.String())
	assert.Equal(t, "varray_or_darray<int, string>", TVarrayOrDarray{P: p(1), Key: a, Value: b}.String())
}

func TestShapeFieldOrderIsPreserved(t *testing.T) {
	shape := TShape{
		P: p(1),
		Fields: []ShapeField{
			{Name: "a", Type: TPrim{P: p(1), Name: "int"}},
			{Name: "b", Optional: true, Type: TPrim{P: p(1), Name: "string"}},
		},
	}
	assert.Equal(t, "shape(a: int, ?b: string)", shape.String())
}

func TestGenericAndApplyString(t *testing.T) {
	g := TGeneric{P: p(1), Name: "T"}
	assert.Equal(t, "T", g.String())

	app := TApply{P: p(1), Name: "Box", Args: []Type{TGeneric{P: p(1), Name: "T"}}}
	assert.Equal(t, "Box<T>", app.String())
}

func TestFunString(t *testing.T) {
	fn := TFun{
		P: p(1),
		Params: []Param{
			{Mode: ModeNormal, Type: TPrim{P: p(1), Name: "int"}},
			{Mode: ModeInout, Type: TPrim{P: p(1), Name: "string"}},
		},
		Ret: TPrim{P: p(1), Name: "void"},
	}
	assert.Equal(t, "function(int, inout string): void", fn.String())
}
