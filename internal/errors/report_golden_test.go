package errors

import (
	"testing"

	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/testutil"
)

// TestReportGolden pins the exact rendered JSON shape of a VAR004 report —
// schema, span, secondary reason chain, and data payload — so a change to
// Report's JSON tags or field values is caught. Field order is not checked:
// json.Marshal's own output is struct-order, but marshalDeterministic and
// jsonEqual re-sort through a generic map before comparing.
func TestReportGolden(t *testing.T) {
	r := &Report{
		Schema:  Schema,
		Code:    VAR004,
		Kind:    KindStaticPropertyTypeGenericParam,
		Phase:   "variance",
		Message: "static property $x may not mention type parameter T",
		Span: &ast.Span{
			Start: ast.Pos{File: "Box.hack", Line: 10, Column: 5, Offset: 120},
			End:   ast.Pos{File: "Box.hack", Line: 10, Column: 15, Offset: 130},
		},
		Secondary: []Secondary{
			{
				Span: ast.Span{
					Start: ast.Pos{File: "Box.hack", Line: 12, Column: 3, Offset: 150},
					End:   ast.Pos{File: "Box.hack", Line: 12, Column: 20, Offset: 167},
				},
				Message: "function parameters are contravariant",
			},
		},
		TypeName: "Box",
		Data:     map[string]any{"param": "T"},
	}

	testutil.CompareDataGolden(t, "errors", "static_property_report", r)
}
