package errors

import (
	"testing"
)

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		code string
		kind string
	}{
		{"VAR001", VAR001, KindDeclaredCovariant},
		{"VAR002", VAR002, KindDeclaredContravariant},
		{"VAR003", VAR003, KindContravariantThis},
		{"VAR004", VAR004, KindStaticPropertyTypeGenericParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Errorf("Error code %s not found in registry", tt.code)
				return
			}
			if info.Code != tt.code {
				t.Errorf("Code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Kind != tt.kind {
				t.Errorf("Kind mismatch for %s: got %s, want %s", tt.code, info.Kind, tt.kind)
			}
		})
	}
}

func TestCodeForKindRoundTrips(t *testing.T) {
	for _, code := range []string{VAR001, VAR002, VAR003, VAR004} {
		info, ok := GetErrorInfo(code)
		if !ok {
			t.Fatalf("missing registry entry for %s", code)
		}
		if got := CodeForKind(info.Kind); got != code {
			t.Errorf("CodeForKind(%s) = %s, want %s", info.Kind, got, code)
		}
	}
}

func TestCodeForKindUnknown(t *testing.T) {
	if got := CodeForKind("not_a_real_kind"); got != "" {
		t.Errorf("CodeForKind(unknown) = %q, want empty string", got)
	}
}
