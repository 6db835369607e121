package errors

// Error codes for the four variance diagnostics (§7). All are in the
// "variance" phase; there is only one phase here because the checker has
// no other phases — parsing, name resolution, and subtype checking belong
// to collaborators outside this repository.
const (
	// VAR001 indicates a covariant-declared parameter used contravariantly
	// or invariantly.
	VAR001 = "VAR001"

	// VAR002 indicates a contravariant-declared parameter used
	// covariantly or invariantly.
	VAR002 = "VAR002"

	// VAR003 indicates 'this' used contravariantly inside a non-final
	// class that has co- or contravariant type parameters.
	VAR003 = "VAR003"

	// VAR004 indicates a generic type parameter appearing in the type of
	// a static property outside a trait.
	VAR004 = "VAR004"
)

// Kind strings, matching §7's four error kinds exactly — these are what
// Report.Kind is set to, independent of the VAR### code.
const (
	KindDeclaredCovariant            = "declared_covariant"
	KindDeclaredContravariant        = "declared_contravariant"
	KindContravariantThis            = "contravariant_this"
	KindStaticPropertyTypeGenericParam = "static_property_type_generic_param"
)

// ErrorInfo describes one error code for documentation and introspection.
type ErrorInfo struct {
	Code        string
	Kind        string
	Description string
}

// ErrorRegistry maps every VAR code to its descriptive info.
var ErrorRegistry = map[string]ErrorInfo{
	VAR001: {VAR001, KindDeclaredCovariant, "covariant-declared parameter used contravariantly or invariantly"},
	VAR002: {VAR002, KindDeclaredContravariant, "contravariant-declared parameter used covariantly or invariantly"},
	VAR003: {VAR003, KindContravariantThis, "'this' used contravariantly in a non-final class with co/contravariant parameters"},
	VAR004: {VAR004, KindStaticPropertyTypeGenericParam, "generic parameter used in a static property's type outside a trait"},
}

// GetErrorInfo returns the registry entry for a code, if any.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, exists := ErrorRegistry[code]
	return info, exists
}

// CodeForKind returns the VAR### code for one of the four error kinds.
func CodeForKind(kind string) string {
	switch kind {
	case KindDeclaredCovariant:
		return VAR001
	case KindDeclaredContravariant:
		return VAR002
	case KindContravariantThis:
		return VAR003
	case KindStaticPropertyTypeGenericParam:
		return VAR004
	default:
		return ""
	}
}
