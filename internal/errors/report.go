// Package errors provides the structured error record the variance checker
// hands to its error-sink collaborator (§6, §7). It mirrors the host
// type-checker's own error-reporting shape: a schema-tagged, deterministic
// JSON record rather than a bare Go error string.
package errors

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/variance/internal/ast"
)

// Schema is the stable schema tag carried by every Report.
const Schema = "variance.error/v1"

// Secondary is one additional position attached to a Report, with its own
// message — used for the offending use in a declared_covariant/
// declared_contravariant error, rendered as the full reason chain (§4.2).
type Secondary struct {
	Span    ast.Span `json:"span"`
	Message string   `json:"message"`
}

// Report is the canonical structured error type for the variance checker.
// All four error kinds in §7 are built as a Report; nothing in the core
// ever formats a plain string error for a user-facing diagnostic.
type Report struct {
	Schema    string         `json:"schema"`
	Code      string         `json:"code"`
	Kind      string         `json:"kind"` // declared_covariant, declared_contravariant, contravariant_this, static_property_type_generic_param
	Phase     string         `json:"phase"`
	Message   string         `json:"message"`
	Span      *ast.Span      `json:"span,omitempty"`      // primary position
	Secondary []Secondary    `json:"secondary,omitempty"` // offending use(s), with rendered reason chain
	TypeName  string         `json:"type_name,omitempty"` // stripped name of the class/typedef under check
	Data      map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error so it survives errors.As unwrapping.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown variance error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the report as deterministic JSON (struct field order plus
// encoding/json's built-in alphabetical map-key sort keep this stable
// across runs without any extra bookkeeping).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
