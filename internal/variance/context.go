package variance

import (
	"github.com/sunholo/variance/internal/errors"
	"github.com/sunholo/variance/internal/oracle"
	"github.com/sunholo/variance/internal/tenv"
)

// Ctx is the read-only (plus error sink) context threaded through a single
// check_class or check_typedef run. Nothing in the traversal mutates it
// except through Sink.
type Ctx struct {
	Oracle oracle.Oracle

	// Root is the enclosing class when checking a class member, nil when
	// checking a typedef body. Only the contravariant-`this` rule (§4.4)
	// consults it.
	Root *tenv.ClassInfo

	// TypeName is the stripped name of the class or typedef under check,
	// attached to every Report this run emits.
	TypeName string

	Sink *Sink
}

// Sink accumulates Reports across an entire run. The traversal never
// aborts on an error: every mismatch it finds is reported and traversal
// continues (§4.5).
type Sink struct {
	Reports []*errors.Report
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Emit records a Report.
func (s *Sink) Emit(r *errors.Report) {
	s.Reports = append(s.Reports, r)
}
