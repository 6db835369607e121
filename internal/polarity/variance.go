package polarity

import "github.com/sunholo/variance/internal/ast"

// Variance is the tagged union of §3: a parameter's inferred polarity,
// carrying enough provenance to explain itself. Every non-Bivariant shape
// carries a non-empty reason stack (innermost frame first); Bivariant
// carries none.
//
// Switches on a Variance in this package name the shapes they treat
// differently and send the rest (always including BivariantVariance) to a
// default branch.
type Variance interface {
	Tag() Tag
	isVariance()
}

// CovVariance means the parameter appeared only in covariant positions.
type CovVariance struct{ Stack []Reason }

// ContraVariance means the parameter appeared only in contravariant positions.
type ContraVariance struct{ Stack []Reason }

// InvVariance means the parameter appeared in both polarities; both proofs
// are kept so either can be reported.
type InvVariance struct {
	CovStack    []Reason
	ContraStack []Reason
}

// BivariantVariance means the parameter did not appear, or is out of the
// scope that would constrain it (e.g. a method's own type parameter).
type BivariantVariance struct{}

func (CovVariance) isVariance()       {}
func (ContraVariance) isVariance()    {}
func (InvVariance) isVariance()       {}
func (BivariantVariance) isVariance() {}

func (CovVariance) Tag() Tag       { return Cov }
func (ContraVariance) Tag() Tag    { return Contra }
func (InvVariance) Tag() Tag       { return Inv }
func (BivariantVariance) Tag() Tag { return Bivariant }

// Biv is the single Bivariant value; it carries no reasons so one shared
// instance is always safe to return.
var Biv Variance = BivariantVariance{}

// Annotation is the declared, source-level variance annotation: one of the
// three spellings a generic parameter can carry at its declaration site.
type Annotation int

const (
	AnnotationCovariant Annotation = iota
	AnnotationContravariant
	AnnotationInvariant
)

// InitialFromAnnotation builds the Variance established at scope entry for
// a declared generic parameter (§4.1). This is the only way a Cov/Contra/Inv
// value is created from nothing; every other Variance in the system is
// derived from one of these via Flip/Compose.
func InitialFromAnnotation(site Site, annot Annotation) Variance {
	switch annot {
	case AnnotationCovariant:
		return CovVariance{Stack: []Reason{site.reason(Cov)}}
	case AnnotationContravariant:
		return ContraVariance{Stack: []Reason{site.reason(Contra)}}
	default: // AnnotationInvariant
		r := site.reason(Inv)
		return InvVariance{CovStack: []Reason{r}, ContraStack: []Reason{r}}
	}
}

// Flip negates a polarity and records the flip as a new head reason (§4.1).
// Inv is maximally constrained already and absorbs a flip; Bivariant has no
// polarity to negate.
func Flip(site Site, v Variance) Variance {
	switch t := v.(type) {
	case CovVariance:
		return ContraVariance{Stack: prepend(site.reason(Contra), t.Stack)}
	case ContraVariance:
		return CovVariance{Stack: prepend(site.reason(Cov), t.Stack)}
	case InvVariance:
		return t
	default: // BivariantVariance
		return v
	}
}

// Compose composes the current polarity `from` with the declared polarity
// `to` of an outer nominal parameter slot (§4.1).
//
// Bivariant is the absorbing identity on either side (§3 invariant:
// Bivariant ⊕ x = x). Inv absorbs once present on either side. When `from`
// is already Inv its two proof stacks are kept and extended — the
// surrounding composition is just one more frame in an already-invariant
// history. When Inv arises fresh from `to` the local site is the only
// reason that matters; the (possibly distant) outer declaration's stack is
// dropped in favour of it. Otherwise the resultant tag is the sign
// composition of from and to (same-sign composes to covariant, opposite
// signs compose to contravariant) — the two negations of
// contravariant-in-contravariant cancelling is what makes scenario
// `Box<-T>` used at a contravariant position itself covariant in T.
func Compose(site Site, from, to Variance) Variance {
	if _, ok := from.(BivariantVariance); ok {
		return to
	}
	if _, ok := to.(BivariantVariance); ok {
		return from
	}
	if f, ok := from.(InvVariance); ok {
		r := site.reason(Inv)
		return InvVariance{
			CovStack:    prepend(r, f.CovStack),
			ContraStack: prepend(r, f.ContraStack),
		}
	}
	if isInv(to) {
		r := site.reason(Inv)
		return InvVariance{CovStack: []Reason{r}, ContraStack: []Reason{r}}
	}

	fromStack := stackOf(from)
	if from.Tag() == to.Tag() {
		return CovVariance{Stack: prepend(site.reason(Cov), fromStack)}
	}
	return ContraVariance{Stack: prepend(site.reason(Contra), fromStack)}
}

// RefineHeadPos rebuilds v with its head reason's position replaced by pos,
// preserving descriptor, tag, and outer name — a non-destructive rebuild
// used when a generic occurrence's exact source position should supersede
// the position the current polarity was composed at (§4.4, the generic
// case). Bivariant has no stack and is returned unchanged.
func RefineHeadPos(v Variance, pos ast.Pos) Variance {
	switch t := v.(type) {
	case CovVariance:
		return CovVariance{Stack: refineHead(t.Stack, pos)}
	case ContraVariance:
		return ContraVariance{Stack: refineHead(t.Stack, pos)}
	case InvVariance:
		return InvVariance{
			CovStack:    refineHead(t.CovStack, pos),
			ContraStack: refineHead(t.ContraStack, pos),
		}
	default:
		return v
	}
}

func refineHead(s []Reason, pos ast.Pos) []Reason {
	if len(s) == 0 {
		return s
	}
	out := make([]Reason, len(s))
	copy(out, s)
	out[0] = Reason{Pos: pos, Descr: out[0].Descr, Tag: out[0].Tag, Outer: out[0].Outer}
	return out
}

// PushReturn prepends a covariant-return frame without ever flipping the
// current polarity's sign: a covariant context stays covariant, a
// contravariant context stays contravariant (composing with a covariant
// declared slot is a no-op on the sign, per Compose's same-sign rule) — the
// one divergence from plain Compose is Bivariant, which must stay
// Bivariant here rather than collapse to the fresh Cov slot (§4.4 step 6).
func PushReturn(site Site, cur Variance) Variance {
	if _, ok := cur.(BivariantVariance); ok {
		return cur
	}
	slot := CovVariance{Stack: []Reason{site.reason(Cov)}}
	return Compose(site, cur, slot)
}

func isInv(v Variance) bool {
	_, ok := v.(InvVariance)
	return ok
}

func stackOf(v Variance) []Reason {
	switch t := v.(type) {
	case CovVariance:
		return t.Stack
	case ContraVariance:
		return t.Stack
	default:
		return nil
	}
}

// prepend builds a new slice sharing the tail of s — a persistent cons,
// never mutating the caller's stack.
func prepend(r Reason, s []Reason) []Reason {
	out := make([]Reason, 0, len(s)+1)
	out = append(out, r)
	out = append(out, s...)
	return out
}
