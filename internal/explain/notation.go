package explain

import (
	"fmt"
	"strings"

	"github.com/sunholo/variance/internal/polarity"
)

// cutColon splits "NAME:REST" into its two halves.
func cutColon(s string) (name, rest string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func parseAnnot(s string) (polarity.Annotation, error) {
	switch strings.TrimSpace(s) {
	case "+":
		return polarity.AnnotationCovariant, nil
	case "-":
		return polarity.AnnotationContravariant, nil
	case "inv", "invariant":
		return polarity.AnnotationInvariant, nil
	default:
		return 0, fmt.Errorf("unknown variance annotation %q (want +, -, or inv)", s)
	}
}

// parseNameAnnot parses one "NAME:+|-|inv" argument to `:env`.
func parseNameAnnot(s string) (name string, annot polarity.Annotation, err error) {
	name, rest, ok := cutColon(s)
	if !ok {
		return "", 0, fmt.Errorf("expected NAME:+|-|inv, got %q", s)
	}
	annot, err = parseAnnot(rest)
	return name, annot, err
}

// annotationOf recovers the source-level Annotation a declared Variance was
// built from — used when promoting the shell's `:env` table into a
// tenv.ClassInfo for the `:class` command.
func annotationOf(v polarity.Variance) polarity.Annotation {
	switch v.Tag() {
	case polarity.Cov:
		return polarity.AnnotationCovariant
	case polarity.Contra:
		return polarity.AnnotationContravariant
	default:
		return polarity.AnnotationInvariant
	}
}
