package variance

import "github.com/sunholo/variance/internal/polarity"

// occurrence records whether a function-local tparam was seen at a
// covariant and/or contravariant position anywhere in its own function
// type's params, return, or constraints (§4.7). Bivariant occurrences
// don't count towards either side.
type occurrence struct {
	cov    bool
	contra bool
}

// frame is one function type's local tparams, tracked separately from Env
// because a method's own generics are always Bivariant-declared (so
// checkUse never errors on them) yet still need their free-use polarity
// recorded for the bound-propagation pass.
type frame struct {
	names map[string]*occurrence
}

func newFrame(names []string) *frame {
	f := &frame{names: make(map[string]*occurrence, len(names))}
	for _, n := range names {
		f.names[n] = &occurrence{}
	}
	return f
}

// record finds the innermost frame declaring name (lexical shadowing: an
// inner function's own tparam of the same name wins) and marks the
// observed tag against it. A name matching no frame is an outer
// class/typedef generic and is left untouched here.
func record(frames []*frame, name string, tag polarity.Tag) {
	for i := len(frames) - 1; i >= 0; i-- {
		o, ok := frames[i].names[name]
		if !ok {
			continue
		}
		switch tag {
		case polarity.Cov:
			o.cov = true
		case polarity.Contra:
			o.contra = true
		case polarity.Inv:
			o.cov, o.contra = true, true
		}
		return
	}
}

// push returns a new frame slice with f appended, never mutating frames.
func push(frames []*frame, f *frame) []*frame {
	out := make([]*frame, len(frames)+1)
	copy(out, frames)
	out[len(frames)] = f
	return out
}
