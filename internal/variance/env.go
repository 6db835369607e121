package variance

import "github.com/sunholo/variance/internal/polarity"

// Env is the declared-variance environment (§4.2): the scope's in-flight
// map from generic parameter name to the Variance established at scope
// entry for it. A name absent from Env is treated as Bivariant — this is
// what makes a method's own type parameter exempt from the declared-use
// discipline the moment it is removed from scope (§4.4 step 1).
type Env map[string]polarity.Variance

// Get returns the declared Variance for name, or Bivariant if name is not
// in scope.
func (e Env) Get(name string) polarity.Variance {
	if v, ok := e[name]; ok {
		return v
	}
	return polarity.Biv
}

// Without returns a new Env with the given names removed, leaving the
// receiver untouched. Used when entering a function type: its own
// parameters shadow any outer class/typedef parameter of the same name for
// the scope of that function (§4.4 step 1).
func (e Env) Without(names []string) Env {
	if len(names) == 0 {
		return e
	}
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := make(Env, len(e))
	for k, v := range e {
		if !skip[k] {
			out[k] = v
		}
	}
	return out
}
