package gdl

import "github.com/hashicorp/go-set/v3"

// Predicates whose evaluation always depends on the current position.
var (
	truePred = PredID{Name: "true", Arity: 1}
	doesPred = PredID{Name: "does", Arity: 2}
)

// stateDependent computes the set of predicates whose evaluation
// transitively depends on true/1 or does/2. The set is seeded with
// both and grown to a fixpoint: a predicate joins when any clause
// defining it has a body literal whose functor is already in the set,
// including literals embedded inside compounds (GDL permits nesting
// through not, or, and aggregate goals).
//
// The iteration is a worklist over whole passes rather than a
// recursive descent per predicate, so mutually recursive definitions
// cannot loop it.
func stateDependent(clauses []*Clause) *set.Set[PredID] {
	sdp := set.New[PredID](len(clauses) + 2)
	sdp.Insert(truePred)
	sdp.Insert(doesPred)

	for changed := true; changed; {
		changed = false
		for _, c := range clauses {
			head, ok := predOf(c.Head)
			if !ok || sdp.Contains(head) {
				continue
			}
			for _, lit := range c.Body {
				if mentionsStateDependent(lit, sdp) {
					sdp.Insert(head)
					changed = true
					break
				}
			}
		}
	}
	return sdp
}

// mentionsStateDependent reports whether the term's functor is in the
// set, or any compound argument transitively contains such a literal.
// Variables match any functor and contribute nothing.
func mentionsStateDependent(t Term, sdp *set.Set[PredID]) bool {
	p, ok := predOf(t)
	if !ok {
		return false
	}
	if sdp.Contains(p) {
		return true
	}
	if c, ok := t.(*Compound); ok {
		for _, a := range c.args {
			if mentionsStateDependent(a, sdp) {
				return true
			}
		}
	}
	return false
}
