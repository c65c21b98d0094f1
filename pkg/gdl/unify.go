package gdl

// Unify attempts to make two terms identical by extending the frame
// with variable bindings. Returns the extended frame and true on
// success, or nil and false on failure. Unification never panics;
// mismatched types simply fail.
//
// Rules:
//   - Var == Var: alias one to the other
//   - Var == Term: bind the variable
//   - Atom == Atom, Int == Int: succeed iff equal
//   - Compound == Compound: same functor and arity, arguments unify
//     pairwise left-to-right
//
// The occurs check is not performed: GDL rule-sets never build cyclic
// terms and the check would dominate resolution cost.
func Unify(t1, t2 Term, f *Frame) (*Frame, bool) {
	a := f.Walk(t1)
	b := f.Walk(t2)

	if a.Equal(b) {
		return f, true
	}
	if av, ok := a.(*Var); ok {
		return f.Bind(av, b), true
	}
	if bv, ok := b.(*Var); ok {
		return f.Bind(bv, a), true
	}
	ac, ok1 := a.(*Compound)
	bc, ok2 := b.(*Compound)
	if ok1 && ok2 && ac.functor == bc.functor && len(ac.args) == len(bc.args) {
		for i := range ac.args {
			next, ok := Unify(ac.args[i], bc.args[i], f)
			if !ok {
				return nil, false
			}
			f = next
		}
		return f, true
	}
	return nil, false
}
