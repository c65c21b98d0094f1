package gdl

// literalKind tags a goal for resolver dispatch, so built-in shapes
// are branched on once per call instead of string-matching functors in
// every case arm.
type literalKind int

const (
	litClause literalKind = iota // ordinary predicate, clause lookup
	litConj                      // ","/2
	litOr                        // or/2 or ";"/2
	litNot                       // not/1, negation as finite failure
	litDistinct                  // distinct/2, ground inequality
	litMember                    // member/2, list membership
	litFindall                   // findall/3, [] on no solutions
	litBagof                     // bagof/3, fails on no solutions
	litSetof                     // setof/3, sorted + deduplicated
	litState                     // state/4, the stateified body wrapper
)

// classifyLiteral maps a walked goal to its dispatch kind. Only
// compounds with the exact builtin arity dispatch natively; anything
// else falls through to clause lookup, so a rule-set may still define
// or/2 as two ordinary clauses when it is referenced with a different
// shape.
func classifyLiteral(t Term) literalKind {
	c, ok := t.(*Compound)
	if !ok {
		return litClause
	}
	switch {
	case c.functor == "," && len(c.args) == 2:
		return litConj
	case (c.functor == "or" || c.functor == ";") && len(c.args) == 2:
		return litOr
	case c.functor == "not" && len(c.args) == 1:
		return litNot
	case c.functor == "distinct" && len(c.args) == 2:
		return litDistinct
	case c.functor == "member" && len(c.args) == 2:
		return litMember
	case c.functor == "findall" && len(c.args) == 3:
		return litFindall
	case c.functor == "bagof" && len(c.args) == 3:
		return litBagof
	case c.functor == "setof" && len(c.args) == 3:
		return litSetof
	case c.functor == stateFunctor && len(c.args) == 4:
		return litState
	default:
		return litClause
	}
}
