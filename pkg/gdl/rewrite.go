package gdl

import "github.com/hashicorp/go-set/v3"

// Wrapper functors injected by the stateifier. The head form is the
// clause's definition; the body form is a query, which the resolver
// short-circuits for true/1 and does/2 before consulting clauses.
const (
	stateFunctor    = "state"
	stateDynFunctor = "state_dynamic"
)

// stateifyClause rewrites a clause for the given game. A clause whose
// head is state-dependent gains three leading head arguments — the
// game id, a truth state variable, and a move set variable — threaded
// through every rewritten body literal. Clauses with static heads are
// returned unchanged: by construction of the dependency set their
// bodies cannot reference a state-dependent predicate.
func stateifyClause(gameID string, c *Clause, sdp *set.Set[PredID]) *Clause {
	head, ok := predOf(c.Head)
	if !ok || !sdp.Contains(head) {
		return c
	}
	game := NewAtom(gameID)
	truth := NewVar("Truth")
	moves := NewVar("Moves")

	out := &Clause{
		Head: NewCompound(stateDynFunctor, game, truth, moves, c.Head),
	}
	if len(c.Body) > 0 {
		out.Body = make([]Term, len(c.Body))
		for i, lit := range c.Body {
			out.Body[i] = rewriteGoal(lit, sdp, game, truth, moves)
		}
	}
	return out
}

// rewriteGoal rewrites one body goal, recursing through the control
// shapes the resolver understands:
//
//   - does(R, A) becomes member(does(R, A), Moves), turning "R does A"
//     into a lookup in the current move vector
//   - a state-dependent literal p(Args) becomes
//     state(Game, Truth, Moves, p(Args))
//   - conjunction, disjunction, negation, and the goal argument of the
//     aggregates are rewritten inside
//   - everything else is left unchanged
//
// Queries are rewritten with the same function, passing the concrete
// game atom, truth state list, and move list in place of variables.
func rewriteGoal(t Term, sdp *set.Set[PredID], game, truth, moves Term) Term {
	c, isCompound := t.(*Compound)
	if isCompound {
		switch {
		case (c.functor == "," || c.functor == ";" || c.functor == "or") && len(c.args) == 2:
			return NewCompound(c.functor,
				rewriteGoal(c.args[0], sdp, game, truth, moves),
				rewriteGoal(c.args[1], sdp, game, truth, moves))
		case c.functor == "not" && len(c.args) == 1:
			return NewCompound("not", rewriteGoal(c.args[0], sdp, game, truth, moves))
		case (c.functor == "findall" || c.functor == "bagof" || c.functor == "setof") && len(c.args) == 3:
			return NewCompound(c.functor,
				c.args[0],
				rewriteGoal(c.args[1], sdp, game, truth, moves),
				c.args[2])
		case c.functor == "does" && len(c.args) == 2:
			return NewCompound("member", t, moves)
		}
	}
	p, ok := predOf(t)
	if ok && sdp.Contains(p) {
		return NewCompound(stateFunctor, game, truth, moves, t)
	}
	return t
}
