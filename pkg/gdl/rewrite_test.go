package gdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateifyStaticClauseUnchanged(t *testing.T) {
	rules := mustClauses(t, []Term{
		comp("role", atomT("white")),
	})
	sdp := stateDependent(rules)
	out := stateifyClause("g", rules[0], sdp)
	assert.Same(t, rules[0], out)
}

func TestStateifyHeadGainsLeadingArguments(t *testing.T) {
	rules := mustClauses(t, []Term{
		ruleT(atomT("terminal"), comp("true", comp("count", intT(2)))),
	})
	sdp := stateDependent(rules)
	out := stateifyClause("g", rules[0], sdp)

	head, ok := out.Head.(*Compound)
	require.True(t, ok)
	assert.Equal(t, stateDynFunctor, head.Functor())
	require.Equal(t, 4, head.Arity())
	assert.True(t, head.Arg(0).Equal(NewAtom("g")))
	assert.True(t, head.Arg(1).IsVar(), "truth state variable")
	assert.True(t, head.Arg(2).IsVar(), "move set variable")
	assert.True(t, head.Arg(3).Equal(atomT("terminal")))
}

func TestStateifyThreadsOneVariablePair(t *testing.T) {
	// Head and every rewritten body literal share the same truth and
	// move variables within one clause.
	x := NewVar("X")
	rules := mustClauses(t, []Term{
		ruleT(comp("next", comp("count", intT(2))),
			comp("true", comp("count", x)),
			comp("does", atomT("counter"), atomT("go"))),
	})
	sdp := stateDependent(rules)
	out := stateifyClause("g", rules[0], sdp)

	head := out.Head.(*Compound)
	truth := head.Arg(1).(*Var)
	moves := head.Arg(2).(*Var)

	require.Len(t, out.Body, 2)
	trueLit := out.Body[0].(*Compound)
	assert.Equal(t, stateFunctor, trueLit.Functor())
	assert.Equal(t, truth.ID(), trueLit.Arg(1).(*Var).ID())
	assert.Equal(t, moves.ID(), trueLit.Arg(2).(*Var).ID())

	doesLit := out.Body[1].(*Compound)
	assert.Equal(t, "member", doesLit.Functor())
	assert.Equal(t, "does(counter,go)", doesLit.Arg(0).String())
	assert.Equal(t, moves.ID(), doesLit.Arg(1).(*Var).ID())
}

func TestStateifyDistinctClausesGetFreshVariables(t *testing.T) {
	rules := mustClauses(t, []Term{
		ruleT(atomT("terminal"), comp("true", atomT("over"))),
		ruleT(atomT("terminal"), comp("true", atomT("done"))),
	})
	sdp := stateDependent(rules)
	first := stateifyClause("g", rules[0], sdp).Head.(*Compound)
	second := stateifyClause("g", rules[1], sdp).Head.(*Compound)
	assert.NotEqual(t, first.Arg(1).(*Var).ID(), second.Arg(1).(*Var).ID())
}

func TestRewriteGoalThroughControlShapes(t *testing.T) {
	rules := mustClauses(t, []Term{
		ruleT(atomT("blocked"), comp("not", comp("true", atomT("free")))),
	})
	sdp := stateDependent(rules)

	game := NewAtom("g")
	truth := ListOf(atomT("free"))
	moves := EmptyList

	got := rewriteGoal(comp("not", comp("true", atomT("free"))), sdp, game, truth, moves)
	not, ok := got.(*Compound)
	require.True(t, ok)
	require.Equal(t, "not", not.Functor())
	inner := not.Arg(0).(*Compound)
	assert.Equal(t, stateFunctor, inner.Functor())
	assert.True(t, inner.Arg(3).Equal(comp("true", atomT("free"))))
}

func TestRewriteGoalAggregateGoalArgument(t *testing.T) {
	x := NewVar("X")
	l := NewVar("L")
	rules := mustClauses(t, []Term{
		ruleT(comp("p", x), comp("true", x)),
	})
	sdp := stateDependent(rules)

	got := rewriteGoal(comp("findall", x, comp("p", x), l), sdp, NewAtom("g"), EmptyList, EmptyList)
	fa := got.(*Compound)
	require.Equal(t, "findall", fa.Functor())
	assert.True(t, fa.Arg(0).Equal(x), "template untouched")
	assert.Equal(t, stateFunctor, fa.Arg(1).(*Compound).Functor(), "goal argument rewritten")
	assert.True(t, fa.Arg(2).Equal(l), "result untouched")
}

func TestRewriteGoalLeavesStaticAlone(t *testing.T) {
	rules := mustClauses(t, []Term{comp("role", atomT("white"))})
	sdp := stateDependent(rules)
	q := comp("role", NewVar("R"))
	assert.Same(t, q, rewriteGoal(q, sdp, NewAtom("g"), EmptyList, EmptyList))
}
