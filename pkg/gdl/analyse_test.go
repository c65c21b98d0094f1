package gdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDependentSeeds(t *testing.T) {
	sdp := stateDependent(nil)
	assert.True(t, sdp.Contains(truePred))
	assert.True(t, sdp.Contains(doesPred))
	assert.Equal(t, 2, sdp.Size())
}

func TestStateDependentPropagation(t *testing.T) {
	x := NewVar("X")
	u := NewVar("U")
	rules := mustClauses(t, []Term{
		comp("role", atomT("counter")),
		comp("init", comp("count", intT(1))),
		ruleT(comp("legal", atomT("counter"), atomT("go")),
			comp("true", comp("count", intT(1)))),
		ruleT(comp("next", comp("count", intT(2))),
			comp("does", atomT("counter"), atomT("go"))),
		ruleT(atomT("terminal"), comp("true", comp("count", intT(2)))),
		ruleT(comp("goal", atomT("counter"), u), comp("value", u)),
		ruleT(comp("value", x), comp("true", comp("count", x))),
		ruleT(comp("limit", x), comp("bound", x)),
		comp("bound", intT(2)),
	})
	sdp := stateDependent(rules)

	assert.True(t, sdp.Contains(PredID{"legal", 2}), "references true/1")
	assert.True(t, sdp.Contains(PredID{"next", 1}), "references does/2")
	assert.True(t, sdp.Contains(PredID{"terminal", 0}))
	assert.True(t, sdp.Contains(PredID{"value", 1}))
	assert.True(t, sdp.Contains(PredID{"goal", 2}), "transitively through value/1")

	assert.False(t, sdp.Contains(PredID{"role", 1}))
	assert.False(t, sdp.Contains(PredID{"init", 1}))
	assert.False(t, sdp.Contains(PredID{"limit", 1}))
	assert.False(t, sdp.Contains(PredID{"bound", 1}))
}

func TestStateDependentThroughEmbedding(t *testing.T) {
	// State-dependent literals nested inside not and or still count.
	rules := mustClauses(t, []Term{
		ruleT(atomT("stuck"), comp("not", comp("true", atomT("free")))),
		ruleT(atomT("busy"), comp("or", atomT("idle"), comp("true", atomT("working")))),
		atomT("idle"),
	})
	sdp := stateDependent(rules)
	assert.True(t, sdp.Contains(PredID{"stuck", 0}))
	assert.True(t, sdp.Contains(PredID{"busy", 0}))
	assert.False(t, sdp.Contains(PredID{"idle", 0}))
}

func TestStateDependentMutualRecursion(t *testing.T) {
	// ping and pong define each other; without a state reference the
	// fixpoint terminates and neither joins the set.
	x := NewVar("X")
	y := NewVar("Y")
	static := mustClauses(t, []Term{
		ruleT(comp("ping", x), comp("pong", x)),
		ruleT(comp("pong", y), comp("ping", y)),
	})
	sdp := stateDependent(static)
	assert.False(t, sdp.Contains(PredID{"ping", 1}))
	assert.False(t, sdp.Contains(PredID{"pong", 1}))

	// One state reference anywhere in the cycle pulls in both.
	x2 := NewVar("X")
	y2 := NewVar("Y")
	dynamic := mustClauses(t, []Term{
		ruleT(comp("ping", x2), comp("pong", x2)),
		ruleT(comp("pong", y2), comp("ping", y2)),
		ruleT(comp("pong", intT(0)), comp("true", atomT("reset"))),
	})
	sdp = stateDependent(dynamic)
	assert.True(t, sdp.Contains(PredID{"ping", 1}))
	assert.True(t, sdp.Contains(PredID{"pong", 1}))
}

func TestStateDependentVariableLiterals(t *testing.T) {
	// A variable inside a compound matches any functor but contributes
	// no dependency of its own.
	x := NewVar("X")
	rules := mustClauses(t, []Term{
		ruleT(comp("wrap", x), comp("holds", x)),
		comp("holds", atomT("a")),
	})
	sdp := stateDependent(rules)
	assert.False(t, sdp.Contains(PredID{"wrap", 1}))
	assert.False(t, sdp.Contains(PredID{"holds", 1}))
}
