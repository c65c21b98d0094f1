package gdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClauseDBInstallationOrder(t *testing.T) {
	db, err := newClauseDB()
	require.NoError(t, err)

	clauses := mustClauses(t, []Term{
		comp("p", intT(3)),
		comp("p", intT(1)),
		comp("p", intT(2)),
	})
	require.NoError(t, db.replaceGame("g", clauses))

	txn := db.snapshot()
	defer txn.Abort()
	got, err := lookupClauses(txn, "g", PredID{"p", 1})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p(3)", got[0].Head.String())
	assert.Equal(t, "p(1)", got[1].Head.String())
	assert.Equal(t, "p(2)", got[2].Head.String())
}

func TestClauseDBReplaceGameIsIsolated(t *testing.T) {
	db, err := newClauseDB()
	require.NoError(t, err)

	require.NoError(t, db.replaceGame("a", mustClauses(t, []Term{comp("p", intT(1))})))
	require.NoError(t, db.replaceGame("b", mustClauses(t, []Term{comp("p", intT(2))})))

	// Re-creating game a must not disturb game b.
	require.NoError(t, db.replaceGame("a", mustClauses(t, []Term{comp("p", intT(9))})))

	txn := db.snapshot()
	defer txn.Abort()
	a, err := lookupClauses(txn, "a", PredID{"p", 1})
	require.NoError(t, err)
	b, err := lookupClauses(txn, "b", PredID{"p", 1})
	require.NoError(t, err)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "p(9)", a[0].Head.String())
	assert.Equal(t, "p(2)", b[0].Head.String())
}

func TestClauseDBSnapshotReads(t *testing.T) {
	db, err := newClauseDB()
	require.NoError(t, err)
	require.NoError(t, db.replaceGame("g", mustClauses(t, []Term{comp("p", intT(1))})))

	// A reader opened before a re-installation keeps seeing the old
	// rule-set; a reader opened after sees the new one. Never a mix.
	old := db.snapshot()
	defer old.Abort()
	require.NoError(t, db.replaceGame("g", mustClauses(t, []Term{comp("p", intT(2))})))

	before, err := lookupClauses(old, "g", PredID{"p", 1})
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "p(1)", before[0].Head.String())

	fresh := db.snapshot()
	defer fresh.Abort()
	after, err := lookupClauses(fresh, "g", PredID{"p", 1})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "p(2)", after[0].Head.String())
}

func TestClauseDBDeleteGame(t *testing.T) {
	db, err := newClauseDB()
	require.NoError(t, err)
	require.NoError(t, db.replaceGame("g", mustClauses(t, []Term{comp("p", intT(1))})))
	require.NoError(t, db.deleteGame("g"))

	txn := db.snapshot()
	defer txn.Abort()
	got, err := lookupClauses(txn, "g", PredID{"p", 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHeadPredKey(t *testing.T) {
	plain := mustClauses(t, []Term{comp("role", atomT("white"))})[0]
	assert.Equal(t, "role/1", headPredKey(plain))

	rules := mustClauses(t, []Term{
		ruleT(comp("next", comp("count", intT(2))), comp("true", comp("count", intT(1)))),
	})
	sdp := stateDependent(rules)
	wrapped := stateifyClause("g", rules[0], sdp)
	assert.Equal(t, "next/1", headPredKey(wrapped), "dynamic clauses index by the inner predicate")
}
