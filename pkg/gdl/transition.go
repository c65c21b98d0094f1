package gdl

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// HistoryEntry pairs a joint move vector with the truth state it
// produced. The initial entry uses a nil move vector as the start
// sentinel.
type HistoryEntry struct {
	Moves []Term
	State *TruthState
}

// TruthHistory records the trajectory of a playthrough, newest-first,
// so the most recent state is the head. Entry i (counting from the
// oldest end) is the position reached after the first i move vectors.
type TruthHistory []HistoryEntry

// FinalTruthState returns the newest truth state of a history.
func FinalTruthState(h TruthHistory) (*TruthState, error) {
	if len(h) == 0 {
		return nil, fmt.Errorf("gdl: empty truth history")
	}
	return h[0].State, nil
}

// engineStats counts derivation work, so callers and tests can observe
// cache reuse.
type engineStats struct {
	successorCalls  atomic.Int64
	nextDerivations atomic.Int64
	legalChecks     atomic.Int64
}

// TransitionStats is a snapshot of the engine's derivation counters.
type TransitionStats struct {
	// SuccessorCalls counts full next-state derivations.
	SuccessorCalls int64
	// NextDerivations counts facts derived through next/1.
	NextDerivations int64
	// LegalChecks counts individual move legality proofs.
	LegalChecks int64
}

// Stats returns a snapshot of the derivation counters.
func (e *Engine) Stats() TransitionStats {
	return TransitionStats{
		SuccessorCalls:  e.stats.successorCalls.Load(),
		NextDerivations: e.stats.nextDerivations.Load(),
		LegalChecks:     e.stats.legalChecks.Load(),
	}
}

// buildState collects facts into a deduplicated truth state, rejecting
// non-ground derivations.
func buildState(context string, facts []Term) (*TruthState, error) {
	for _, f := range facts {
		if !IsGround(f) {
			return nil, fmt.Errorf("gdl: %s derived a non-ground fact: %s", context, f)
		}
	}
	return NewTruthState(facts...), nil
}

// initialState derives { f | init(f) } in the no-state context.
func (e *Engine) initialState(gameID string) (*TruthState, error) {
	x := NewVar("X")
	answers, err := e.GameState(gameID, nil, nil, NewCompound("init", x))
	if err != nil {
		return nil, err
	}
	facts, err := answers.Collect(x)
	if err != nil {
		return nil, err
	}
	return buildState("init", facts)
}

// successor verifies every move of the prepared vector is legal in the
// previous state, then derives { x | next(x) } against the state and
// the move vector.
func (e *Engine) successor(gameID string, prev *TruthState, moves []Term) (*TruthState, error) {
	for _, m := range moves {
		c, ok := m.(*Compound)
		if !ok || c.functor != "does" || len(c.args) != 2 {
			return nil, &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("move %s is not a does/2 term", m)}
		}
		e.stats.legalChecks.Add(1)
		legal, err := e.provable(gameID, prev, nil, NewCompound("legal", c.args[0], c.args[1]))
		if err != nil {
			return nil, err
		}
		if !legal {
			return nil, &IllegalMoveError{Role: c.args[0], Action: c.args[1]}
		}
	}

	e.stats.successorCalls.Add(1)
	x := NewVar("X")
	answers, err := e.GameState(gameID, prev, moves, NewCompound("next", x))
	if err != nil {
		return nil, err
	}
	facts, err := answers.Collect(x)
	if err != nil {
		return nil, err
	}
	e.stats.nextDerivations.Add(int64(len(facts)))
	return buildState("next", facts)
}

// LegalPreparedMoves verifies a prepared move vector against a state:
// the vector must follow the canonical role order and every move must
// be provably legal. A nil error means the vector may be applied.
func (e *Engine) LegalPreparedMoves(gameID string, state *TruthState, moves []Term) error {
	rec, err := e.record(gameID)
	if err != nil {
		return err
	}
	if len(moves) != len(rec.roles) {
		return &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("got %d moves for %d roles", len(moves), len(rec.roles))}
	}
	for i, m := range moves {
		c, ok := m.(*Compound)
		if !ok || c.functor != "does" || len(c.args) != 2 {
			return &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("move %s is not a does/2 term", m)}
		}
		if !c.args[0].Equal(rec.roles[i]) {
			return &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("move %d is for %s, expected %s", i, c.args[0], rec.roles[i])}
		}
		e.stats.legalChecks.Add(1)
		legal, err := e.provable(gameID, state, nil, NewCompound("legal", c.args[0], c.args[1]))
		if err != nil {
			return err
		}
		if !legal {
			return &IllegalMoveError{Role: c.args[0], Action: c.args[1]}
		}
	}
	return nil
}

// PrepareMoves permutes an unordered list of role moves into the
// canonical role order. Fails if the list's role multiset disagrees
// with the game's role set.
func (e *Engine) PrepareMoves(gameID string, moves []Term) ([]Term, error) {
	rec, err := e.record(gameID)
	if err != nil {
		return nil, err
	}
	if len(moves) != len(rec.roles) {
		return nil, &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("got %d moves for %d roles", len(moves), len(rec.roles))}
	}
	used := make([]bool, len(moves))
	prepared := make([]Term, 0, len(rec.roles))
	for _, role := range rec.roles {
		found := -1
		for j, m := range moves {
			if used[j] {
				continue
			}
			c, ok := m.(*Compound)
			if !ok || c.functor != "does" || len(c.args) != 2 {
				return nil, &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("move %s is not a does/2 term", m)}
			}
			if c.args[0].Equal(role) {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, &RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("no move for role %s", role)}
		}
		used[found] = true
		prepared = append(prepared, moves[found])
	}
	return prepared, nil
}

// TruthHistory derives the truth history of a move history, newest
// first. A cached history from an earlier walk of the same game, of any
// length, may be supplied; cache entries are reused positionally
// from the oldest end while the moves agree pairwise, and the first
// mismatch invalidates everything after it. A differing move is never
// trusted: the engine recomputes from there.
func (e *Engine) TruthHistory(gameID string, moveHistory [][]Term, cached TruthHistory) (TruthHistory, error) {
	if _, err := e.record(gameID); err != nil {
		return nil, err
	}

	// Walk the cache oldest-first alongside the move history.
	oldCached := make([]HistoryEntry, len(cached))
	for i, entry := range cached {
		oldCached[len(cached)-1-i] = entry
	}

	entries := make([]HistoryEntry, 0, len(moveHistory)+1)
	cacheLive := len(oldCached) > 0 && oldCached[0].Moves == nil && oldCached[0].State != nil

	var prev *TruthState
	if cacheLive {
		prev = oldCached[0].State
	} else {
		s, err := e.initialState(gameID)
		if err != nil {
			return nil, err
		}
		prev = s
	}
	entries = append(entries, HistoryEntry{State: prev})

	reused := 0
	for i, mv := range moveHistory {
		pos := i + 1
		if cacheLive && pos < len(oldCached) && movesEqual(oldCached[pos].Moves, mv) {
			prev = oldCached[pos].State
			entries = append(entries, HistoryEntry{Moves: mv, State: prev})
			reused++
			continue
		}
		cacheLive = false
		next, err := e.successor(gameID, prev, mv)
		if err != nil {
			return nil, err
		}
		prev = next
		entries = append(entries, HistoryEntry{Moves: mv, State: prev})
	}
	e.logger.Debug("derived truth history",
		zap.String("game", gameID),
		zap.Int("moves", len(moveHistory)),
		zap.Int("cacheReused", reused))

	// Newest-first.
	out := make(TruthHistory, len(entries))
	for i, entry := range entries {
		out[len(entries)-1-i] = entry
	}
	return out, nil
}

// GameTruthState returns the truth state reached after the given move
// history; the initial state when the history is empty.
func (e *Engine) GameTruthState(gameID string, moveHistory [][]Term) (*TruthState, error) {
	h, err := e.TruthHistory(gameID, moveHistory, nil)
	if err != nil {
		return nil, err
	}
	return FinalTruthState(h)
}

// MoveHistoryGameState resolves a query against the state reached by a
// move history.
func (e *Engine) MoveHistoryGameState(gameID string, moveHistory [][]Term, query Term) (*Answers, error) {
	state, err := e.GameTruthState(gameID, moveHistory)
	if err != nil {
		return nil, err
	}
	return e.GameState(gameID, state, nil, query)
}

// movesEqual reports pairwise structural equality of two joint moves.
func movesEqual(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil || !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
