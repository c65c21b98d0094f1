package gdl

import (
	"context"
	"errors"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"
)

// errStopIteration aborts a proof search that only needs its first
// answer (negation as failure).
var errStopIteration = errors.New("gdl: stop iteration")

// Answers is a lazy stream of answer frames for a query. Answers are
// produced in Prolog order: clause installation order, left-to-right
// within conjunctions. Pull with Next; dropping the stream early
// requires Close, which cancels the underlying proof search and
// releases its database snapshot.
type Answers struct {
	ch     chan *Frame
	cancel context.CancelFunc
	err    error
}

// Next returns the next answer frame, or false when the stream is
// exhausted or closed. An empty stream is a normal "no" answer, not an
// error.
func (a *Answers) Next() (*Frame, bool) {
	f, ok := <-a.ch
	return f, ok
}

// Err reports a resolution error — an unbound variable in distinct or
// negation, or a depth overrun. Valid after Next has returned false.
func (a *Answers) Err() error { return a.err }

// Close cancels the proof search and drains the stream. Safe to call
// more than once and after exhaustion.
func (a *Answers) Close() {
	a.cancel()
	for range a.ch {
	}
}

// Collect drains the stream, resolving t against every answer frame,
// and closes it.
func (a *Answers) Collect(t Term) ([]Term, error) {
	defer a.Close()
	var out []Term
	for f, ok := a.Next(); ok; f, ok = a.Next() {
		out = append(out, f.Resolve(t))
	}
	return out, a.Err()
}

// runner is one in-flight query: a database snapshot plus limits. The
// snapshot pins the clause table for the query's whole lifetime, so a
// concurrent re-installation is invisible to it.
type runner struct {
	txn      *memdb.Txn
	game     string
	maxDepth int
}

// solve proves the goal list left-to-right against the frame, calling
// yield for every frame that satisfies all goals. It returns nil when
// the search space is exhausted; a non-nil error aborts the whole
// search. Backtracking is the call stack: each alternative is tried in
// order and the frame extension dropped on return.
func (r *runner) solve(ctx context.Context, goals []Term, f *Frame, depth int, yield func(*Frame) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(goals) == 0 {
		return yield(f)
	}
	g := f.Walk(goals[0])
	rest := goals[1:]

	switch classifyLiteral(g) {
	case litConj:
		c := g.(*Compound)
		return r.solve(ctx, append([]Term{c.args[0], c.args[1]}, rest...), f, depth, yield)

	case litOr:
		c := g.(*Compound)
		if err := r.solve(ctx, append([]Term{c.args[0]}, rest...), f, depth, yield); err != nil {
			return err
		}
		return r.solve(ctx, append([]Term{c.args[1]}, rest...), f, depth, yield)

	case litNot:
		return r.solveNot(ctx, g.(*Compound), rest, f, depth, yield)

	case litDistinct:
		c := g.(*Compound)
		x := f.Resolve(c.args[0])
		y := f.Resolve(c.args[1])
		if !IsGround(x) {
			return &UnboundError{Context: "distinct", Term: x}
		}
		if !IsGround(y) {
			return &UnboundError{Context: "distinct", Term: y}
		}
		if x.Equal(y) {
			return nil
		}
		return r.solve(ctx, rest, f, depth, yield)

	case litMember:
		c := g.(*Compound)
		return r.solveMember(ctx, c.args[0], c.args[1], rest, f, depth, yield)

	case litFindall, litBagof, litSetof:
		return r.solveAggregate(ctx, classifyLiteral(g), g.(*Compound), rest, f, depth, yield)

	case litState:
		return r.solveState(ctx, g.(*Compound), rest, f, depth, yield)

	default:
		pred, ok := predOf(g)
		if !ok {
			return nil
		}
		return r.solveClauses(ctx, g, pred, rest, f, depth, yield)
	}
}

// solveNot implements negation as finite failure: succeed iff a
// bounded proof search for the inner goal yields nothing. The inner
// goal must be ground at the point of call.
func (r *runner) solveNot(ctx context.Context, g *Compound, rest []Term, f *Frame, depth int, yield func(*Frame) error) error {
	inner := f.Resolve(g.args[0])
	if !IsGround(inner) {
		return &UnboundError{Context: "not", Term: inner}
	}
	found := false
	err := r.solve(ctx, []Term{inner}, f, depth+1, func(*Frame) error {
		found = true
		return errStopIteration
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return err
	}
	if found {
		return nil
	}
	return r.solve(ctx, rest, f, depth, yield)
}

// solveMember enumerates the elements of a list, unifying each with x.
// Enumeration stops at the end of the concrete prefix; an unbound tail
// is not extended.
func (r *runner) solveMember(ctx context.Context, x, list Term, rest []Term, f *Frame, depth int, yield func(*Frame) error) error {
	t := f.Walk(list)
	for {
		cell, ok := t.(*Compound)
		if !ok || cell.functor != consFunctor || len(cell.args) != 2 {
			return nil
		}
		if f2, ok := Unify(x, cell.args[0], f); ok {
			if err := r.solve(ctx, rest, f2, depth, yield); err != nil {
				return err
			}
		}
		t = f.Walk(cell.args[1])
	}
}

// solveAggregate collects every solution of the goal argument and
// binds the result list. findall yields [] on no solutions; bagof
// fails; setof additionally sorts and deduplicates.
func (r *runner) solveAggregate(ctx context.Context, kind literalKind, g *Compound, rest []Term, f *Frame, depth int, yield func(*Frame) error) error {
	template, goal, result := g.args[0], g.args[1], g.args[2]

	var collected []Term
	err := r.solve(ctx, []Term{goal}, f, depth+1, func(f2 *Frame) error {
		collected = append(collected, f2.Resolve(template))
		return nil
	})
	if err != nil {
		return err
	}
	if kind != litFindall && len(collected) == 0 {
		return nil
	}
	if kind == litSetof {
		sort.Slice(collected, func(i, j int) bool {
			return collected[i].String() < collected[j].String()
		})
		deduped := collected[:0]
		for i, t := range collected {
			if i == 0 || t.String() != collected[i-1].String() {
				deduped = append(deduped, t)
			}
		}
		collected = deduped
	}
	f2, ok := Unify(result, ListOf(collected...), f)
	if !ok {
		return nil
	}
	return r.solve(ctx, rest, f2, depth, yield)
}

// solveState resolves the in-body wrapper state(Game, Truth, Moves, G).
// true/1 and does/2 short-circuit to membership in the truth state and
// move set; everything else is clause lookup on the state_dynamic
// table.
func (r *runner) solveState(ctx context.Context, g *Compound, rest []Term, f *Frame, depth int, yield func(*Frame) error) error {
	inner := f.Walk(g.args[3])
	pred, ok := predOf(inner)
	if !ok {
		return nil
	}
	switch pred {
	case truePred:
		return r.solveMember(ctx, inner.(*Compound).args[0], g.args[1], rest, f, depth, yield)
	case doesPred:
		return r.solveMember(ctx, inner, g.args[2], rest, f, depth, yield)
	default:
		goal := NewCompound(stateDynFunctor, g.args[0], g.args[1], g.args[2], inner)
		return r.solveClauses(ctx, goal, pred, rest, f, depth, yield)
	}
}

// solveClauses expands a goal against the clauses of its predicate, in
// installation order. Each matching clause contributes one branch:
// rename apart, unify the head, prove the body then the rest.
func (r *runner) solveClauses(ctx context.Context, goal Term, pred PredID, rest []Term, f *Frame, depth int, yield func(*Frame) error) error {
	if r.maxDepth > 0 && depth >= r.maxDepth {
		return fmt.Errorf("gdl: resolution depth limit %d exceeded proving %s", r.maxDepth, pred)
	}
	clauses, err := lookupClauses(r.txn, r.game, pred)
	if err != nil {
		return err
	}
	for _, c := range clauses {
		rc := renameClause(c)
		f2, ok := Unify(rc.Head, goal, f)
		if !ok {
			continue
		}
		goals := append(append([]Term{}, rc.Body...), rest...)
		if err := r.solve(ctx, goals, f2, depth+1, yield); err != nil {
			return err
		}
	}
	return nil
}

// startQuery launches the proof search for a goal on its own
// goroutine, over a fresh database snapshot, and returns the lazy
// answer stream.
func (e *Engine) startQuery(gameID string, goal Term) *Answers {
	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{
		txn:      e.clauses.snapshot(),
		game:     gameID,
		maxDepth: e.maxDepth,
	}
	a := &Answers{ch: make(chan *Frame), cancel: cancel}
	go func() {
		defer close(a.ch)
		defer r.txn.Abort()
		err := r.solve(ctx, []Term{goal}, NewFrame(), 0, func(f *Frame) error {
			select {
			case a.ch <- f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.err = err
		}
	}()
	return a
}
