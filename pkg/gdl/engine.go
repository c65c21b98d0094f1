package gdl

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-set/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine is a game state engine holding any number of installed
// games. It is a value with no process-global state: all operations
// take the engine, installation takes exclusive access, queries run on
// database snapshots and may proceed concurrently with each other and
// with re-installation.
type Engine struct {
	mu      sync.RWMutex
	clauses *clauseDB
	games   map[string]*gameRecord
	logger  *zap.Logger

	// maxDepth bounds clause-expansion depth; zero means unbounded.
	maxDepth int

	stats engineStats
}

// gameRecord is the per-game metadata kept alongside the clause table.
type gameRecord struct {
	id    string
	sdp   *set.Set[PredID]
	roles []Term // canonical role order, as discovered
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMaxDepth bounds resolution depth as a guard against runaway
// recursive rule-sets. Zero (the default) means unbounded; callers
// normally bound work by dropping answer streams instead.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = depth }
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	db, err := newClauseDB()
	if err != nil {
		// The schema is a package constant; it cannot be invalid.
		panic(fmt.Sprintf("gdl: clause schema: %v", err))
	}
	e := &Engine{
		clauses: db,
		games:   make(map[string]*gameRecord),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateGame installs a rule-set under the given game id: the clauses
// are validated, analysed for state-dependent predicates, rewritten to
// carry the truth state and move set, and published to the clause
// table in one transaction. Re-creating an existing game id replaces
// it atomically without disturbing other games.
func (e *Engine) CreateGame(gameID string, rules []Term) error {
	parsed := make([]*Clause, 0, len(rules))
	for _, t := range rules {
		c, err := normalizeClause(t)
		if err != nil {
			return err
		}
		parsed = append(parsed, c)
	}

	sdp := stateDependent(parsed)
	rewritten := make([]*Clause, len(parsed))
	for i, c := range parsed {
		rewritten[i] = stateifyClause(gameID, c, sdp)
	}
	if err := e.clauses.replaceGame(gameID, rewritten); err != nil {
		return err
	}

	roles, err := e.discoverRoles(gameID, sdp)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.games[gameID] = &gameRecord{id: gameID, sdp: sdp, roles: roles}
	e.mu.Unlock()

	e.logger.Info("installed game",
		zap.String("game", gameID),
		zap.Int("clauses", len(rewritten)),
		zap.Int("stateDependent", sdp.Size()),
		zap.Int("roles", len(roles)))
	return nil
}

// DeleteGame uninstalls a game and drops its clauses. Deleting an
// unknown game is a no-op.
func (e *Engine) DeleteGame(gameID string) error {
	e.mu.Lock()
	delete(e.games, gameID)
	e.mu.Unlock()
	return e.clauses.deleteGame(gameID)
}

// record looks up a game's metadata.
func (e *Engine) record(gameID string) (*gameRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec, ok := e.games[gameID]
	if !ok {
		return nil, &UnknownGameError{GameID: gameID}
	}
	return rec, nil
}

// discoverRoles collects the game's roles in clause order by solving
// role(R) in the no-state context. Duplicates are dropped, first
// occurrence wins.
func (e *Engine) discoverRoles(gameID string, sdp *set.Set[PredID]) ([]Term, error) {
	r := NewVar("R")
	goal := rewriteGoal(NewCompound("role", r), sdp, NewAtom(gameID), EmptyList, EmptyList)
	answers, err := e.startQuery(gameID, goal).Collect(r)
	if err != nil {
		return nil, err
	}
	seen := set.New[string](len(answers))
	var roles []Term
	for _, t := range answers {
		if seen.Insert(t.String()) {
			roles = append(roles, t)
		}
	}
	return roles, nil
}

// Roles returns the game's canonical role order.
func (e *Engine) Roles(gameID string) ([]Term, error) {
	rec, err := e.record(gameID)
	if err != nil {
		return nil, err
	}
	return append([]Term(nil), rec.roles...), nil
}

// GameState resolves a query term against an arbitrary caller-supplied
// truth state and prepared move vector, returning a lazy answer
// stream. A nil state queries the empty state; a nil move vector
// makes every does lookup fail, which is the right reading for
// position queries such as legal and goal.
func (e *Engine) GameState(gameID string, state *TruthState, moves []Term, query Term) (*Answers, error) {
	rec, err := e.record(gameID)
	if err != nil {
		return nil, err
	}
	var truth Term = EmptyList
	if state != nil {
		truth = state.listTerm()
	}
	goal := rewriteGoal(query, rec.sdp, NewAtom(gameID), truth, ListOf(moves...))
	return e.startQuery(gameID, goal), nil
}

// LegalMoves enumerates the legal moves of one role in a state, as
// ground does(Role, Action) terms in clause order.
func (e *Engine) LegalMoves(gameID string, state *TruthState, role Term) ([]Term, error) {
	action := NewVar("A")
	answers, err := e.GameState(gameID, state, nil, NewCompound("legal", role, action))
	if err != nil {
		return nil, err
	}
	return answers.Collect(NewCompound("does", role, action))
}

// LegalJointMoves enumerates every role's legal moves concurrently
// over independent database snapshots. The outer slice follows the
// canonical role order.
func (e *Engine) LegalJointMoves(gameID string, state *TruthState) ([][]Term, error) {
	rec, err := e.record(gameID)
	if err != nil {
		return nil, err
	}
	out := make([][]Term, len(rec.roles))
	g, _ := errgroup.WithContext(context.Background())
	for i, role := range rec.roles {
		g.Go(func() error {
			moves, err := e.LegalMoves(gameID, state, role)
			if err != nil {
				return err
			}
			out[i] = moves
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// IsTerminal reports whether the state is terminal.
func (e *Engine) IsTerminal(gameID string, state *TruthState) (bool, error) {
	return e.provable(gameID, state, nil, NewAtom("terminal"))
}

// GoalValue returns the goal utility of a role in a state. The second
// result is false when no goal value is derivable.
func (e *Engine) GoalValue(gameID string, state *TruthState, role Term) (int64, bool, error) {
	v := NewVar("V")
	answers, err := e.GameState(gameID, state, nil, NewCompound("goal", role, v))
	if err != nil {
		return 0, false, err
	}
	values, err := answers.Collect(v)
	if err != nil {
		return 0, false, err
	}
	if len(values) == 0 {
		return 0, false, nil
	}
	n, ok := values[0].(*Int)
	if !ok {
		return 0, false, fmt.Errorf("gdl: goal value for %s is not an integer: %s", role, values[0])
	}
	return n.value, true, nil
}

// provable checks whether a query has at least one answer.
func (e *Engine) provable(gameID string, state *TruthState, moves []Term, query Term) (bool, error) {
	answers, err := e.GameState(gameID, state, moves, query)
	if err != nil {
		return false, err
	}
	defer answers.Close()
	if _, ok := answers.Next(); ok {
		return true, nil
	}
	return false, answers.Err()
}
