package gdl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// groundFact adapts a ground term to the hash-set element interface,
// keyed by canonical text.
type groundFact struct {
	term Term
}

// Hash returns the fact's canonical text.
func (g groundFact) Hash() string { return g.term.String() }

// TruthState is an unordered, deduplicated set of ground facts — the
// terms X for which true(X) holds in a position. Truth states are
// immutable once returned by the engine and may be shared freely.
type TruthState struct {
	facts *set.HashSet[groundFact, string]
}

// NewTruthState builds a truth state from ground facts. Duplicates are
// collapsed; insertion order is irrelevant. Panics if a fact is not
// ground, which cannot happen for engine-derived states.
func NewTruthState(facts ...Term) *TruthState {
	s := &TruthState{facts: set.NewHashSet[groundFact, string](len(facts))}
	for _, f := range facts {
		s.add(f)
	}
	return s
}

func (s *TruthState) add(f Term) {
	if !IsGround(f) {
		panic(fmt.Sprintf("gdl: truth state fact is not ground: %s", f))
	}
	s.facts.Insert(groundFact{term: f})
}

// Contains reports whether the fact is true in this state.
func (s *TruthState) Contains(f Term) bool {
	return s.facts.Contains(groundFact{term: f})
}

// Size returns the number of facts.
func (s *TruthState) Size() int { return s.facts.Size() }

// Facts returns the facts sorted by canonical text, so the slice is
// deterministic across runs.
func (s *TruthState) Facts() []Term {
	items := s.facts.Slice()
	sort.Slice(items, func(i, j int) bool {
		return items[i].term.String() < items[j].term.String()
	})
	out := make([]Term, len(items))
	for i, it := range items {
		out[i] = it.term
	}
	return out
}

// Equal reports set equality: same facts, regardless of order.
func (s *TruthState) Equal(other *TruthState) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.facts.Size() != other.facts.Size() {
		return false
	}
	for _, f := range s.facts.Slice() {
		if !other.facts.Contains(f) {
			return false
		}
	}
	return true
}

// String returns the sorted fact list in braces.
func (s *TruthState) String() string {
	facts := s.Facts()
	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// listTerm converts the state to a sorted list term, the shape the
// resolver enumerates when solving true(X).
func (s *TruthState) listTerm() Term {
	return ListOf(s.Facts()...)
}
