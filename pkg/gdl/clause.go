package gdl

// Clause is a rule Head :- Body, or a fact when the body is empty.
// The body is a flat conjunction of literals; disjunction and negation
// appear inside literals as or/2, ";"/2, and not/1 compounds.
type Clause struct {
	Head Term
	Body []Term
}

// ruleFunctor is the clause constructor in parsed rule terms.
const ruleFunctor = ":-"

// normalizeClause converts a parsed term into a clause. Rules appear
// as Head :- Body compounds with ","-nested bodies; anything else is a
// fact.
func normalizeClause(t Term) (*Clause, error) {
	if c, ok := t.(*Compound); ok && c.functor == ruleFunctor {
		if len(c.args) != 2 {
			return nil, &MalformedClauseError{Clause: t, Reason: "rule must have a head and a body"}
		}
		head := c.args[0]
		if err := checkCallable(t, head); err != nil {
			return nil, err
		}
		body := flattenConj(c.args[1])
		for _, lit := range body {
			if err := checkCallable(t, lit); err != nil {
				return nil, err
			}
		}
		return &Clause{Head: head, Body: body}, nil
	}
	if err := checkCallable(t, t); err != nil {
		return nil, err
	}
	return &Clause{Head: t}, nil
}

// flattenConj splits a ","-nested body term into its literals.
func flattenConj(t Term) []Term {
	if c, ok := t.(*Compound); ok && c.functor == "," && len(c.args) == 2 {
		return append(flattenConj(c.args[0]), flattenConj(c.args[1])...)
	}
	return []Term{t}
}

// checkCallable rejects heads and body literals that are not atoms or
// compounds.
func checkCallable(clause, lit Term) error {
	switch lit.(type) {
	case *Atom, *Compound:
		return nil
	case *Var:
		return &MalformedClauseError{Clause: clause, Reason: "variable is not a callable literal"}
	default:
		return &MalformedClauseError{Clause: clause, Reason: "integer is not a callable literal"}
	}
}

// renameClause returns a variant of the clause with all variables
// replaced by fresh ones, sharing occurrences across head and body.
func renameClause(c *Clause) *Clause {
	m := make(map[int64]*Var)
	head := renameTerm(c.Head, m)
	if len(c.Body) == 0 {
		return &Clause{Head: head}
	}
	body := make([]Term, len(c.Body))
	for i, lit := range c.Body {
		body[i] = renameTerm(lit, m)
	}
	return &Clause{Head: head, Body: body}
}
