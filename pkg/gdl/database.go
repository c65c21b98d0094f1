package gdl

import (
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"
)

// The clause table lives in a go-memdb instance. memdb gives the two
// properties the database contract needs without hand-rolled locking:
// installation runs in a single write transaction (readers see the old
// or the new rule-set, never a mix), and every query holds a read
// transaction, which is a consistent snapshot for the query's whole
// lifetime. Clauses are indexed by (game id, predicate); insertion
// order is preserved because non-unique index entries sort by the
// monotonically increasing primary key.

const clauseTable = "clause"

// clauseRow is one rewritten clause in the table.
type clauseRow struct {
	Seq    uint64 // insertion order, primary key
	Game   string
	Pred   string // functor/arity of the (unwrapped) head predicate
	Clause *Clause
}

func clauseSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			clauseTable: {
				Name: clauseTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.UintFieldIndex{Field: "Seq"},
					},
					"game": {
						Name:    "game",
						Indexer: &memdb.StringFieldIndex{Field: "Game"},
					},
					"pred": {
						Name: "pred",
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "Game"},
								&memdb.StringFieldIndex{Field: "Pred"},
							},
						},
					},
				},
			},
		},
	}
}

// clauseDB wraps the memdb instance with a sequence counter for
// primary keys.
type clauseDB struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

func newClauseDB() (*clauseDB, error) {
	db, err := memdb.NewMemDB(clauseSchema())
	if err != nil {
		return nil, err
	}
	return &clauseDB{db: db}, nil
}

// headPredKey names the predicate a rewritten clause defines: the
// inner predicate for state_dynamic heads, the head itself otherwise.
func headPredKey(c *Clause) string {
	if h, ok := c.Head.(*Compound); ok && h.functor == stateDynFunctor && len(h.args) == 4 {
		p, _ := predOf(h.args[3])
		return p.String()
	}
	p, _ := predOf(c.Head)
	return p.String()
}

// replaceGame atomically swaps the clauses of one game: delete every
// row tagged with the game id, insert the new rows, commit. Other
// games sharing the table are untouched.
func (d *clauseDB) replaceGame(gameID string, clauses []*Clause) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(clauseTable, "game", gameID); err != nil {
		return err
	}
	for _, c := range clauses {
		row := &clauseRow{
			Seq:    d.seq.Add(1),
			Game:   gameID,
			Pred:   headPredKey(c),
			Clause: c,
		}
		if err := txn.Insert(clauseTable, row); err != nil {
			return err
		}
	}
	txn.Commit()
	return nil
}

// deleteGame removes every clause of a game.
func (d *clauseDB) deleteGame(gameID string) error {
	txn := d.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(clauseTable, "game", gameID); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// snapshot opens a read transaction. The caller must Abort it when the
// query is done; until then it sees a frozen view of the table.
func (d *clauseDB) snapshot() *memdb.Txn {
	return d.db.Txn(false)
}

// lookupClauses returns the clauses of (game, pred) in installation
// order, read from the given snapshot.
func lookupClauses(txn *memdb.Txn, gameID string, pred PredID) ([]*Clause, error) {
	it, err := txn.Get(clauseTable, "pred", gameID, pred.String())
	if err != nil {
		return nil, err
	}
	var out []*Clause
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*clauseRow).Clause)
	}
	return out, nil
}
