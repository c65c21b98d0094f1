// Package games holds sample GDL rule-sets built directly as term
// trees, for tests and the demo command. The engine consumes parsed
// rules, so these are hand-assembled exactly the way a KIF front end
// would deliver them.
package games

import "github.com/gitrdm/gdlstate/pkg/gdl"

func a(name string) gdl.Term { return gdl.NewAtom(name) }

func n(v int64) gdl.Term { return gdl.NewInt(v) }

func c(functor string, args ...gdl.Term) gdl.Term {
	return gdl.NewCompound(functor, args...)
}

// rule builds Head :- Body with a ","-nested body, or a bare fact when
// the body is empty.
func rule(head gdl.Term, body ...gdl.Term) gdl.Term {
	if len(body) == 0 {
		return head
	}
	conj := body[len(body)-1]
	for i := len(body) - 2; i >= 0; i-- {
		conj = c(",", body[i], conj)
	}
	return c(":-", head, conj)
}

// Counter is a one-role game that counts from 1 to 2 and stops: the
// smallest game with a legal move, a transition, a terminal test, and
// two goal values.
func Counter() []gdl.Term {
	x := gdl.NewVar("X")
	return []gdl.Term{
		c("role", a("counter")),
		c("init", c("count", n(1))),
		rule(c("legal", a("counter"), c("countto", n(2))),
			c("true", c("count", n(1)))),
		rule(c("next", c("count", n(2))),
			c("true", c("count", n(1))),
			c("does", a("counter"), c("countto", n(2)))),
		rule(a("terminal"),
			c("true", c("count", n(2)))),
		rule(c("goal", a("counter"), n(100)),
			c("true", c("count", n(2)))),
		rule(c("goal", a("counter"), n(0)),
			c("true", c("count", x)),
			c("distinct", x, n(2))),
	}
}

// TicTacToe is standard two-player tic-tac-toe with roles white and
// black, alternating control, noop for the waiting player, and
// 100/50/0 goal values.
func TicTacToe() []gdl.Term {
	rules := []gdl.Term{
		c("role", a("white")),
		c("role", a("black")),
		c("init", c("control", a("white"))),
	}
	for m := int64(1); m <= 3; m++ {
		for nn := int64(1); nn <= 3; nn++ {
			rules = append(rules, c("init", c("cell", n(m), n(nn), a("b"))))
		}
	}

	{
		w, x, y := gdl.NewVar("W"), gdl.NewVar("X"), gdl.NewVar("Y")
		rules = append(rules, rule(c("legal", w, c("mark", x, y)),
			c("true", c("cell", x, y, a("b"))),
			c("true", c("control", w))))
	}
	rules = append(rules,
		rule(c("legal", a("white"), a("noop")), c("true", c("control", a("black")))),
		rule(c("legal", a("black"), a("noop")), c("true", c("control", a("white")))))

	{
		m, nn := gdl.NewVar("M"), gdl.NewVar("N")
		rules = append(rules, rule(c("next", c("cell", m, nn, a("x"))),
			c("does", a("white"), c("mark", m, nn)),
			c("true", c("cell", m, nn, a("b")))))
	}
	{
		m, nn := gdl.NewVar("M"), gdl.NewVar("N")
		rules = append(rules, rule(c("next", c("cell", m, nn, a("o"))),
			c("does", a("black"), c("mark", m, nn)),
			c("true", c("cell", m, nn, a("b")))))
	}
	{
		m, nn, w := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("W")
		rules = append(rules, rule(c("next", c("cell", m, nn, w)),
			c("true", c("cell", m, nn, w)),
			c("distinct", w, a("b"))))
	}
	{
		p, m, nn, j, k := gdl.NewVar("P"), gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("J"), gdl.NewVar("K")
		rules = append(rules, rule(c("next", c("cell", m, nn, a("b"))),
			c("does", p, c("mark", j, k)),
			c("true", c("cell", m, nn, a("b"))),
			c("or", c("distinct", m, j), c("distinct", nn, k))))
	}
	rules = append(rules,
		rule(c("next", c("control", a("white"))), c("true", c("control", a("black")))),
		rule(c("next", c("control", a("black"))), c("true", c("control", a("white")))))

	{
		m, p := gdl.NewVar("M"), gdl.NewVar("P")
		rules = append(rules, rule(c("row", m, p),
			c("true", c("cell", m, n(1), p)),
			c("true", c("cell", m, n(2), p)),
			c("true", c("cell", m, n(3), p))))
	}
	{
		nn, p := gdl.NewVar("N"), gdl.NewVar("P")
		rules = append(rules, rule(c("column", nn, p),
			c("true", c("cell", n(1), nn, p)),
			c("true", c("cell", n(2), nn, p)),
			c("true", c("cell", n(3), nn, p))))
	}
	{
		p := gdl.NewVar("P")
		rules = append(rules, rule(c("diagonal", p),
			c("true", c("cell", n(1), n(1), p)),
			c("true", c("cell", n(2), n(2), p)),
			c("true", c("cell", n(3), n(3), p))))
	}
	{
		p := gdl.NewVar("P")
		rules = append(rules, rule(c("diagonal", p),
			c("true", c("cell", n(1), n(3), p)),
			c("true", c("cell", n(2), n(2), p)),
			c("true", c("cell", n(3), n(1), p))))
	}
	{
		p, m := gdl.NewVar("P"), gdl.NewVar("M")
		rules = append(rules, rule(c("line", p), c("row", m, p)))
	}
	{
		p, nn := gdl.NewVar("P"), gdl.NewVar("N")
		rules = append(rules, rule(c("line", p), c("column", nn, p)))
	}
	{
		p := gdl.NewVar("P")
		rules = append(rules, rule(c("line", p), c("diagonal", p)))
	}
	{
		m, nn := gdl.NewVar("M"), gdl.NewVar("N")
		rules = append(rules, rule(a("open"), c("true", c("cell", m, nn, a("b")))))
	}
	rules = append(rules,
		rule(a("terminal"), c("line", a("x"))),
		rule(a("terminal"), c("line", a("o"))),
		rule(a("terminal"), c("not", a("open"))),
		rule(c("goal", a("white"), n(100)), c("line", a("x"))),
		rule(c("goal", a("white"), n(50)),
			c("not", c("line", a("x"))), c("not", c("line", a("o"))), c("not", a("open"))),
		rule(c("goal", a("white"), n(0)), c("line", a("o"))),
		rule(c("goal", a("black"), n(100)), c("line", a("o"))),
		rule(c("goal", a("black"), n(50)),
			c("not", c("line", a("x"))), c("not", c("line", a("o"))), c("not", a("open"))),
		rule(c("goal", a("black"), n(0)), c("line", a("x"))))
	return rules
}

// TilePuzzle is a 2x2 sliding tile puzzle: a single robot moves the
// blank six times, until the step counter goes from 1 to 7, scoring
// when the tiles end up in order.
func TilePuzzle() []gdl.Term {
	rules := []gdl.Term{
		c("role", a("robot")),
		c("init", c("cell", n(1), n(1), a("b"))),
		c("init", c("cell", n(1), n(2), n(3))),
		c("init", c("cell", n(2), n(1), n(2))),
		c("init", c("cell", n(2), n(2), n(1))),
		c("init", c("step", n(1))),
		c("nextcol", n(1), n(2)),
		c("nextrow", n(1), n(2)),
	}
	for i := int64(1); i <= 6; i++ {
		rules = append(rules, c("succ", n(i), n(i+1)))
	}

	{
		m, nn, n2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("N2")
		rules = append(rules, rule(c("legal", a("robot"), a("right")),
			c("true", c("cell", m, nn, a("b"))), c("nextcol", nn, n2)))
	}
	{
		m, nn, n2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("N2")
		rules = append(rules, rule(c("legal", a("robot"), a("left")),
			c("true", c("cell", m, nn, a("b"))), c("nextcol", n2, nn)))
	}
	{
		m, nn, m2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("M2")
		rules = append(rules, rule(c("legal", a("robot"), a("down")),
			c("true", c("cell", m, nn, a("b"))), c("nextrow", m, m2)))
	}
	{
		m, nn, m2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("M2")
		rules = append(rules, rule(c("legal", a("robot"), a("up")),
			c("true", c("cell", m, nn, a("b"))), c("nextrow", m2, m)))
	}

	// blankdest(M, N): the cell the blank slides into.
	{
		m, nn, n2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("N2")
		rules = append(rules, rule(c("blankdest", m, n2),
			c("does", a("robot"), a("right")),
			c("true", c("cell", m, nn, a("b"))), c("nextcol", nn, n2)))
	}
	{
		m, nn, n2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("N2")
		rules = append(rules, rule(c("blankdest", m, n2),
			c("does", a("robot"), a("left")),
			c("true", c("cell", m, nn, a("b"))), c("nextcol", n2, nn)))
	}
	{
		m, nn, m2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("M2")
		rules = append(rules, rule(c("blankdest", m2, nn),
			c("does", a("robot"), a("down")),
			c("true", c("cell", m, nn, a("b"))), c("nextrow", m, m2)))
	}
	{
		m, nn, m2 := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("M2")
		rules = append(rules, rule(c("blankdest", m2, nn),
			c("does", a("robot"), a("up")),
			c("true", c("cell", m, nn, a("b"))), c("nextrow", m2, m)))
	}

	{
		m, nn := gdl.NewVar("M"), gdl.NewVar("N")
		rules = append(rules, rule(c("next", c("cell", m, nn, a("b"))),
			c("blankdest", m, nn)))
	}
	{
		m, nn, m2, n2, t := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("M2"), gdl.NewVar("N2"), gdl.NewVar("T")
		rules = append(rules, rule(c("next", c("cell", m, nn, t)),
			c("true", c("cell", m, nn, a("b"))),
			c("blankdest", m2, n2),
			c("true", c("cell", m2, n2, t))))
	}
	{
		m, nn, t := gdl.NewVar("M"), gdl.NewVar("N"), gdl.NewVar("T")
		rules = append(rules, rule(c("next", c("cell", m, nn, t)),
			c("true", c("cell", m, nn, t)),
			c("distinct", t, a("b")),
			c("not", c("blankdest", m, nn))))
	}
	{
		s, s2 := gdl.NewVar("S"), gdl.NewVar("S2")
		rules = append(rules, rule(c("next", c("step", s2)),
			c("true", c("step", s)), c("succ", s, s2)))
	}

	rules = append(rules,
		rule(a("terminal"), c("true", c("step", n(7)))),
		rule(a("inorder"),
			c("true", c("cell", n(1), n(1), n(1))),
			c("true", c("cell", n(1), n(2), n(2))),
			c("true", c("cell", n(2), n(1), n(3)))),
		rule(c("goal", a("robot"), n(100)), a("inorder")),
		rule(c("goal", a("robot"), n(0)), c("not", a("inorder"))))
	return rules
}
