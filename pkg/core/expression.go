package core

// Expression is a term: a Leaf, an Op, or a Match.
//
// Expressions are finite, acyclic trees. No node is shared between two
// trees; Children and Root hand out copies.
type Expression interface {
	exprNode()

	// Root returns the head terminal. A Match reports MatchRoot().
	Root() Terminal
	// Children returns copies of the direct sub-terms.
	Children() []Expression
	// Terminals flattens every terminal of the tree in traversal order.
	Terminals() []*Terminal
	// Holes returns the hole terminals of Terminals, order preserved.
	Holes() []*Terminal
	// Map returns a tree of the same shape with every terminal replaced by f(terminal).
	Map(f func(Terminal) Terminal) Expression
	// String renders the canonical s-expression.
	String() string
}

// Leaf is a nullary term.
type Leaf struct {
	Terminal Terminal
}

// Op applies Head to an ordered list of arguments.
type Op struct {
	Head Terminal
	Args []Expression
}

// Match is a pattern-match term. Arm order is significant.
type Match struct {
	Scrutinee Expression
	Arms      []Arm
}

// Arm is one "(=> pattern body)" case of a Match.
type Arm struct {
	Pattern Expression
	Body    Expression
}

func (*Leaf) exprNode()  {}
func (*Op) exprNode()    {}
func (*Match) exprNode() {}

// NewLeaf returns a Leaf holding t.
func NewLeaf(t Terminal) *Leaf {
	return &Leaf{Terminal: t}
}

// NewOp returns an Op applying head to args.
func NewOp(head Terminal, args ...Expression) *Op {
	if args == nil {
		args = []Expression{}
	}
	return &Op{Head: head, Args: args}
}

// NewMatch returns a Match over scrutinee with the given arms.
func NewMatch(scrutinee Expression, arms ...Arm) *Match {
	if arms == nil {
		arms = []Arm{}
	}
	return &Match{Scrutinee: scrutinee, Arms: arms}
}

// ---------- Root ----------

// Root implements Expression.
func (l *Leaf) Root() Terminal { return l.Terminal.Clone() }

// Root implements Expression.
func (o *Op) Root() Terminal { return o.Head.Clone() }

// Root implements Expression. A Match has no head in source syntax, so the
// sentinel stands in for one.
func (m *Match) Root() Terminal { return MatchRoot() }

// ---------- Children ----------

// Children implements Expression.
func (l *Leaf) Children() []Expression { return []Expression{} }

// Children implements Expression.
func (o *Op) Children() []Expression {
	out := make([]Expression, len(o.Args))
	for i, c := range o.Args {
		out[i] = Clone(c)
	}
	return out
}

// Children implements Expression: every arm body in arm order, then the
// scrutinee last. Patterns are not children.
func (m *Match) Children() []Expression {
	out := make([]Expression, 0, len(m.Arms)+1)
	for _, arm := range m.Arms {
		out = append(out, Clone(arm.Body))
	}
	return append(out, Clone(m.Scrutinee))
}

// ---------- Terminals ----------

// Terminals implements Expression.
func (l *Leaf) Terminals() []*Terminal {
	return []*Terminal{&l.Terminal}
}

// Terminals implements Expression: the head first, then each argument's
// terminals left to right.
func (o *Op) Terminals() []*Terminal {
	out := []*Terminal{&o.Head}
	for _, c := range o.Args {
		out = append(out, c.Terminals()...)
	}
	return out
}

// Terminals implements Expression: for each arm the pattern's terminals then
// the body's, and the scrutinee's terminals appended at the end.
func (m *Match) Terminals() []*Terminal {
	var out []*Terminal
	for _, arm := range m.Arms {
		out = append(out, arm.Pattern.Terminals()...)
		out = append(out, arm.Body.Terminals()...)
	}
	return append(out, m.Scrutinee.Terminals()...)
}

// ---------- Holes ----------

// Holes implements Expression.
func (l *Leaf) Holes() []*Terminal { return filterHoles(l.Terminals()) }

// Holes implements Expression.
func (o *Op) Holes() []*Terminal { return filterHoles(o.Terminals()) }

// Holes implements Expression.
func (m *Match) Holes() []*Terminal { return filterHoles(m.Terminals()) }

func filterHoles(ts []*Terminal) []*Terminal {
	out := make([]*Terminal, 0, len(ts))
	for _, t := range ts {
		if t.IsHole() {
			out = append(out, t)
		}
	}
	return out
}

// ---------- Map ----------

// Map implements Expression.
func (l *Leaf) Map(f func(Terminal) Terminal) Expression { return mapStateless(l, f) }

// Map implements Expression.
func (o *Op) Map(f func(Terminal) Terminal) Expression { return mapStateless(o, f) }

// Map implements Expression.
func (m *Match) Map(f func(Terminal) Terminal) Expression { return mapStateless(m, f) }

func mapStateless(e Expression, f func(Terminal) Terminal) Expression {
	out, _ := MapState(e, struct{}{}, func(s struct{}, t Terminal) (Terminal, struct{}) {
		return f(t), s
	})
	return out
}

// ---------- Helpers ----------

// Clone returns a deep copy of e.
func Clone(e Expression) Expression {
	switch e := e.(type) {
	case nil:
		return nil
	case *Leaf:
		return &Leaf{Terminal: e.Terminal.Clone()}
	case *Op:
		args := make([]Expression, len(e.Args))
		for i, c := range e.Args {
			args[i] = Clone(c)
		}
		return &Op{Head: e.Head.Clone(), Args: args}
	case *Match:
		arms := make([]Arm, len(e.Arms))
		for i, arm := range e.Arms {
			arms[i] = Arm{Pattern: Clone(arm.Pattern), Body: Clone(arm.Body)}
		}
		return &Match{Scrutinee: Clone(e.Scrutinee), Arms: arms}
	}
	return e
}

// NodeCount returns the number of Leaf and Op nodes in e. A Match node adds
// nothing of its own, only its scrutinee, patterns, and bodies. The result
// always equals len(e.Terminals()).
func NodeCount(e Expression) int {
	switch e := e.(type) {
	case *Leaf:
		return 1
	case *Op:
		n := 1
		for _, c := range e.Args {
			n += NodeCount(c)
		}
		return n
	case *Match:
		n := NodeCount(e.Scrutinee)
		for _, arm := range e.Arms {
			n += NodeCount(arm.Pattern) + NodeCount(arm.Body)
		}
		return n
	}
	return 0
}

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(e Expression) bool

// Walk traverses e in pre-order. Op arguments are visited left to right; a
// Match visits its scrutinee, then each arm's pattern and body.
func Walk(e Expression, v Visitor) {
	if e == nil || !v(e) {
		return
	}

	switch n := e.(type) {
	case *Op:
		for _, c := range n.Args {
			Walk(c, v)
		}
	case *Match:
		Walk(n.Scrutinee, v)
		for _, arm := range n.Arms {
			Walk(arm.Pattern, v)
			Walk(arm.Body, v)
		}
	}
}
