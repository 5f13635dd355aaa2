package core

// ---------- Statement Types ----------

// Statement is a top-level declaration.
type Statement interface {
	stmtNode()

	// Kind identifies the statement variant.
	Kind() StatementKind
	// GetName returns the declared name, or "" for statements without one.
	GetName() string
}

// StatementKind identifies a statement variant.
type StatementKind string

// StatementKind constants.
const (
	KindRewrite   StatementKind = "rewrite"
	KindFunction  StatementKind = "function"
	KindDatatype  StatementKind = "datatype"
	KindGoal      StatementKind = "goal"
	KindCaseSplit StatementKind = "casesplit"
)

// Definitions is a parsed source unit: statements in source order.
type Definitions []Statement

// RewriteDef names a rewrite rule.
type RewriteDef struct {
	Name    string
	Rewrite Rewrite
}

// Function declares a function signature. A nil Body declares an
// uninterpreted function.
type Function struct {
	Name   string
	Params []Parameter
	Return Annotation
	Body   Expression
}

// Datatype declares an algebraic datatype.
type Datatype struct {
	Name         string
	TypeParams   []string
	Constructors []Constructor
}

// Goal is an equivalence obligation, optionally guarded by Precondition.
type Goal struct {
	Precondition Expression
	LHS          Expression
	RHS          Expression
}

// CaseSplit asserts that Target may be replaced by each of Replacements
// when Searcher matches and Conditions hold.
type CaseSplit struct {
	Searcher     Expression
	Target       Expression
	Replacements []Expression
	Conditions   []Condition
}

func (*RewriteDef) stmtNode() {}
func (*Function) stmtNode()   {}
func (*Datatype) stmtNode()   {}
func (*Goal) stmtNode()       {}
func (*CaseSplit) stmtNode()  {}

// Kind implements Statement.
func (*RewriteDef) Kind() StatementKind { return KindRewrite }

// Kind implements Statement.
func (*Function) Kind() StatementKind { return KindFunction }

// Kind implements Statement.
func (*Datatype) Kind() StatementKind { return KindDatatype }

// Kind implements Statement.
func (*Goal) Kind() StatementKind { return KindGoal }

// Kind implements Statement.
func (*CaseSplit) Kind() StatementKind { return KindCaseSplit }

// GetName implements Statement.
func (s *RewriteDef) GetName() string { return s.Name }

// GetName implements Statement.
func (s *Function) GetName() string { return s.Name }

// GetName implements Statement.
func (s *Datatype) GetName() string { return s.Name }

// GetName implements Statement.
func (*Goal) GetName() string { return "" }

// GetName implements Statement.
func (*CaseSplit) GetName() string { return "" }

// ---------- Rewrites ----------

// RewriteKind distinguishes the three rewrite flavors.
type RewriteKind int

// RewriteKind constants.
const (
	// DRewrite rewrites Source to Destination only.
	DRewrite RewriteKind = iota
	// BRewrite rewrites in both directions.
	BRewrite
	// AddSearcher registers a pattern searcher (formerly the diff applier).
	AddSearcher
)

// String returns the kind name.
func (k RewriteKind) String() string {
	switch k {
	case DRewrite:
		return "directional"
	case BRewrite:
		return "bidirectional"
	case AddSearcher:
		return "searcher"
	default:
		return "unknown"
	}
}

// Operator returns the source-syntax arrow for the kind.
func (k RewriteKind) Operator() string {
	switch k {
	case BRewrite:
		return "<=>"
	case AddSearcher:
		return "|>"
	default:
		return "=>"
	}
}

// Rewrite relates a source pattern to a destination.
type Rewrite struct {
	Kind         RewriteKind
	Precondition Expression // nil when unguarded
	Source       Expression
	Destination  Expression
	Conditions   []Condition
}

// SourceExpressions returns the patterns a matching pass searches for:
// Source alone, or Source and Destination for a bidirectional rewrite.
func (r Rewrite) SourceExpressions() []Expression {
	if r.Kind == BRewrite {
		return []Expression{r.Source, r.Destination}
	}
	return []Expression{r.Source}
}

// Condition is an equality constraint guarding a rule.
type Condition struct {
	Left  Expression
	Right Expression
}

// Parameter is a named, annotated slot: a function parameter or a
// constructor field.
type Parameter struct {
	Name       string
	Annotation Annotation
}

// Constructor is a datatype constructor with ordered fields.
type Constructor struct {
	Name   string
	Fields []Parameter
}
