package core

// Equal reports whether a and b have the same shape, terminals, roles, and
// annotations, recursively. Arm order and argument order are significant.
func Equal(a, b Expression) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a.Terminal.Equal(b.Terminal)
	case *Op:
		b, ok := b.(*Op)
		if !ok || !a.Head.Equal(b.Head) || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *Match:
		b, ok := b.(*Match)
		if !ok || !Equal(a.Scrutinee, b.Scrutinee) || len(a.Arms) != len(b.Arms) {
			return false
		}
		for i := range a.Arms {
			if !Equal(a.Arms[i].Pattern, b.Arms[i].Pattern) || !Equal(a.Arms[i].Body, b.Arms[i].Body) {
				return false
			}
		}
		return true
	}
	return false
}

// EqualAnnotations reports structural equality of two annotations. Two nil
// annotations are equal.
func EqualAnnotations(a, b Annotation) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *TypeAnnotation:
		b, ok := b.(*TypeAnnotation)
		return ok && Equal(a.Expr, b.Expr)
	case *Placeholder:
		b, ok := b.(*Placeholder)
		return ok && a.Index == b.Index
	case *MultiAnnot:
		b, ok := b.(*MultiAnnot)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !EqualAnnotations(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// EqualStatements reports structural equality of two statements.
func EqualStatements(a, b Statement) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *RewriteDef:
		b, ok := b.(*RewriteDef)
		return ok && a.Name == b.Name && equalRewrites(a.Rewrite, b.Rewrite)
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Name == b.Name &&
			equalParams(a.Params, b.Params) &&
			EqualAnnotations(a.Return, b.Return) &&
			Equal(a.Body, b.Body)
	case *Datatype:
		b, ok := b.(*Datatype)
		if !ok || a.Name != b.Name || !equalStrings(a.TypeParams, b.TypeParams) || len(a.Constructors) != len(b.Constructors) {
			return false
		}
		for i := range a.Constructors {
			if a.Constructors[i].Name != b.Constructors[i].Name || !equalParams(a.Constructors[i].Fields, b.Constructors[i].Fields) {
				return false
			}
		}
		return true
	case *Goal:
		b, ok := b.(*Goal)
		return ok && Equal(a.Precondition, b.Precondition) && Equal(a.LHS, b.LHS) && Equal(a.RHS, b.RHS)
	case *CaseSplit:
		b, ok := b.(*CaseSplit)
		return ok && Equal(a.Searcher, b.Searcher) && Equal(a.Target, b.Target) &&
			equalExprs(a.Replacements, b.Replacements) &&
			equalConditions(a.Conditions, b.Conditions)
	}
	return false
}

func equalRewrites(a, b Rewrite) bool {
	return a.Kind == b.Kind &&
		Equal(a.Precondition, b.Precondition) &&
		Equal(a.Source, b.Source) &&
		Equal(a.Destination, b.Destination) &&
		equalConditions(a.Conditions, b.Conditions)
}

func equalExprs(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalConditions(a, b []Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i].Left, b[i].Left) || !Equal(a[i].Right, b[i].Right) {
			return false
		}
	}
	return true
}

func equalParams(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !EqualAnnotations(a[i].Annotation, b[i].Annotation) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
