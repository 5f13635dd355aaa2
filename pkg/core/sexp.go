package core

import "strings"

// String renders the canonical s-expression.
func (l *Leaf) String() string { return sexp(l, false) }

// String renders the canonical s-expression.
func (o *Op) String() string { return sexp(o, false) }

// String renders the canonical s-expression.
func (m *Match) String() string { return sexp(m, false) }

// ToSexpString renders e in canonical form:
//
//	x            id leaf
//	?x           hole leaf
//	(f a ?b)     application; (f) when there are no arguments
//	(match s (=> p1 b1) (=> p2 b2))
//
// Annotations are omitted.
func ToSexpString(e Expression) string { return sexp(e, false) }

// CanonicalKey renders e like ToSexpString but also writes every annotation
// as a "::" suffix on its terminal. Equal expressions always produce equal
// keys, which makes the key the input for structural hashing.
func CanonicalKey(e Expression) string { return sexp(e, true) }

func sexp(e Expression, annotations bool) string {
	var sb strings.Builder
	writeSexp(&sb, e, annotations)
	return sb.String()
}

func writeSexp(sb *strings.Builder, e Expression, annotations bool) {
	switch e := e.(type) {
	case *Leaf:
		writeTerminal(sb, e.Terminal, annotations)
	case *Op:
		sb.WriteByte('(')
		writeTerminal(sb, e.Head, annotations)
		for _, c := range e.Args {
			sb.WriteByte(' ')
			writeSexp(sb, c, annotations)
		}
		sb.WriteByte(')')
	case *Match:
		sb.WriteString("(match ")
		writeSexp(sb, e.Scrutinee, annotations)
		for _, arm := range e.Arms {
			sb.WriteString(" (=> ")
			writeSexp(sb, arm.Pattern, annotations)
			sb.WriteByte(' ')
			writeSexp(sb, arm.Body, annotations)
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	}
}

func writeTerminal(sb *strings.Builder, t Terminal, annotations bool) {
	sb.WriteString(t.String())
	if annotations && t.Annotation != nil {
		writeAnnotationKey(sb, t.Annotation)
	}
}

// writeAnnotationKey writes "::" plus the annotation. A MultiAnnot is wrapped
// in brackets so nesting stays visible in the key.
func writeAnnotationKey(sb *strings.Builder, a Annotation) {
	sb.WriteString("::")
	switch a := a.(type) {
	case *TypeAnnotation:
		if a.Expr != nil {
			writeSexp(sb, a.Expr, true)
		}
	case *Placeholder:
		sb.WriteString(a.String())
	case *MultiAnnot:
		sb.WriteByte('[')
		for _, item := range a.Items {
			if item != nil {
				writeAnnotationKey(sb, item)
			}
		}
		sb.WriteByte(']')
	}
}
