package format

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/rwspec/pkg/core"
)

// Expression renders e in source syntax, annotations included.
func Expression(e core.Expression) string {
	var sb strings.Builder
	writeExpr(&sb, e, true)
	return sb.String()
}

// Annotation renders a in source syntax: "_N", a type term, or items
// joined by "::".
func Annotation(a core.Annotation) string {
	var sb strings.Builder
	writeAnnotation(&sb, a)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e core.Expression, annotated bool) {
	switch e := e.(type) {
	case *core.Leaf:
		writeTerminal(sb, e.Terminal, annotated)
	case *core.Op:
		sb.WriteByte('(')
		writeTerminal(sb, e.Head, annotated)
		for _, arg := range e.Args {
			sb.WriteByte(' ')
			writeExpr(sb, arg, annotated)
		}
		sb.WriteByte(')')
	case *core.Match:
		sb.WriteString("(match ")
		writeExpr(sb, e.Scrutinee, annotated)
		for _, arm := range e.Arms {
			sb.WriteString(" (=> ")
			writeExpr(sb, arm.Pattern, annotated)
			sb.WriteByte(' ')
			writeExpr(sb, arm.Body, annotated)
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	}
}

func writeTerminal(sb *strings.Builder, t core.Terminal, annotated bool) {
	sb.WriteString(t.String())
	if !annotated || t.Annotation == nil {
		return
	}
	for _, item := range flatten(t.Annotation) {
		sb.WriteString("::")
		writeAnnotation(sb, item)
	}
}

// writeAnnotation writes a single annotation. Type terms are written without
// their own annotations, which the syntax cannot express.
func writeAnnotation(sb *strings.Builder, a core.Annotation) {
	items := flatten(a)
	for i, item := range items {
		if i > 0 {
			sb.WriteString("::")
		}
		switch item := item.(type) {
		case *core.TypeAnnotation:
			writeExpr(sb, item.Expr, false)
		case *core.Placeholder:
			sb.WriteString("_" + strconv.FormatUint(uint64(item.Index), 10))
		}
	}
}

// flatten lists the leaf annotations of a in resolution order.
func flatten(a core.Annotation) []core.Annotation {
	switch a := a.(type) {
	case nil:
		return nil
	case *core.MultiAnnot:
		var out []core.Annotation
		for _, item := range a.Items {
			out = append(out, flatten(item)...)
		}
		return out
	case *core.TypeAnnotation:
		if a.Expr == nil {
			return nil
		}
	}
	return []core.Annotation{a}
}
