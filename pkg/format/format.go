package format

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/leapstack-labs/rwspec/pkg/token"
)

// Statement formats a single statement.
func Statement(stmt core.Statement) string {
	p := newPrinter()
	p.formatStatement(stmt)
	return p.String()
}

// Definitions formats statements separated by blank lines.
func Definitions(defs core.Definitions) string {
	p := newPrinter()
	for i, stmt := range defs {
		if i > 0 {
			p.writeln()
			p.writeln()
		}
		p.formatStatement(stmt)
	}
	return p.String()
}

// Source formats a parsed file, keeping its comments. A comment on the last
// line of a statement stays on that line; other comments are placed before
// the statement that follows them.
func Source(src *parser.Source) string {
	p := newPrinter()
	used := make([]bool, len(src.Comments))

	for i, stmt := range src.Statements {
		if i > 0 {
			p.writeln()
			p.writeln()
		}
		span := src.Spans[i]
		p.formatComments(pick(src.Comments, used, func(c *token.Comment) bool {
			return c.Span.Start.Offset < span.Start.Offset
		}))
		p.formatStatement(stmt)
		p.formatTrailingComments(pick(src.Comments, used, func(c *token.Comment) bool {
			return c.Span.Start.Line == span.End.Line && c.Span.Start.Offset >= span.End.Offset
		}))
	}

	rest := pick(src.Comments, used, func(*token.Comment) bool { return true })
	if len(rest) > 0 {
		if len(src.Statements) > 0 {
			p.writeln()
			p.writeln()
		}
		p.formatComments(rest)
	}
	return p.String()
}

// pick returns the unused comments accepted by keep and marks them used.
func pick(comments []*token.Comment, used []bool, keep func(*token.Comment) bool) []*token.Comment {
	var out []*token.Comment
	for i, c := range comments {
		if used[i] || !keep(c) {
			continue
		}
		used[i] = true
		out = append(out, c)
	}
	return out
}
