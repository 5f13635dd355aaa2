package token

// CommentKind distinguishes comment styles. Only line comments exist today.
type CommentKind int

// Comment kinds.
const (
	LineComment CommentKind = iota // -- comment
)

// Comment represents a source comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes the leading --
	Span Span
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}
