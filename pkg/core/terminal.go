package core

// Role tells whether a terminal is a concrete symbol or a pattern variable.
type Role uint8

// Terminal roles.
const (
	// RoleID marks a concrete symbol: a function, constructor, datatype, or bound variable.
	RoleID Role = iota
	// RoleHole marks a pattern variable that matches any term.
	RoleHole
)

// String returns the role name.
func (r Role) String() string {
	if r == RoleHole {
		return "hole"
	}
	return "id"
}

// Terminal is a named token tagged with its role and an optional annotation.
type Terminal struct {
	Name       string
	Role       Role
	Annotation Annotation // nil when absent
}

// ID returns a concrete-symbol terminal.
func ID(name string) Terminal {
	return Terminal{Name: name, Role: RoleID}
}

// Hole returns a pattern-variable terminal.
func Hole(name string) Terminal {
	return Terminal{Name: name, Role: RoleHole}
}

// WithAnnotation returns a copy of t carrying a.
func (t Terminal) WithAnnotation(a Annotation) Terminal {
	t.Annotation = cloneAnnotation(a)
	return t
}

// Ident returns the terminal's name regardless of role.
func (t Terminal) Ident() string { return t.Name }

// IsHole reports whether t is a pattern variable.
func (t Terminal) IsHole() bool { return t.Role == RoleHole }

// IsID reports whether t is a concrete symbol.
func (t Terminal) IsID() bool { return t.Role == RoleID }

// String renders the terminal in canonical form: the bare name for an id,
// "?" followed by the name for a hole. Annotations are not rendered.
func (t Terminal) String() string {
	if t.IsHole() {
		return "?" + t.Name
	}
	return t.Name
}

// Clone returns a deep copy of t. The annotation is copied, never shared.
func (t Terminal) Clone() Terminal {
	t.Annotation = cloneAnnotation(t.Annotation)
	return t
}

// Equal reports whether t and u have the same name, role, and annotation.
func (t Terminal) Equal(u Terminal) bool {
	return t.Name == u.Name && t.Role == u.Role && EqualAnnotations(t.Annotation, u.Annotation)
}

// matchRoot is the synthetic head reported by Match.Root. It never appears in
// source text and never carries an annotation.
var matchRoot = Terminal{Name: "match", Role: RoleID}

// MatchRoot returns the sentinel terminal used as the root of every Match.
func MatchRoot() Terminal { return matchRoot }
