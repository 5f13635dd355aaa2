package core

import "fmt"

// HoleConflictError reports an identifier used both as a hole and as an id
// within one validation scope.
type HoleConflictError struct {
	Name string
}

func (e *HoleConflictError) Error() string {
	return fmt.Sprintf("Identifier %q is used both as a hole and as a normal id", e.Name)
}

// HolesCorrespond checks that every name in terminals is used with a single
// role. The scope is exactly the terminals supplied; callers decide whether
// annotation terminals belong to it (see StatementTerminals).
//
// The reported name is the one whose second role appears first in the stream.
func HolesCorrespond(terminals []*Terminal) error {
	holes := make(map[string]struct{})
	ids := make(map[string]struct{})

	for _, t := range terminals {
		if t == nil {
			continue
		}
		if t.IsHole() {
			if _, ok := ids[t.Name]; ok {
				return &HoleConflictError{Name: t.Name}
			}
			holes[t.Name] = struct{}{}
			continue
		}
		if _, ok := holes[t.Name]; ok {
			return &HoleConflictError{Name: t.Name}
		}
		ids[t.Name] = struct{}{}
	}
	return nil
}
