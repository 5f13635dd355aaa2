package core

import "strconv"

// MapState rebuilds e with every terminal replaced by the first result of f,
// threading state through the calls in a fixed order:
//
//   - Leaf: f once.
//   - Op: the head first, then each argument left to right.
//   - Match: the scrutinee first, then for each arm its pattern, then its body.
//
// The returned state is the one produced by the last call. Note that this
// order differs from Terminals for Match, which lists the scrutinee last.
// f receives a copy of each terminal; the input tree is never modified.
func MapState[S any](e Expression, state S, f func(S, Terminal) (Terminal, S)) (Expression, S) {
	switch e := e.(type) {
	case *Leaf:
		t, s := f(state, e.Terminal.Clone())
		return &Leaf{Terminal: t}, s

	case *Op:
		head, s := f(state, e.Head.Clone())
		args := make([]Expression, len(e.Args))
		for i, c := range e.Args {
			args[i], s = MapState(c, s, f)
		}
		return &Op{Head: head, Args: args}, s

	case *Match:
		scrutinee, s := MapState(e.Scrutinee, state, f)
		arms := make([]Arm, len(e.Arms))
		for i, arm := range e.Arms {
			var pattern, body Expression
			pattern, s = MapState(arm.Pattern, s, f)
			body, s = MapState(arm.Body, s, f)
			arms[i] = Arm{Pattern: pattern, Body: body}
		}
		return &Match{Scrutinee: scrutinee, Arms: arms}, s
	}
	return e, state
}

// RenameHoles maps every hole name through rename and leaves ids untouched.
func RenameHoles(e Expression, rename func(string) string) Expression {
	return e.Map(func(t Terminal) Terminal {
		if t.IsHole() {
			t.Name = rename(t.Name)
		}
		return t
	})
}

// FreshenHoles renames holes to prefix0, prefix1, ... in map order. Repeated
// occurrences of one hole get the same fresh name. It returns the renamed tree
// and the old-to-new mapping.
func FreshenHoles(e Expression, prefix string) (Expression, map[string]string) {
	type state struct {
		next    int
		renamed map[string]string
	}
	out, st := MapState(e, state{renamed: map[string]string{}}, func(s state, t Terminal) (Terminal, state) {
		if !t.IsHole() {
			return t, s
		}
		name, ok := s.renamed[t.Name]
		if !ok {
			name = prefix + strconv.Itoa(s.next)
			s.next++
			s.renamed[t.Name] = name
		}
		t.Name = name
		return t, s
	})
	return out, st.renamed
}

// Substitute replaces every Leaf whose terminal is a hole named in binding by
// a copy of the bound expression.
//
// Holes in head position are left alone: an Op head is a Terminal, not an
// Expression, so a binding such as (cons a nil) has no place there. Callers
// that bind head holes to symbols rename them with Expression.Map instead,
// replacing ?f's terminal by the bound Id.
func Substitute(e Expression, binding map[string]Expression) Expression {
	switch e := e.(type) {
	case *Leaf:
		if e.Terminal.IsHole() {
			if repl, ok := binding[e.Terminal.Name]; ok {
				return Clone(repl)
			}
		}
		return Clone(e)
	case *Op:
		args := make([]Expression, len(e.Args))
		for i, c := range e.Args {
			args[i] = Substitute(c, binding)
		}
		return &Op{Head: e.Head.Clone(), Args: args}
	case *Match:
		arms := make([]Arm, len(e.Arms))
		for i, arm := range e.Arms {
			arms[i] = Arm{Pattern: Substitute(arm.Pattern, binding), Body: Substitute(arm.Body, binding)}
		}
		return &Match{Scrutinee: Substitute(e.Scrutinee, binding), Arms: arms}
	}
	return e
}
