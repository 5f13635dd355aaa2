package core

import (
	"strconv"
	"strings"
)

// Annotation is optional type metadata attached to a terminal.
//
// The variants are TypeAnnotation, Placeholder, and MultiAnnot. Resolution
// scans left to right, depth first, and the first match wins for each query
// independently.
type Annotation interface {
	annotationNode()

	// HasType reports whether a Type is reachable.
	HasType() bool
	// GetType returns the first Type found, or false.
	GetType() (Expression, bool)
	// GetPlaceholder returns the first Placeholder index found, or false.
	GetPlaceholder() (uint, bool)
	// String renders the annotation in source syntax.
	String() string
}

// TypeAnnotation is a concrete type term.
type TypeAnnotation struct {
	Expr Expression
}

// Placeholder is an unresolved inference slot. Terminals sharing an index
// share one unknown type.
type Placeholder struct {
	Index uint
}

// MultiAnnot merges several candidate annotations for one slot.
type MultiAnnot struct {
	Items []Annotation
}

func (*TypeAnnotation) annotationNode() {}
func (*Placeholder) annotationNode()    {}
func (*MultiAnnot) annotationNode()     {}

// Type returns a TypeAnnotation for e.
func Type(e Expression) *TypeAnnotation { return &TypeAnnotation{Expr: e} }

// PH returns a Placeholder with the given index.
func PH(index uint) *Placeholder { return &Placeholder{Index: index} }

// Multi returns a MultiAnnot over items.
func Multi(items ...Annotation) *MultiAnnot { return &MultiAnnot{Items: items} }

// HasType implements Annotation.
func (a *TypeAnnotation) HasType() bool { return a.Expr != nil }

// GetType implements Annotation.
func (a *TypeAnnotation) GetType() (Expression, bool) { return resolveType(a) }

// GetPlaceholder implements Annotation.
func (a *TypeAnnotation) GetPlaceholder() (uint, bool) { return 0, false }

// HasType implements Annotation.
func (a *Placeholder) HasType() bool { return false }

// GetType implements Annotation.
func (a *Placeholder) GetType() (Expression, bool) { return nil, false }

// GetPlaceholder implements Annotation.
func (a *Placeholder) GetPlaceholder() (uint, bool) { return a.Index, true }

// HasType implements Annotation.
func (a *MultiAnnot) HasType() bool {
	_, ok := resolveType(a)
	return ok
}

// GetType implements Annotation.
func (a *MultiAnnot) GetType() (Expression, bool) { return resolveType(a) }

// GetPlaceholder implements Annotation.
func (a *MultiAnnot) GetPlaceholder() (uint, bool) { return resolvePlaceholder(a) }

// resolveType finds the first Type in a left-to-right, depth-first scan.
func resolveType(a Annotation) (Expression, bool) {
	switch a := a.(type) {
	case *TypeAnnotation:
		return a.Expr, a.Expr != nil
	case *MultiAnnot:
		for _, item := range a.Items {
			if e, ok := resolveType(item); ok {
				return e, true
			}
		}
	}
	return nil, false
}

// resolvePlaceholder finds the first Placeholder under the same scan order.
func resolvePlaceholder(a Annotation) (uint, bool) {
	switch a := a.(type) {
	case *Placeholder:
		return a.Index, true
	case *MultiAnnot:
		for _, item := range a.Items {
			if idx, ok := resolvePlaceholder(item); ok {
				return idx, true
			}
		}
	}
	return 0, false
}

// String renders the type term.
func (a *TypeAnnotation) String() string {
	if a.Expr == nil {
		return ""
	}
	return a.Expr.String()
}

// String renders the placeholder as _N.
func (a *Placeholder) String() string {
	return "_" + strconv.FormatUint(uint64(a.Index), 10)
}

// String renders every candidate joined by "::".
func (a *MultiAnnot) String() string {
	parts := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		if item != nil {
			parts = append(parts, item.String())
		}
	}
	return strings.Join(parts, "::")
}

// cloneAnnotation deep-copies a, including nested type terms.
func cloneAnnotation(a Annotation) Annotation {
	switch a := a.(type) {
	case nil:
		return nil
	case *TypeAnnotation:
		if a.Expr == nil {
			return &TypeAnnotation{}
		}
		return &TypeAnnotation{Expr: Clone(a.Expr)}
	case *Placeholder:
		return &Placeholder{Index: a.Index}
	case *MultiAnnot:
		items := make([]Annotation, len(a.Items))
		for i, item := range a.Items {
			items[i] = cloneAnnotation(item)
		}
		return &MultiAnnot{Items: items}
	}
	return a
}

// CloneAnnotation returns a deep copy of a. A nil annotation stays nil.
func CloneAnnotation(a Annotation) Annotation {
	return cloneAnnotation(a)
}
