package core_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/rwspec/pkg/core"
)

func TestMapStateThreadsCounter(t *testing.T) {
	// Numbering each terminal in map order shows the traversal contract.
	number := func(n int, term core.Terminal) (core.Terminal, int) {
		term.Name += strconv.Itoa(n)
		return term, n + 1
	}

	out, next := core.MapState[int](sampleMatch(), 0, number)
	assert.Equal(t, 8, next)
	assert.Equal(t, "(match ?l0 (=> nil1 ?d2) (=> (cons3 ?h4 ?t5) (f6 ?h7)))", out.String())

	out, next = core.MapState[int](core.NewOp(core.ID("f"), id("a"), id("b")), 10, number)
	assert.Equal(t, 13, next)
	assert.Equal(t, "(f10 a11 b12)", out.String())
}

func TestRenameHoles(t *testing.T) {
	e := core.NewOp(core.ID("f"), hole("x"), id("x2"))
	out := core.RenameHoles(e, func(name string) string { return name + "2" })
	assert.Equal(t, "(f ?x2 x2)", out.String())
	assert.Equal(t, "(f ?x x2)", e.String())
}

func TestFreshenHoles(t *testing.T) {
	out, renamed := core.FreshenHoles(sampleMatch(), "v")
	assert.Equal(t, "(match ?v0 (=> nil ?v1) (=> (cons ?v2 ?v3) (f ?v2)))", out.String())
	assert.Equal(t, map[string]string{"l": "v0", "d": "v1", "h": "v2", "t": "v3"}, renamed)
}

func TestSubstitute(t *testing.T) {
	e := core.NewOp(core.ID("append"), hole("xs"), core.NewOp(core.Hole("f"), hole("y")))
	binding := map[string]core.Expression{
		"xs": core.NewOp(core.ID("cons"), id("a"), id("nil")),
		"f":  id("ignored"),
	}

	out := core.Substitute(e, binding)
	assert.Equal(t, "(append (cons a nil) (?f ?y))", out.String())

	// head holes are renamed through Map, not Substitute
	renamed := out.Map(func(term core.Terminal) core.Terminal {
		if term.IsHole() && term.Name == "f" {
			return core.ID("g")
		}
		return term
	})
	assert.Equal(t, "(append (cons a nil) (g ?y))", renamed.String())

	// the bound expression is copied, not shared
	out.(*core.Op).Args[0].(*core.Op).Head.Name = "snoc"
	assert.Equal(t, "(cons a nil)", binding["xs"].String())
}
