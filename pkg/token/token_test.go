package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"rw", RW},
		{"fun", FUN},
		{"datatype", DATATYPE},
		{"prove", PROVE},
		{"split", SPLIT},
		{"match", MATCH},
		{"append", IDENT},
		{"RW", IDENT},
		{"x'", IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "=>", ARROW.String())
	assert.Equal(t, "<=>", BIARROW.String())
	assert.Equal(t, "rw", RW.String())
	assert.Equal(t, "TOKEN(4242)", TokenType(4242).String())
}

func TestKeywords(t *testing.T) {
	kws := Keywords()
	assert.Len(t, kws, 9)
	assert.Equal(t, "rw", kws[0])
	assert.Equal(t, "match", kws[len(kws)-1])
	for _, kw := range kws {
		assert.True(t, IsKeyword(LookupIdent(kw)), kw)
	}
}

func TestIsStatementStart(t *testing.T) {
	assert.True(t, IsStatementStart(RW))
	assert.True(t, IsStatementStart(SPLIT))
	assert.False(t, IsStatementStart(MATCH))
	assert.False(t, IsStatementStart(IDENT))
}

func TestSpan_Contains(t *testing.T) {
	s := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 5, Offset: 4}}
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.True(t, s.IsValid())
	assert.False(t, Span{}.IsValid())
}
