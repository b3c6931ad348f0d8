package sex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Tokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []TokenType
	}{
		{"operators", "<= >= << >> == != && || =>", []TokenType{Le, Ge, DateBefore, DateAfter, Eq, Ne, AndAnd, OrOr, Implies, EOF}},
		{"single char operators", "+ - * / % & ~ ! = < > ? : # ( ) [ ]",
			[]TokenType{Plus, Minus, Star, Slash, Percent, Amp, Match, Not, Eq, Lt, Gt, Question, Colon, Hash, LParen, RParen, LBracket, RBracket, EOF}},
		{"ident and numbers", `Name 42 3.14 .5 0x1A`, []TokenType{Ident, Int, Real, Real, Int, EOF}},
		{"string literal", `"hi there"`, []TokenType{String, EOF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newLexer(tc.in)
			var got []TokenType
			for {
				tok := l.next()
				got = append(got, tok)
				if tok == EOF || tok == Illegal {
					break
				}
			}
			require.NoError(t, l.err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	l := newLexer(`"a\nb\"c"`)
	tok := l.next()
	require.Equal(t, String, tok)
	assert.Equal(t, "a\nb\"c", l.sval)
}

func TestLexer_HexAndOctalIntegers(t *testing.T) {
	l := newLexer("0x1A")
	require.Equal(t, Int, l.next())
	assert.EqualValues(t, 26, l.ival)

	l = newLexer("0755")
	require.Equal(t, Int, l.next())
	assert.EqualValues(t, 493, l.ival)
}
