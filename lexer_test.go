package apidsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apidsl "github.com/apidsl/apidsl"
)

func lexKinds(t *testing.T, input string) []apidsl.TokenKind {
	t.Helper()

	interner := apidsl.NewInterner()

	tokens, err := apidsl.Lex("test.apidsl", input, interner)
	require.NoError(t, err)

	kinds := make([]apidsl.TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}

		kinds = append(kinds, tok.Kind)
	}

	return kinds
}

func TestLex_Keywords(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "let on num str bool uri")
	assert.Equal(t, []apidsl.TokenKind{
		apidsl.TokenLet, apidsl.TokenOn, apidsl.TokenNum, apidsl.TokenStr,
		apidsl.TokenBool, apidsl.TokenURIKeyword, apidsl.TokenEOF,
	}, kinds)
}

func TestLex_Methods(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "get put post patch delete options head")
	assert.Equal(t, []apidsl.TokenKind{
		apidsl.TokenGet, apidsl.TokenPut, apidsl.TokenPost, apidsl.TokenPatch,
		apidsl.TokenDelete, apidsl.TokenOptions, apidsl.TokenHead, apidsl.TokenEOF,
	}, kinds)
}

func TestLex_Operators(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, `| ~ & , = / { } ( ) [ ] : ->`)
	assert.Equal(t, []apidsl.TokenKind{
		apidsl.TokenPipe, apidsl.TokenTilde, apidsl.TokenAmp, apidsl.TokenComma,
		apidsl.TokenEquals, apidsl.TokenSlash, apidsl.TokenLBrace, apidsl.TokenRBrace,
		apidsl.TokenLParen, apidsl.TokenRParen, apidsl.TokenLBrack, apidsl.TokenRBrack,
		apidsl.TokenColon, apidsl.TokenArrow, apidsl.TokenEOF,
	}, kinds)
}

func TestLex_ArrowNotMisreadAsMinusThenGreater(t *testing.T) {
	t.Parallel()

	// -> must win over matching "-" then ">" one rune at a time; "-" isn't
	// even a recognized single-char operator, so a wrong scan would lex-error.
	kinds := lexKinds(t, "->")
	assert.Equal(t, []apidsl.TokenKind{apidsl.TokenArrow, apidsl.TokenEOF}, kinds)
}

func TestLex_IdentifierInterning(t *testing.T) {
	t.Parallel()

	interner := apidsl.NewInterner()

	tokens, err := apidsl.Lex("test.apidsl", "foo bar foo", interner)
	require.NoError(t, err)

	var idents []apidsl.Token

	for _, tok := range tokens {
		if tok.Kind == apidsl.TokenIdent {
			idents = append(idents, tok)
		}
	}

	require.Len(t, idents, 3)
	assert.Equal(t, idents[0].Sym, idents[2].Sym)
	assert.NotEqual(t, idents[0].Sym, idents[1].Sym)
	assert.Equal(t, "foo", interner.Resolve(idents[0].Sym))
	assert.Equal(t, "bar", interner.Resolve(idents[1].Sym))
}

func TestLex_StringEscapes(t *testing.T) {
	t.Parallel()

	interner := apidsl.NewInterner()

	tokens, err := apidsl.Lex("test.apidsl", `"a\nb\tc\"d"`, interner)
	require.NoError(t, err)
	require.Equal(t, apidsl.TokenString, tokens[0].Kind)
	assert.Equal(t, "a\nb\tc\"d", tokens[0].Value)
}

func TestLex_UnterminatedString(t *testing.T) {
	t.Parallel()

	interner := apidsl.NewInterner()

	_, err := apidsl.Lex("test.apidsl", `"abc`, interner)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrLex, apiErr.Kind)
}

func TestLex_UnexpectedCharacter(t *testing.T) {
	t.Parallel()

	interner := apidsl.NewInterner()

	_, err := apidsl.Lex("test.apidsl", "let x = @", interner)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrLex, apiErr.Kind)
}

func TestLex_CommentIsTrivia(t *testing.T) {
	t.Parallel()

	interner := apidsl.NewInterner()

	tokens, err := apidsl.Lex("test.apidsl", "let x // a comment\n= num", interner)
	require.NoError(t, err)

	var sawComment bool

	for _, tok := range tokens {
		if tok.Kind == apidsl.TokenComment {
			sawComment = true

			assert.Equal(t, "// a comment", tok.Value)
		}
	}

	assert.True(t, sawComment)
}

func TestLex_KeywordLikePrefixIsStillOneIdentifier(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "letter")
	assert.Equal(t, []apidsl.TokenKind{apidsl.TokenIdent, apidsl.TokenEOF}, kinds)
}
