// Package apidsl implements a compiler front-end for a small DSL that
// describes HTTP APIs as resources, relations, and data schemas. It lexes
// and parses source text into a concrete syntax tree, lowers that into a
// typed expression tree, infers and checks types, reduces the program by
// beta-reduction, and assembles a normalized intermediate representation
// suitable for emission to an external interchange format such as OpenAPI.
package apidsl

import "github.com/alecthomas/participle/v2/lexer"

// Symbol is an interned identifier. Equality between two symbols issued by
// the same Interner is integer equality.
type Symbol int32

// Interner deduplicates identifier strings into Symbols. The zero value is
// not usable; construct with NewInterner.
type Interner struct {
	strings []string
	byText  map[string]Symbol
}

// NewInterner returns an empty, ready-to-use Interner.
func NewInterner() *Interner {
	return &Interner{byText: make(map[string]Symbol)}
}

// Intern returns the Symbol for text, issuing a fresh one if text has not
// been seen by this Interner before.
func (in *Interner) Intern(text string) Symbol {
	if sym, ok := in.byText[text]; ok {
		return sym
	}

	sym := Symbol(len(in.strings))
	in.strings = append(in.strings, text)
	in.byText[text] = sym

	return sym
}

// Resolve returns the text for sym. It panics if sym was not issued by this
// Interner, since that indicates a programming error in the compiler itself.
func (in *Interner) Resolve(sym Symbol) string {
	return in.strings[sym]
}

// Span is a half-open character range [Start, End) within the original
// source text, attached to every token and every tree node.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// JoinSpans returns the smallest span covering both a and b.
func JoinSpans(a, b Span) Span {
	start := a.Start
	if b.Start.Offset < start.Offset {
		start = b.Start
	}

	end := a.End
	if b.End.Offset > end.Offset {
		end = b.End
	}

	return Span{Start: start, End: end}
}

// TokenKind classifies a lexical token.
type TokenKind int

// Token kinds: keywords, primitive names, HTTP method names, operator
// symbols, identifiers, string literals, brackets, and trivia.
const (
	TokenEOF TokenKind = iota

	// Keywords.
	TokenLet
	TokenOn

	// Primitive type names.
	TokenNum
	TokenStr
	TokenBool

	// The "uri" primitive keyword (distinct from the uri *expression* form).
	TokenURIKeyword

	// HTTP method names.
	TokenGet
	TokenPut
	TokenPost
	TokenPatch
	TokenDelete
	TokenOptions
	TokenHead

	// Identifiers and literals.
	TokenIdent
	TokenString

	// Operator symbols.
	TokenPipe    // |
	TokenTilde   // ~
	TokenAmp     // &
	TokenComma   // ,
	TokenEquals  // =
	TokenSlash   // /
	TokenLBrace  // {
	TokenRBrace  // }
	TokenLParen  // (
	TokenRParen  // )
	TokenLBrack  // [
	TokenRBrack  // ]
	TokenColon   // :
	TokenArrow   // ->

	// Trivia: filtered out of the parser's token stream but retained in the
	// full token list so spans and source text remain reconstructable.
	TokenWhitespace
	TokenComment
)

// methodKeywords maps HTTP method spellings to their token kind.
var methodKeywords = map[string]TokenKind{
	"get":     TokenGet,
	"put":     TokenPut,
	"post":    TokenPost,
	"patch":   TokenPatch,
	"delete":  TokenDelete,
	"options": TokenOptions,
	"head":    TokenHead,
}

// keywords maps reserved words (other than HTTP methods) to their token kind.
var keywords = map[string]TokenKind{
	"let":  TokenLet,
	"on":   TokenOn,
	"num":  TokenNum,
	"str":  TokenStr,
	"bool": TokenBool,
	"uri":  TokenURIKeyword,
}

// IsTrivia reports whether a token kind is dropped from the parser's token
// stream.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment
}

// Token is a single lexical unit with its span and, for identifiers, its
// interned Symbol.
type Token struct {
	Kind  TokenKind
	Value string
	Sym   Symbol // valid only when Kind == TokenIdent
	Span  Span
}

// Method is the HTTP method of a Transfer.
type Method int

// The seven HTTP methods the grammar recognizes.
const (
	MethodGet Method = iota
	MethodPut
	MethodPost
	MethodPatch
	MethodDelete
	MethodOptions
	MethodHead
)

// methodFromToken maps a method token kind to the Method enum used in the AST.
func methodFromToken(k TokenKind) (Method, bool) {
	switch k {
	case TokenGet:
		return MethodGet, true
	case TokenPut:
		return MethodPut, true
	case TokenPost:
		return MethodPost, true
	case TokenPatch:
		return MethodPatch, true
	case TokenDelete:
		return MethodDelete, true
	case TokenOptions:
		return MethodOptions, true
	case TokenHead:
		return MethodHead, true
	default:
		return 0, false
	}
}

// String renders a Method in its source spelling, e.g. as the transfer key
// in the CLI's JSON output.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "get"
	case MethodPut:
		return "put"
	case MethodPost:
		return "post"
	case MethodPatch:
		return "patch"
	case MethodDelete:
		return "delete"
	case MethodOptions:
		return "options"
	case MethodHead:
		return "head"
	default:
		return "unknown"
	}
}
