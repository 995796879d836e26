// Package stringquery parses the StringQuery language into search
// conditions: field-scoped value lists, ranges, exclusions, comparisons,
// pattern matches, and nested AND/OR groups.
package stringquery

// TokenType identifies a lexical token. The ordering matters: every kind
// up to and including TokenIdent is textual, everything after it is
// punctuation.
type TokenType int

const (
	// TokenString is a quoted or bare value.
	TokenString TokenType = iota
	// TokenIdent is a field name; the trailing ':' is consumed with it.
	TokenIdent
	TokenOpenParen
	TokenCloseParen
	TokenOpenBracket  // "[", inclusive bound marker
	TokenCloseBracket // "]", exclusive bound marker
	TokenComma
	TokenSemicolon
	TokenMinus
	TokenLower
	TokenGreater
	TokenEquals
	TokenTilde
	TokenNegate
	TokenMultiply
	TokenQuestion
	TokenEOF
)

// String renders the kind the way error messages name it.
func (t TokenType) String() string {
	switch t {
	case TokenString:
		return "value"
	case TokenIdent:
		return "field name"
	case TokenOpenParen:
		return `"("`
	case TokenCloseParen:
		return `")"`
	case TokenOpenBracket:
		return `"["`
	case TokenCloseBracket:
		return `"]"`
	case TokenComma:
		return `","`
	case TokenSemicolon:
		return `";"`
	case TokenMinus:
		return `"-"`
	case TokenLower:
		return `"<"`
	case TokenGreater:
		return `">"`
	case TokenEquals:
		return `"="`
	case TokenTilde:
		return `"~"`
	case TokenNegate:
		return `"!"`
	case TokenMultiply:
		return `"*"`
	case TokenQuestion:
		return `"?"`
	case TokenEOF:
		return "end of input"
	}
	return "unknown"
}

// Token is one lexical unit with its starting byte offset in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}
