package stringquery

import "strings"

// Lexer tokenizes StringQuery input. It keeps a single lookahead token;
// Glimpse peeks one token further without consuming, which the parser
// needs to tell a bare value from the lower bound of a range.
type Lexer struct {
	input string
	pos   int
	look  Token
	cur   Token
}

// newLexer primes the lookahead with the first token. An immediate
// lexical error (an input starting with an unterminated string) is
// returned here.
func newLexer(input string) (*Lexer, error) {
	l := &Lexer{input: input}
	tok, err := l.scan()
	if err != nil {
		return nil, err
	}
	l.look = tok
	return l, nil
}

// Peek returns the kind of the lookahead token.
func (l *Lexer) Peek() TokenType { return l.look.Type }

// PeekToken returns the lookahead token without consuming it.
func (l *Lexer) PeekToken() Token { return l.look }

// Current returns the most recently consumed token.
func (l *Lexer) Current() Token { return l.cur }

// Advance consumes the lookahead and scans the next token behind it.
func (l *Lexer) Advance() error {
	l.cur = l.look
	tok, err := l.scan()
	if err != nil {
		return err
	}
	l.look = tok
	return nil
}

// Glimpse reports whether the token after the lookahead has the given
// kind. The scan position is restored, so the stream is unaffected.
func (l *Lexer) Glimpse(tt TokenType) bool {
	save := l.pos
	tok, err := l.scan()
	l.pos = save
	return err == nil && tok.Type == tt
}

func (l *Lexer) scan() (Token, error) {
	l.skipWhitespace()
	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: start}, nil
	}

	ch := l.input[l.pos]
	if tt, ok := punctuation(ch); ok {
		l.pos++
		return Token{Type: tt, Value: string(ch), Pos: start}, nil
	}
	if ch == '"' {
		return l.scanQuoted()
	}
	return l.scanBare(), nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

// scanQuoted reads a double-quoted string. A doubled quote inside the
// string is an escaped literal quote and does not terminate it.
func (l *Lexer) scanQuoted() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '"' {
				b.WriteByte('"')
				l.pos += 2
				continue
			}
			l.pos++
			return Token{Type: TokenString, Value: b.String(), Pos: start}, nil
		}
		b.WriteByte(ch)
		l.pos++
	}
	return Token{}, &ConditionError{Message: "unterminated string", Pos: start}
}

// scanBare reads an unquoted run up to whitespace, punctuation, or ':'.
// A run followed by ':' is a field identifier; the colon is consumed as
// part of the token.
func (l *Lexer) scanBare() Token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isSpace(ch) || ch == ':' || ch == '"' {
			break
		}
		if _, ok := punctuation(ch); ok {
			break
		}
		l.pos++
	}
	value := l.input[start:l.pos]

	rest := l.pos
	for rest < len(l.input) && isSpace(l.input[rest]) {
		rest++
	}
	if rest < len(l.input) && l.input[rest] == ':' {
		l.pos = rest + 1
		return Token{Type: TokenIdent, Value: value, Pos: start}
	}
	return Token{Type: TokenString, Value: value, Pos: start}
}

func punctuation(ch byte) (TokenType, bool) {
	switch ch {
	case '(':
		return TokenOpenParen, true
	case ')':
		return TokenCloseParen, true
	case '[':
		return TokenOpenBracket, true
	case ']':
		return TokenCloseBracket, true
	case ',':
		return TokenComma, true
	case ';':
		return TokenSemicolon, true
	case '-':
		return TokenMinus, true
	case '<':
		return TokenLower, true
	case '>':
		return TokenGreater, true
	case '=':
		return TokenEquals, true
	case '~':
		return TokenTilde, true
	case '!':
		return TokenNegate, true
	case '*':
		return TokenMultiply, true
	case '?':
		return TokenQuestion, true
	}
	return 0, false
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
