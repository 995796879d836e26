package stringquery

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/searchkit/stringquery/search"
)

// Processor turns StringQuery input into search conditions resolved
// against one field set. A Processor is immutable and safe for
// concurrent use: every Process call owns its own lexer, parse state,
// and error collector.
type Processor struct {
	cfg    Config
	fields *search.FieldSet
}

func NewProcessor(cfg Config, fields *search.FieldSet) *Processor {
	return &Processor{cfg: cfg.withDefaults(), fields: fields}
}

// Process parses one query. Blank input yields an empty condition.
//
// Failure modes follow a two-tier model: the first structural or syntax
// error (malformed tokens, unknown field, exceeded nesting or group
// limit) aborts immediately, is reported alone, and yields a nil
// condition. Semantic errors (rejected values, inverted ranges,
// per-field overflow) accumulate while parsing continues; they are
// reported together at the end, alongside the partially built
// condition holding every accepted entry. Use ErrorReport to recover
// the individual entries.
func (pr *Processor) Process(input string) (*search.Condition, error) {
	if !utf8.ValidString(input) {
		return nil, &ConditionError{Message: "input is not valid UTF-8", Pos: -1}
	}
	p := &parser{
		cfg:        pr.cfg,
		fields:     pr.fields,
		labels:     pr.fields.Labels(),
		errs:       &errorCollector{},
		groupCount: make(map[string]int),
	}
	root, err := p.parse(strings.TrimSpace(input))
	if err != nil {
		return nil, err
	}
	cond := &search.Condition{FieldSet: pr.fields, Root: root}
	return cond, p.errs.err()
}

// parser is the per-call recursive-descent engine. It is single-use.
type parser struct {
	cfg        Config
	fields     *search.FieldSet
	labels     map[string]string
	lex        *Lexer
	errs       *errorCollector
	nesting    int
	groupCount map[string]int
}

func (p *parser) parse(input string) (*search.Group, error) {
	if input == "" {
		return search.NewGroup(search.ModeAnd), nil
	}
	lex, err := newLexer(input)
	if err != nil {
		return nil, err
	}
	p.lex = lex

	// A leading "*" that does not open a group switches the whole
	// query to OR logic.
	mode := search.ModeAnd
	if p.lex.Peek() == TokenMultiply && !p.lex.Glimpse(TokenOpenParen) {
		if err := p.lex.Advance(); err != nil {
			return nil, err
		}
		mode = search.ModeOr
	}

	root := search.NewGroup(mode)
	if err := p.parseFieldValuesPairs(root, ""); err != nil {
		return nil, err
	}
	if p.lex.Peek() != TokenEOF {
		return nil, p.expectedError(`"("`, "field name")
	}
	return root, nil
}

// parseFieldValuesPairs fills a group with field constraints and
// sub-groups until the enclosing ")" or the end of input.
func (p *parser) parseFieldValuesPairs(group *search.Group, path string) error {
	for {
		switch p.lex.Peek() {
		case TokenEOF, TokenCloseParen:
			return nil
		case TokenMultiply, TokenOpenParen:
			if err := p.parseGroup(group, path); err != nil {
				return err
			}
		case TokenIdent:
			if err := p.parseFieldValues(group, path); err != nil {
				return err
			}
		default:
			return p.expectedError(`"("`, "field name")
		}
	}
}

func (p *parser) parseGroup(parent *search.Group, path string) error {
	pos := p.lex.PeekToken().Pos
	idx := p.groupCount[path]
	childPath := path + "[" + strconv.Itoa(idx) + "]"
	if idx >= p.cfg.MaxGroupCount {
		return &ConditionError{
			Message: fmt.Sprintf("group count exceeds the maximum of %d", p.cfg.MaxGroupCount),
			Path:    childPath,
			Pos:     pos,
		}
	}
	if p.nesting+1 > p.cfg.MaxNestingLevel {
		return &ConditionError{
			Message: fmt.Sprintf("nesting level exceeds the maximum of %d", p.cfg.MaxNestingLevel),
			Path:    childPath,
			Pos:     pos,
		}
	}
	p.groupCount[path] = idx + 1

	mode := search.ModeAnd
	if p.lex.Peek() == TokenMultiply {
		if err := p.lex.Advance(); err != nil {
			return err
		}
		mode = search.ModeOr
	}
	if _, err := p.match(TokenOpenParen); err != nil {
		return err
	}

	child := search.NewGroup(mode)
	p.nesting++
	if err := p.parseFieldValuesPairs(child, childPath); err != nil {
		return err
	}
	p.nesting--
	if _, err := p.match(TokenCloseParen); err != nil {
		return err
	}
	if err := p.skipSemicolon(); err != nil {
		return err
	}
	parent.AddGroup(child)
	return nil
}

func (p *parser) parseFieldValues(group *search.Group, path string) error {
	tok, err := p.match(TokenIdent)
	if err != nil {
		return err
	}
	name, ok := p.labels[tok.Value]
	if !ok {
		return &ConditionError{
			Message: fmt.Sprintf("unknown field %q", tok.Value),
			Field:   tok.Value,
			Path:    path,
			Pos:     tok.Pos,
		}
	}
	if group.HasField(name) {
		return &ConditionError{
			Message: "field appears more than once in the same group",
			Field:   name,
			Path:    path,
			Pos:     tok.Pos,
		}
	}
	field, _ := p.fields.Field(name)

	max := p.cfg.MaxValuesPerField
	if field.MaxValues > 0 {
		max = field.MaxValues
	}
	b := newBagBuilder(field, max, path, p.errs)

	if err := p.parseValuePart(b); err != nil {
		return err
	}
	for p.lex.Peek() == TokenComma {
		if err := p.lex.Advance(); err != nil {
			return err
		}
		if err := p.parseValuePart(b); err != nil {
			return err
		}
	}
	if err := p.skipSemicolon(); err != nil {
		return err
	}
	return group.AddField(name, b.bag)
}

func (p *parser) parseValuePart(b *bagBuilder) error {
	switch p.lex.Peek() {
	case TokenNegate:
		if err := p.lex.Advance(); err != nil {
			return err
		}
		return p.parseExcluded(b)
	case TokenOpenBracket, TokenCloseBracket:
		return p.parseRange(b, false)
	case TokenString:
		// A value followed by "-" is the lower bound of a range.
		if p.lex.Glimpse(TokenMinus) {
			return p.parseRange(b, false)
		}
		tok, err := p.match(TokenString)
		if err != nil {
			return err
		}
		b.addSimpleValue(tok)
		return nil
	case TokenLower, TokenGreater:
		return p.parseComparison(b)
	case TokenTilde:
		return p.parsePatternMatch(b)
	default:
		return p.expectedError("value", "range", "comparison", "pattern match")
	}
}

// parseExcluded handles the "!" prefix: an excluded value or range.
func (p *parser) parseExcluded(b *bagBuilder) error {
	switch p.lex.Peek() {
	case TokenOpenBracket, TokenCloseBracket:
		return p.parseRange(b, true)
	case TokenString:
		if p.lex.Glimpse(TokenMinus) {
			return p.parseRange(b, true)
		}
		tok, err := p.match(TokenString)
		if err != nil {
			return err
		}
		b.addExcludedValue(tok)
		return nil
	default:
		return p.expectedError("value", "range")
	}
}

// parseRange reads `["|"]`? lower "-" upper `["|"]`?. Bounds default to
// inclusive; "]" before the lower bound and "[" after the upper bound
// mark the respective bound exclusive.
func (p *parser) parseRange(b *bagBuilder, excluded bool) error {
	lowerIncl := true
	switch p.lex.Peek() {
	case TokenOpenBracket:
		if err := p.lex.Advance(); err != nil {
			return err
		}
	case TokenCloseBracket:
		if err := p.lex.Advance(); err != nil {
			return err
		}
		lowerIncl = false
	}

	lower, err := p.match(TokenString)
	if err != nil {
		return err
	}
	if _, err := p.match(TokenMinus); err != nil {
		return err
	}
	upper, err := p.match(TokenString)
	if err != nil {
		return err
	}

	upperIncl := true
	switch p.lex.Peek() {
	case TokenCloseBracket:
		if err := p.lex.Advance(); err != nil {
			return err
		}
	case TokenOpenBracket:
		if err := p.lex.Advance(); err != nil {
			return err
		}
		upperIncl = false
	}

	if excluded {
		b.addExcludedRange(lower, upper, lowerIncl, upperIncl)
	} else {
		b.addRange(lower, upper, lowerIncl, upperIncl)
	}
	return nil
}

// parseComparison composes the two-character operators "<=", "<>" and
// ">=" from their single-character tokens.
func (p *parser) parseComparison(b *bagBuilder) error {
	var op search.CompareOp
	switch p.lex.Peek() {
	case TokenLower:
		if err := p.lex.Advance(); err != nil {
			return err
		}
		switch p.lex.Peek() {
		case TokenEquals:
			if err := p.lex.Advance(); err != nil {
				return err
			}
			op = search.CompareLTE
		case TokenGreater:
			if err := p.lex.Advance(); err != nil {
				return err
			}
			op = search.CompareNEQ
		default:
			op = search.CompareLT
		}
	case TokenGreater:
		if err := p.lex.Advance(); err != nil {
			return err
		}
		if p.lex.Peek() == TokenEquals {
			if err := p.lex.Advance(); err != nil {
				return err
			}
			op = search.CompareGTE
		} else {
			op = search.CompareGT
		}
	}
	tok, err := p.match(TokenString)
	if err != nil {
		return err
	}
	b.addComparison(op, tok)
	return nil
}

// parsePatternMatch reads "~" ("i")? ("!")? op value. The "i" flag makes
// the match case insensitive; "!" negates the operator, one level only.
func (p *parser) parsePatternMatch(b *bagBuilder) error {
	if _, err := p.match(TokenTilde); err != nil {
		return err
	}
	caseInsensitive := false
	if p.lex.Peek() == TokenString && p.lex.PeekToken().Value == "i" {
		if err := p.lex.Advance(); err != nil {
			return err
		}
		caseInsensitive = true
	}
	negated := false
	if p.lex.Peek() == TokenNegate {
		if err := p.lex.Advance(); err != nil {
			return err
		}
		negated = true
	}

	var op search.PatternOp
	switch p.lex.Peek() {
	case TokenMultiply:
		op = search.PatternContains
	case TokenGreater:
		op = search.PatternStartsWith
	case TokenLower:
		op = search.PatternEndsWith
	case TokenQuestion:
		op = search.PatternRegex
	case TokenEquals:
		op = search.PatternEquals
	default:
		return p.expectedError(`"*"`, `">"`, `"<"`, `"?"`, `"="`)
	}
	if err := p.lex.Advance(); err != nil {
		return err
	}
	if negated {
		op = op.Negated()
	}

	tok, err := p.match(TokenString)
	if err != nil {
		return err
	}
	b.addPatternMatch(op, tok, caseInsensitive)
	return nil
}

// skipSemicolon consumes at most one statement-terminating semicolon.
func (p *parser) skipSemicolon() error {
	if p.lex.Peek() == TokenSemicolon {
		return p.lex.Advance()
	}
	return nil
}

// match consumes the lookahead when it has the expected kind and returns
// it. Expecting a field name also accepts the textual kinds below it in
// the token ordering.
func (p *parser) match(tt TokenType) (Token, error) {
	look := p.lex.PeekToken()
	ok := look.Type == tt
	if !ok && tt == TokenIdent {
		ok = look.Type < TokenIdent
	}
	if !ok {
		return Token{}, p.expectedError(tt.String())
	}
	if err := p.lex.Advance(); err != nil {
		return Token{}, err
	}
	return p.lex.Current(), nil
}

func (p *parser) expectedError(expected ...string) error {
	look := p.lex.PeekToken()
	got := fmt.Sprintf("%q", look.Value)
	if look.Type == TokenEOF {
		got = "end of input"
	}
	return &ConditionError{
		Message: fmt.Sprintf("expected %s, got %s", strings.Join(expected, " or "), got),
		Pos:     look.Pos,
	}
}
