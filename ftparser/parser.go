package ftparser

import (
	"fmt"
	"strings"
)

// Parse parses Figtree source text and returns the Document.
// Returns a *LexError or *ParseError on failure, in which case no document
// is returned.
func Parse(src []byte, opts ...Option) (*Document, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &parser{
		lex: NewLexer(src),
		cfg: cfg,
	}
	return p.parseDocument()
}

// ParseString is Parse for string input.
func ParseString(src string, opts ...Option) (*Document, error) {
	return Parse([]byte(src), opts...)
}

type parser struct {
	lex   *Lexer
	cfg   config
	depth int // current nesting of nodes, lists and dicts
}

func (p *parser) peek() (Token, error) {
	return p.lex.Peek()
}

func (p *parser) next() (Token, error) {
	return p.lex.Next()
}

// advance consumes the token already returned by a successful peek. The
// lexer buffers that token, so consuming it cannot fail.
func (p *parser) advance() Token {
	tok, _ := p.lex.Next()
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, unexpected(tok, kind.String())
	}
	return tok, nil
}

func (p *parser) consumeOptionalComma() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Kind == TokenComma {
		p.advance()
	}
	return nil
}

// enter records one more level of nesting opened by tok.
func (p *parser) enter(tok Token) error {
	p.depth++
	if p.depth > p.cfg.maxDepth {
		return &ParseError{SourceError: SourceError{
			Message: fmt.Sprintf("nesting exceeds the maximum depth of %d", p.cfg.maxDepth),
			Pos:     tok.Pos,
		}}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseDocument() (*Document, error) {
	doc := NewDocument()
	if err := p.parseBody(&doc.scope, TokenEOF); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseBody parses attributes and child nodes into s until the end token,
// which is left unconsumed.
func (p *parser) parseBody(s *scope, end TokenKind) error {
	expected := "attribute or node"
	if end != TokenEOF {
		expected = fmt.Sprintf("attribute, node or %s", end)
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case end:
			return nil
		case TokenString:
			if err := p.parseAttribute(s); err != nil {
				return err
			}
		case TokenIdentifier, TokenQuotedIdentifier:
			if err := p.parseNode(s); err != nil {
				return err
			}
		default:
			return unexpected(tok, expected)
		}
	}
}

// parseAttribute parses String ':' Value ','?
func (p *parser) parseAttribute(s *scope) error {
	key, err := p.parseString()
	if err != nil {
		return err
	}

	if _, err := p.expect(TokenColon); err != nil {
		return err
	}

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	s.InsertAttr(key, val)
	return p.consumeOptionalComma()
}

// parseNode parses Ident '{' Body '}'. An identifier in statement position
// always starts a node, so anything other than '{' after it is an error.
func (p *parser) parseNode(s *scope) error {
	nameTok := p.advance()

	open, err := p.expect(TokenLBrace)
	if err != nil {
		return err
	}
	if err := p.enter(open); err != nil {
		return err
	}
	defer p.leave()

	node, err := p.openNode(s, nameTok)
	if err != nil {
		return err
	}

	if err := p.parseBody(&node.scope, TokenRBrace); err != nil {
		return err
	}

	_, err = p.expect(TokenRBrace)
	return err
}

// openNode creates the node for a section according to the duplicate policy.
func (p *parser) openNode(s *scope, nameTok Token) (*Node, error) {
	name := nameTok.Literal
	switch p.cfg.duplicates {
	case DuplicateNodeMerge:
		return s.NewNodeOrGet(name), nil
	case DuplicateNodeReplace:
		return s.InsertNode(name), nil
	default:
		if s.HasNode(name) {
			return nil, &ParseError{SourceError: SourceError{
				Message: fmt.Sprintf("node %q is already defined in this scope", name),
				Pos:     nameTok.Pos,
			}}
		}
		return s.InsertNode(name), nil
	}
}

// parseString parses one or more adjacent string literals and returns their
// concatenation.
func (p *parser) parseString() (string, error) {
	tok, err := p.next()
	if err != nil {
		return "", err
	}
	if tok.Kind != TokenString {
		return "", unexpected(tok, TokenString.String())
	}

	var sb strings.Builder
	sb.WriteString(tok.Literal)
	for {
		tok, err := p.peek()
		if err != nil {
			return "", err
		}
		if tok.Kind != TokenString {
			return sb.String(), nil
		}
		p.advance()
		sb.WriteString(tok.Literal)
	}
}

func (p *parser) parseValue() (Value, error) {
	tok, err := p.peek()
	if err != nil {
		return Value{}, err
	}

	switch tok.Kind {
	case TokenString:
		s, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case TokenLBracket:
		return p.parseList()
	case TokenLBrace:
		return p.parseDict()
	case TokenBang:
		return p.parseIdentValue()
	default:
		p.advance()
		return ParseScalar(tok)
	}
}

// parseIdentValue parses '!' (Ident | QuotedIdent).
func (p *parser) parseIdentValue() (Value, error) {
	p.advance() // !

	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}
	if tok.Kind != TokenIdentifier && tok.Kind != TokenQuotedIdentifier {
		return Value{}, unexpected(tok, TokenIdentifier.String())
	}
	return IdentValue(tok.Literal), nil
}

// parseList parses '[' (Value ','?)* ']'
func (p *parser) parseList() (Value, error) {
	open := p.advance() // [
	if err := p.enter(open); err != nil {
		return Value{}, err
	}
	defer p.leave()

	items := []Value{}
	for {
		tok, err := p.peek()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == TokenRBracket {
			p.advance()
			return Value{kind: ValueList, list: items}, nil
		}

		item, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)

		if err := p.consumeOptionalComma(); err != nil {
			return Value{}, err
		}
	}
}

// parseDict parses '{' (String ':' Value ','?)* '}'
func (p *parser) parseDict() (Value, error) {
	open := p.advance() // {
	if err := p.enter(open); err != nil {
		return Value{}, err
	}
	defer p.leave()

	var entries []DictEntry
	for {
		tok, err := p.peek()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == TokenRBrace {
			p.advance()
			return DictValue(entries...), nil
		}
		if tok.Kind != TokenString {
			return Value{}, unexpected(tok, "string key or '}'")
		}

		key, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		if _, err := p.expect(TokenColon); err != nil {
			return Value{}, err
		}
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, DictEntry{Key: key, Value: val})

		if err := p.consumeOptionalComma(); err != nil {
			return Value{}, err
		}
	}
}
