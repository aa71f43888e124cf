package ftparser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Lexer tokenizes Figtree source text into a stream of tokens. Tokens are
// scanned on demand; at most one token is buffered by Peek.
type Lexer struct {
	src    []byte
	pos    int // current byte offset
	line   int // current line (1-based)
	col    int // current column in code points (1-based)
	peeked *Token
}

// NewLexer creates a new Lexer for the given source bytes.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &tok
	return tok, nil
}

// Next returns the next token and advances the lexer. Once the input is
// exhausted every call returns a TokenEOF.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.scan()
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// byteAt returns the byte n positions ahead, or 0 past the end.
func (l *Lexer) byteAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) peekRune() rune {
	if l.atEnd() {
		return utf8.RuneError
	}
	if b := l.src[l.pos]; b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(l.src[l.pos:])
	return r
}

// badEncoding reports whether the bytes at the current offset are not valid
// UTF-8. A correctly encoded U+FFFD is not a bad encoding.
func (l *Lexer) badEncoding() bool {
	if l.atEnd() || l.src[l.pos] < utf8.RuneSelf {
		return false
	}
	r, size := utf8.DecodeRune(l.src[l.pos:])
	return r == utf8.RuneError && size == 1
}

func (l *Lexer) invalidEncoding() error {
	return lexErrorf(l.currentPos(), "invalid UTF-8 encoding")
}

func (l *Lexer) advance() rune {
	r, size := rune(l.src[l.pos]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRune(l.src[l.pos:])
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.atEnd() {
		switch {
		case unicode.IsSpace(l.peekRune()):
			l.advance()
		case l.byteAt(0) == '/' && l.byteAt(1) == '/':
			for !l.atEnd() && l.byteAt(0) != '\n' {
				l.advance()
			}
		case l.byteAt(0) == '/' && l.byteAt(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skipBlockComment consumes a /* */ comment. Block comments nest, so the
// comment only ends once every opening /* has been closed.
func (l *Lexer) skipBlockComment() error {
	startPos := l.currentPos()
	l.advance() // consume /
	l.advance() // consume *
	depth := 1
	for depth > 0 {
		if l.atEnd() {
			return lexErrorf(startPos, "unterminated block comment")
		}
		switch {
		case l.byteAt(0) == '/' && l.byteAt(1) == '*':
			l.advance()
			l.advance()
			depth++
		case l.byteAt(0) == '*' && l.byteAt(1) == '/':
			l.advance()
			l.advance()
			depth--
		default:
			l.advance()
		}
	}
	return nil
}

func (l *Lexer) scan() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	if l.atEnd() {
		return Token{Kind: TokenEOF, Pos: l.currentPos()}, nil
	}

	pos := l.currentPos()
	ch := l.byteAt(0)

	// Single-character tokens
	switch ch {
	case '{':
		l.advance()
		return Token{Kind: TokenLBrace, Literal: "{", Pos: pos}, nil
	case '}':
		l.advance()
		return Token{Kind: TokenRBrace, Literal: "}", Pos: pos}, nil
	case '[':
		l.advance()
		return Token{Kind: TokenLBracket, Literal: "[", Pos: pos}, nil
	case ']':
		l.advance()
		return Token{Kind: TokenRBracket, Literal: "]", Pos: pos}, nil
	case ':':
		l.advance()
		return Token{Kind: TokenColon, Literal: ":", Pos: pos}, nil
	case ',':
		l.advance()
		return Token{Kind: TokenComma, Literal: ",", Pos: pos}, nil
	case '!':
		l.advance()
		return Token{Kind: TokenBang, Literal: "!", Pos: pos}, nil
	case '"', '\'':
		return l.scanString(ch)
	case '`':
		return l.scanQuotedIdentifier()
	case '+', '-':
		next := l.byteAt(1)
		if isDigit(next) || (next == '.' && isDigit(l.byteAt(2))) {
			return l.scanNumber()
		}
	case '.':
		if isDigit(l.byteAt(1)) {
			return l.scanNumber()
		}
	}

	if isDigit(ch) {
		return l.scanNumber()
	}

	if l.badEncoding() {
		return Token{}, l.invalidEncoding()
	}
	r := l.peekRune()
	if isIdentStart(r) {
		return l.scanIdentifier()
	}

	l.advance()
	return Token{}, lexErrorf(pos, "unexpected character %q", r)
}

func (l *Lexer) scanString(quote byte) (Token, error) {
	pos := l.currentPos()
	l.advance() // consume opening quote

	var sb strings.Builder
	for {
		if l.atEnd() {
			return Token{}, lexErrorf(pos, "unterminated string")
		}
		switch r := l.peekRune(); r {
		case rune(quote):
			l.advance()
			return Token{Kind: TokenString, Literal: sb.String(), Pos: pos}, nil
		case '\n':
			return Token{}, lexErrorf(pos, "unterminated string: newline in string literal")
		case '\\':
			escPos := l.currentPos()
			l.advance()
			if l.atEnd() {
				return Token{}, lexErrorf(pos, "unterminated string")
			}
			if err := l.scanEscape(&sb, escPos); err != nil {
				return Token{}, err
			}
		default:
			if l.badEncoding() {
				return Token{}, l.invalidEncoding()
			}
			sb.WriteRune(l.advance())
		}
	}
}

// scanEscape decodes the escape sequence following a backslash.
func (l *Lexer) scanEscape(sb *strings.Builder, escPos Position) error {
	esc := l.advance()
	switch esc {
	case '\\', '"', '\'', '/':
		sb.WriteRune(esc)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case 'u':
		r, err := l.scanUnicodeEscape(escPos)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	default:
		return lexErrorf(escPos, "invalid escape sequence %q", `\`+string(esc))
	}
	return nil
}

// scanUnicodeEscape reads the code point of a \uXXXX or \u{X...} escape.
func (l *Lexer) scanUnicodeEscape(escPos Position) (rune, error) {
	braced := l.byteAt(0) == '{'
	if braced {
		l.advance()
	}

	start := l.pos
	for !l.atEnd() && isHexDigit(l.byteAt(0)) && (braced || l.pos-start < 4) {
		l.advance()
	}
	digits := string(l.src[start:l.pos])

	switch {
	case braced && (len(digits) == 0 || len(digits) > 6 || l.byteAt(0) != '}'):
		return 0, lexErrorf(escPos, "invalid unicode escape: expected 1 to 6 hex digits in braces")
	case !braced && len(digits) != 4:
		return 0, lexErrorf(escPos, "invalid unicode escape: expected 4 hex digits")
	}
	if braced {
		l.advance() // consume }
	}

	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, lexErrorf(escPos, "invalid unicode escape: U+%s is not a valid code point", strings.ToUpper(digits))
	}
	return rune(n), nil
}

// scanQuotedIdentifier reads a backtick-delimited identifier. The content is
// taken verbatim apart from \` and \\.
func (l *Lexer) scanQuotedIdentifier() (Token, error) {
	pos := l.currentPos()
	l.advance() // consume opening `

	var sb strings.Builder
	for {
		if l.atEnd() || l.byteAt(0) == '\n' {
			return Token{}, lexErrorf(pos, "unterminated quoted identifier")
		}
		if l.badEncoding() {
			return Token{}, l.invalidEncoding()
		}
		r := l.advance()
		switch {
		case r == '`':
			if sb.Len() == 0 {
				return Token{}, lexErrorf(pos, "empty quoted identifier")
			}
			return Token{Kind: TokenQuotedIdentifier, Literal: sb.String(), Pos: pos}, nil
		case r == '\\' && (l.byteAt(0) == '`' || l.byteAt(0) == '\\'):
			sb.WriteRune(l.advance())
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *Lexer) scanNumber() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	if ch := l.byteAt(0); ch == '+' || ch == '-' {
		l.advance()
	}

	if l.byteAt(0) == '0' {
		if base := basePrefix(l.byteAt(1)); base != 0 {
			l.advance()
			l.advance()
			if !l.scanDigits(base) {
				return Token{}, lexErrorf(pos, "invalid numeric literal %q: no digits after base prefix", string(l.src[start:l.pos]))
			}
			return l.finishNumber(pos, start, TokenInteger, base)
		}
	}

	kind := TokenInteger
	if l.byteAt(0) == '.' {
		l.advance()
		l.scanDigits(10)
		kind = TokenFloat
	} else {
		l.scanDigits(10)
		if l.byteAt(0) == '.' {
			l.advance()
			l.scanDigits(10) // fractional part may be empty, as in 8.
			kind = TokenFloat
		}
	}

	if ch := l.byteAt(0); ch == 'e' || ch == 'E' {
		l.advance()
		if ch := l.byteAt(0); ch == '+' || ch == '-' {
			l.advance()
		}
		if !l.scanDigits(10) {
			return Token{}, lexErrorf(pos, "invalid numeric literal %q: missing exponent digits", string(l.src[start:l.pos]))
		}
		kind = TokenFloat
	}

	return l.finishNumber(pos, start, kind, 10)
}

// finishNumber rejects numbers that run straight into letters, stray digits
// or another dot, such as 12abc, 0b102 or 1.2.3.
func (l *Lexer) finishNumber(pos Position, start int, kind TokenKind, base int) (Token, error) {
	if !l.atEnd() {
		if r := l.peekRune(); r == '.' || isIdentContinue(r) {
			l.advance()
			return Token{}, lexErrorf(pos, "invalid numeric literal %q", string(l.src[start:l.pos]))
		}
	}

	tok := Token{Kind: kind, Literal: string(l.src[start:l.pos]), Pos: pos}
	if kind == TokenInteger {
		tok.Base = base
	}
	return tok, nil
}

// scanDigits consumes a run of digits in the given base. Underscores are
// accepted as separators after the first digit. It reports whether any digit
// was consumed.
func (l *Lexer) scanDigits(base int) bool {
	if l.atEnd() || !isBaseDigit(l.byteAt(0), base) {
		return false
	}
	for !l.atEnd() && (isBaseDigit(l.byteAt(0), base) || l.byteAt(0) == '_') {
		l.advance()
	}
	return true
}

func (l *Lexer) scanIdentifier() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	for !l.atEnd() {
		if l.badEncoding() {
			return Token{}, l.invalidEncoding()
		}
		if !isIdentContinue(l.peekRune()) {
			break
		}
		l.advance()
	}

	literal := norm.NFC.String(string(l.src[start:l.pos]))

	if kind, ok := keywords[literal]; ok {
		return Token{Kind: kind, Literal: literal, Pos: pos}, nil
	}

	return Token{Kind: TokenIdentifier, Literal: literal, Pos: pos}, nil
}

func basePrefix(ch byte) int {
	switch ch {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	case 'd', 'D':
		return 10
	}
	return 0
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isBaseDigit(ch byte, base int) bool {
	switch base {
	case 2:
		return ch == '0' || ch == '1'
	case 8:
		return ch >= '0' && ch <= '7'
	case 16:
		return isHexDigit(ch)
	default:
		return isDigit(ch)
	}
}

// isIdentStart accepts letters in any script, combining marks, connector
// punctuation such as _ and symbol runes, which covers emoji.
func isIdentStart(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
	}
	return unicode.IsLetter(r) || unicode.In(r, unicode.M, unicode.Pc, unicode.So)
}

func isIdentContinue(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStart(r) || isDigit(byte(r))
	}
	// U+200D joins emoji sequences; Sk covers skin tone modifiers.
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Sk, r) || r == '\u200d'
}
