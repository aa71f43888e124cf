package ftparser

import (
	"errors"
	"fmt"
)

// SourceError is the base type shared by LexError and ParseError.
type SourceError struct {
	Message string
	Pos     Position
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func (e *SourceError) Unwrap() error { return e.Cause }

// LexError represents a token-level error (unterminated string or comment,
// invalid escape, malformed number, unexpected character).
type LexError struct{ SourceError }

// ParseError represents a grammar-level error (unexpected token, missing
// delimiter, numeric overflow).
type ParseError struct {
	SourceError
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	var where string
	if e.Pos.Line > 0 {
		where = fmt.Sprintf("line %d, col %d: ", e.Pos.Line, e.Pos.Column)
	}
	if e.Expected == "" {
		return where + e.Message
	}
	msg := fmt.Sprintf("%sexpected %s, got %s", where, e.Expected, e.Got)
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

// ErrorPosition returns the source position carried by a LexError or
// ParseError anywhere in err's chain.
func ErrorPosition(err error) (Position, bool) {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Pos, true
	}
	return Position{}, false
}

func lexErrorf(pos Position, format string, args ...any) *LexError {
	return &LexError{SourceError{Message: fmt.Sprintf(format, args...), Pos: pos}}
}

func unexpected(tok Token, expected string) *ParseError {
	return &ParseError{
		SourceError: SourceError{Pos: tok.Pos},
		Expected:    expected,
		Got:         describe(tok),
	}
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return tok.Kind.String()
	case TokenString, TokenQuotedIdentifier:
		return fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal)
	default:
		if tok.Literal == "" {
			return tok.Kind.String()
		}
		return fmt.Sprintf("%s (%s)", tok.Kind, tok.Literal)
	}
}
