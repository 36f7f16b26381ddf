package preparser

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by errors.Is against a *ParseError.
var (
	// ErrInvalidSyntax reports a statement the scanner or resolver cannot accept.
	ErrInvalidSyntax = errors.New("invalid syntax")

	// ErrUnsupportedConstruct reports a recognised but unsupported construct.
	ErrUnsupportedConstruct = errors.New("unsupported construct")
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	InvalidSyntax ErrorKind = iota
	UnsupportedConstruct
)

// String returns a string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case InvalidSyntax:
		return "invalid syntax"
	case UnsupportedConstruct:
		return "unsupported construct"
	default:
		return "unknown"
	}
}

// ParseError represents a failure to pre-parse a statement
type ParseError struct {
	Kind    ErrorKind
	Pos     int    // byte offset in the scanned text
	Lexeme  string // offending text, may be empty
	Message string
}

func (e *ParseError) Error() string {
	if e.Lexeme != "" {
		return fmt.Sprintf("%s at offset %d near %q: %s", e.Kind, e.Pos, e.Lexeme, e.Message)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Message)
}

// Unwrap maps the error onto its sentinel so callers can use errors.Is.
func (e *ParseError) Unwrap() error {
	if e.Kind == UnsupportedConstruct {
		return ErrUnsupportedConstruct
	}
	return ErrInvalidSyntax
}

// NewParseError creates a new ParseError of kind InvalidSyntax
func NewParseError(pos int, lexeme, message string) *ParseError {
	return &ParseError{
		Kind:    InvalidSyntax,
		Pos:     pos,
		Lexeme:  lexeme,
		Message: message,
	}
}

func syntaxErrorf(pos int, lexeme, format string, args ...any) *ParseError {
	return NewParseError(pos, lexeme, fmt.Sprintf(format, args...))
}
