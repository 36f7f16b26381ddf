package preparser

import "strings"

// TokenKind is the lexical category of a Token.
type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenId
	TokenOp
	TokenNot
	TokenIs
	TokenNull
	TokenThen
	TokenElse
	TokenDatatype
	TokenStrFunction
	TokenOpenParen
	TokenCloseParen
	TokenComma
	TokenQuestionMark
	TokenAtSign
	TokenVar
	TokenHex
	TokenConstant
	TokenDts
)

var tokenKindNames = [...]string{
	TokenUnknown:      "Unknown",
	TokenId:           "Id",
	TokenOp:           "Op",
	TokenNot:          "Not",
	TokenIs:           "Is",
	TokenNull:         "Null",
	TokenThen:         "Then",
	TokenElse:         "Else",
	TokenDatatype:     "Datatype",
	TokenStrFunction:  "StrFunction",
	TokenOpenParen:    "OpenParen",
	TokenCloseParen:   "CloseParen",
	TokenComma:        "Comma",
	TokenQuestionMark: "QuestionMark",
	TokenAtSign:       "AtSign",
	TokenVar:          "Var",
	TokenHex:          "Hex",
	TokenConstant:     "Constant",
	TokenDts:          "Dts",
}

// String returns a string representation of TokenKind
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "Invalid"
}

// CastFormat describes how a replaced literal is typed on the server.
type CastFormat byte

const (
	CastNone CastFormat = iota
	CastChar
	CastInt
	CastNum
)

// String returns a string representation of CastFormat
func (c CastFormat) String() string {
	switch c {
	case CastChar:
		return "char"
	case CastInt:
		return "int"
	case CastNum:
		return "num"
	default:
		return "none"
	}
}

// Token is a single lexeme of the statement being pre-parsed.
type Token struct {
	Kind       TokenKind
	Lexeme     string // source text, original case
	Upper      string // upper-cased lexeme used for comparisons
	Pos        int    // byte offset in the scanned text, -1 for synthesized tokens
	CastFormat CastFormat
	Replaced   bool // substituted by a placeholder

	end  int    // byte offset just past the token in the scanned text
	data []byte // decoded bytes of a Hex token
}

func newToken(kind TokenKind, lexeme, upper string, pos int) *Token {
	return &Token{Kind: kind, Lexeme: lexeme, Upper: upper, Pos: pos, end: pos + len(lexeme)}
}

// synthesized returns a token that has no source position.
func synthesized(kind TokenKind, lexeme string) *Token {
	return &Token{Kind: kind, Lexeme: lexeme, Upper: strings.ToUpper(lexeme), Pos: -1, end: -1}
}

// source returns the exact text the token was scanned from.
func (t *Token) source(text string) string {
	if t.Pos < 0 || t.end > len(text) {
		return t.Lexeme
	}
	return text[t.Pos:t.end]
}

// IsParameter reports whether the token is a placeholder occurrence.
func (t *Token) IsParameter() bool {
	return t.Kind == TokenQuestionMark || t.Kind == TokenAtSign
}

// Is reports whether the token's upper-cased lexeme equals word.
func (t *Token) Is(word string) bool { return t != nil && t.Upper == word }

func (t *Token) isComment() bool {
	return t.Kind == TokenUnknown && len(t.Lexeme) >= 2 && t.Lexeme[:2] == "/*"
}

// replace turns the token into a placeholder for a parser-generated parameter.
func (t *Token) replace(cast CastFormat) {
	t.Kind = TokenQuestionMark
	t.Lexeme = "?"
	t.Upper = "?"
	t.CastFormat = cast
	t.Replaced = true
}

// TokenList is the ordered token sequence of one statement. Tokens are held
// by pointer so in-place mutation is visible through every cursor.
type TokenList struct {
	tokens []*Token
}

// Len returns the number of tokens.
func (l *TokenList) Len() int { return len(l.tokens) }

// At returns the token at index i, or nil when i is out of range.
func (l *TokenList) At(i int) *Token {
	if i < 0 || i >= len(l.tokens) {
		return nil
	}
	return l.tokens[i]
}

// Append adds t at the end of the list.
func (l *TokenList) Append(t *Token) { l.tokens = append(l.tokens, t) }

// Last returns the most recently appended token, or nil.
func (l *TokenList) Last() *Token { return l.At(len(l.tokens) - 1) }

// Insert places t at index i, shifting later tokens right.
func (l *TokenList) Insert(i int, t *Token) {
	l.tokens = append(l.tokens, nil)
	copy(l.tokens[i+1:], l.tokens[i:])
	l.tokens[i] = t
}

// Remove deletes the token at index i.
func (l *TokenList) Remove(i int) {
	l.tokens = append(l.tokens[:i], l.tokens[i+1:]...)
}

// clone returns a deep copy of the list.
func (l *TokenList) clone() *TokenList {
	c := &TokenList{tokens: make([]*Token, len(l.tokens))}
	for i, t := range l.tokens {
		cp := *t
		c.tokens[i] = &cp
	}
	return c
}

// Tokens returns the underlying slice.
func (l *TokenList) Tokens() []*Token { return l.tokens }

// Enumerator returns a cursor positioned before the first token.
func (l *TokenList) Enumerator() *Enumerator { return &Enumerator{list: l, index: -1} }

// firstSignificant returns the index of the first token that is not a block
// comment, or -1.
func (l *TokenList) firstSignificant() int {
	for i, t := range l.tokens {
		if !t.isComment() {
			return i
		}
	}
	return -1
}

// Enumerator is a bidirectional cursor over a TokenList. Clones share the
// list but move independently.
type Enumerator struct {
	list  *TokenList
	index int
}

// Current returns the token under the cursor, or nil before the first or
// after the last token.
func (e *Enumerator) Current() *Token { return e.list.At(e.index) }

// Index returns the cursor position.
func (e *Enumerator) Index() int { return e.index }

// MoveNext advances the cursor and reports whether a token is available.
func (e *Enumerator) MoveNext() bool {
	if e.index < e.list.Len() {
		e.index++
	}
	return e.index < e.list.Len()
}

// MovePrevious steps back and reports whether a token is available.
func (e *Enumerator) MovePrevious() bool {
	if e.index >= 0 {
		e.index--
	}
	return e.index >= 0
}

// Reset rewinds the cursor to before the first token.
func (e *Enumerator) Reset() { e.index = -1 }

// Seek moves the cursor to index i.
func (e *Enumerator) Seek(i int) { e.index = i }

// Clone returns an independent cursor at the same position.
func (e *Enumerator) Clone() *Enumerator { return &Enumerator{list: e.list, index: e.index} }

// Peek returns the token n positions after the cursor without moving it.
func (e *Enumerator) Peek(n int) *Token { return e.list.At(e.index + n) }
