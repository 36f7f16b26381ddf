package preparser

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// eos is returned by Current once the input is exhausted.
const eos rune = -1

// Scanner is a character cursor over a SQL string. It classifies the current
// character, captures lexemes between BeginLexeme and EndLexeme, and offers
// sub-scanners for the composite lexical forms of the dialect.
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	src   string
	pos   int // byte offset of the current character
	start int // byte offset where the current lexeme began
}

// CheckPoint is a saved scanner position, see CreateCheckPoint.
type CheckPoint struct {
	pos   int
	start int
}

// NewScanner returns a Scanner positioned at the first character of src.
func NewScanner(src string) *Scanner { return &Scanner{src: src} }

// Pos returns the byte offset of the current character.
func (s *Scanner) Pos() int { return s.pos }

// LexemeStart returns the byte offset where the current lexeme began.
func (s *Scanner) LexemeStart() int { return s.start }

// Current returns the current character or eos.
func (s *Scanner) Current() rune { return s.at(s.pos) }

func (s *Scanner) at(pos int) rune {
	if pos >= len(s.src) {
		return eos
	}
	if b := s.src[pos]; b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(s.src[pos:])
	return r
}

// next returns the byte offset of the character following pos.
func (s *Scanner) next(pos int) int {
	if pos >= len(s.src) {
		return pos
	}
	if s.src[pos] < utf8.RuneSelf {
		return pos + 1
	}
	_, size := utf8.DecodeRuneInString(s.src[pos:])
	return pos + size
}

// Advance moves past the current character.
func (s *Scanner) Advance() { s.pos = s.next(s.pos) }

// CurrentCharClass classifies the current character.
func (s *Scanner) CurrentCharClass() CharClass { return classify(s.Current()) }

// PeekNextToken classifies the character after the current one.
func (s *Scanner) PeekNextToken() CharClass { return classify(s.at(s.next(s.pos))) }

// PeekNextNextToken classifies the second character after the current one.
func (s *Scanner) PeekNextNextToken() CharClass {
	return classify(s.at(s.next(s.next(s.pos))))
}

func (s *Scanner) peekRune() rune { return s.at(s.next(s.pos)) }

// BeginLexeme marks the current position as the start of a lexeme.
func (s *Scanner) BeginLexeme() { s.start = s.pos }

// EndLexeme returns the text from the lexeme start to the current position.
func (s *Scanner) EndLexeme() string { return s.src[s.start:s.pos] }

// EndUpperLexeme returns the lexeme and its upper-case form.
func (s *Scanner) EndUpperLexeme() (string, string) {
	lex := s.EndLexeme()
	return lex, strings.ToUpper(lex)
}

// Text returns the source text from offset from to the current position.
func (s *Scanner) Text(from int) string { return s.src[from:s.pos] }

// CreateCheckPoint saves the scan position.
func (s *Scanner) CreateCheckPoint() CheckPoint { return CheckPoint{pos: s.pos, start: s.start} }

// RestoreCheckPoint rolls the scanner back to cp.
func (s *Scanner) RestoreCheckPoint(cp CheckPoint) {
	s.pos = cp.pos
	s.start = cp.start
}

// SkipWhitespace advances past any run of whitespace.
func (s *Scanner) SkipWhitespace() {
	for s.CurrentCharClass() == ClassWhitespace {
		s.Advance()
	}
}

// LineComment skips a "--" comment up to, not including, the line end.
func (s *Scanner) LineComment() {
	for r := s.Current(); r != eos && r != '\n' && r != '\r'; r = s.Current() {
		s.Advance()
	}
}

// Comment consumes a /* ... */ block comment and returns its full text.
// Block comments do not nest.
func (s *Scanner) Comment() (string, error) {
	s.BeginLexeme()
	s.pos += 2
	idx := strings.Index(s.src[s.pos:], "*/")
	if idx < 0 {
		s.pos = len(s.src)
		return "", NewParseError(s.start, "/*", "unterminated comment")
	}
	s.pos += idx + 2
	return s.EndLexeme(), nil
}

// Number consumes a numeric literal, including a leading sign when the
// current character is '+' or '-'. Digits, an optional fraction and an
// optional exponent are accepted.
func (s *Scanner) Number() (string, error) {
	s.BeginLexeme()
	if r := s.Current(); r == '+' || r == '-' {
		s.Advance()
	}
	digits := s.digits()
	if s.Current() == '.' {
		s.Advance()
		digits += s.digits()
	}
	if digits == 0 {
		return "", syntaxErrorf(s.start, s.EndLexeme(), "malformed numeric constant")
	}
	if r := s.Current(); r == 'e' || r == 'E' {
		cp := s.CreateCheckPoint()
		s.Advance()
		if r := s.Current(); r == '+' || r == '-' {
			s.Advance()
		}
		if s.digits() == 0 {
			// "1e" followed by a word is a number then an identifier;
			// anything else is a broken exponent.
			s.RestoreCheckPoint(cp)
			if s.PeekNextToken() != ClassLetter {
				return "", syntaxErrorf(s.start, s.src[s.start:s.next(s.pos)], "malformed numeric constant")
			}
		}
	}
	return s.EndLexeme(), nil
}

func (s *Scanner) digits() int {
	n := 0
	for s.CurrentCharClass() == ClassDigit {
		s.Advance()
		n++
	}
	return n
}

// Hex consumes a binary literal written as X'4142' or 0x4142 and returns
// the lexeme with the decoded bytes.
func (s *Scanner) Hex() (string, []byte, error) {
	s.BeginLexeme()
	quoted := s.Current() != '0'
	s.Advance()
	s.Advance()
	digitsStart := s.pos
	for isHexDigit(s.Current()) {
		s.Advance()
	}
	digits := s.src[digitsStart:s.pos]
	if quoted {
		if s.Current() != '\'' {
			if s.Current() == eos {
				return "", nil, syntaxErrorf(s.start, s.EndLexeme(), "unterminated hex literal")
			}
			return "", nil, syntaxErrorf(s.pos, string(s.Current()), "invalid character in hex literal")
		}
		s.Advance()
		if len(digits)%2 != 0 {
			return "", nil, syntaxErrorf(s.start, s.EndLexeme(), "hex literal has an odd number of digits")
		}
	} else {
		if digits == "" {
			return "", nil, syntaxErrorf(s.start, s.EndLexeme(), "hex literal has no digits")
		}
		if len(digits)%2 != 0 {
			digits = "0" + digits
		}
	}
	data, err := hex.DecodeString(digits)
	if err != nil {
		return "", nil, syntaxErrorf(s.start, s.EndLexeme(), "invalid hex literal: %v", err)
	}
	return s.EndLexeme(), data, nil
}

// String consumes a quoted lexeme delimited by the current quote character.
// Doubled quotes are escapes. Double-quoted text is a delimited identifier
// when delimitedIdentifiers is set, otherwise a string literal.
func (s *Scanner) String(delimitedIdentifiers bool) (string, TokenKind, error) {
	s.BeginLexeme()
	quote := s.Current()
	s.Advance()
	for {
		switch s.Current() {
		case eos:
			return "", TokenUnknown, syntaxErrorf(s.start, s.EndLexeme(), "unmatched quote")
		case quote:
			s.Advance()
			if s.Current() == quote {
				s.Advance()
				continue
			}
			if quote == '"' && delimitedIdentifiers {
				return s.EndLexeme(), TokenId, nil
			}
			return s.EndLexeme(), TokenConstant, nil
		default:
			s.Advance()
		}
	}
}

// Identifier consumes an identifier. Qualified names (schema.table, t.*)
// are kept together.
func (s *Scanner) Identifier() string {
	s.BeginLexeme()
	for {
		for isIdentChar(s.Current()) {
			s.Advance()
		}
		if s.Current() != '.' {
			break
		}
		switch next := s.peekRune(); {
		case isIdentChar(next):
			s.Advance()
		case next == '*':
			s.Advance()
			s.Advance()
			return s.EndLexeme()
		default:
			return s.EndLexeme()
		}
	}
	return s.EndLexeme()
}

// Variable consumes the current prefix character (':' or '@') and the name
// that follows it.
func (s *Scanner) Variable() string {
	s.BeginLexeme()
	s.Advance()
	for isIdentChar(s.Current()) {
		s.Advance()
	}
	return s.EndLexeme()
}

// Keyword consumes a run of ASCII letters and returns it upper-cased.
func (s *Scanner) Keyword() string {
	s.BeginLexeme()
	for r := s.Current(); (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'); r = s.Current() {
		s.Advance()
	}
	_, upper := s.EndUpperLexeme()
	return upper
}

// CheckForNotPredicates looks past a scanned NOT for a predicate keyword
// and, if one follows, consumes it and returns the combined lexeme.
func (s *Scanner) CheckForNotPredicates() (string, bool) {
	cp := s.CreateCheckPoint()
	s.SkipWhitespace()
	if s.CurrentCharClass() != ClassLetter {
		s.RestoreCheckPoint(cp)
		return "", false
	}
	start := s.pos
	for isIdentChar(s.Current()) {
		s.Advance()
	}
	word := strings.ToUpper(s.src[start:s.pos])
	if !isNotPredicate(word) {
		s.RestoreCheckPoint(cp)
		return "", false
	}
	return "NOT " + word, true
}

// ParseBrackets consumes a [bracketed] identifier. With delimited set the
// name is re-quoted as a "delimited" identifier.
func (s *Scanner) ParseBrackets(delimited bool) (string, error) {
	s.BeginLexeme()
	s.Advance()
	var b strings.Builder
	for {
		switch r := s.Current(); r {
		case eos:
			return "", syntaxErrorf(s.start, s.EndLexeme(), "unmatched bracket")
		case ']':
			s.Advance()
			if s.Current() == ']' {
				b.WriteRune(']')
				s.Advance()
				continue
			}
			if !delimited {
				return b.String(), nil
			}
			return `"` + strings.ReplaceAll(b.String(), `"`, `""`) + `"`, nil
		default:
			b.WriteRune(r)
			s.Advance()
		}
	}
}

// SkipToCloseBrace consumes everything up to and including the '}' that
// closes an escape sequence, honouring quoted text.
func (s *Scanner) SkipToCloseBrace() bool {
	for {
		switch r := s.Current(); r {
		case eos:
			return false
		case '}':
			s.Advance()
			return true
		case '\'', '"':
			if _, _, err := s.String(false); err != nil {
				return false
			}
		default:
			s.Advance()
		}
	}
}
