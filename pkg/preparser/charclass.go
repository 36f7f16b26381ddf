package preparser

import "unicode"

// CharClass is the coarse lexical category of a single character.
type CharClass int

const (
	ClassEOS CharClass = iota
	ClassWhitespace
	ClassDigit
	ClassLetter // letters plus % $ _ #
	ClassDot
	ClassQuote // ' and "
	ClassOpenParen
	ClassCloseParen
	ClassComma
	ClassQuestionMark
	ClassPlus
	ClassMinus
	ClassStar
	ClassSlash
	ClassAtSign
	ClassColon
	ClassLess
	ClassGreater
	ClassEquals
	ClassExclamation
	ClassPipe
	ClassOpenBrace
	ClassOpenBracket
	ClassOther
)

var charClassNames = [...]string{
	ClassEOS:          "EOS",
	ClassWhitespace:   "Whitespace",
	ClassDigit:        "Digit",
	ClassLetter:       "Letter",
	ClassDot:          "Dot",
	ClassQuote:        "Quote",
	ClassOpenParen:    "OpenParen",
	ClassCloseParen:   "CloseParen",
	ClassComma:        "Comma",
	ClassQuestionMark: "QuestionMark",
	ClassPlus:         "Plus",
	ClassMinus:        "Minus",
	ClassStar:         "Star",
	ClassSlash:        "Slash",
	ClassAtSign:       "AtSign",
	ClassColon:        "Colon",
	ClassLess:         "Less",
	ClassGreater:      "Greater",
	ClassEquals:       "Equals",
	ClassExclamation:  "Exclamation",
	ClassPipe:         "Pipe",
	ClassOpenBrace:    "OpenBrace",
	ClassOpenBracket:  "OpenBracket",
	ClassOther:        "Other",
}

// String returns a string representation of CharClass
func (c CharClass) String() string {
	if c >= 0 && int(c) < len(charClassNames) {
		return charClassNames[c]
	}
	return "Unknown"
}

// classify maps a rune onto its CharClass. eos is passed for end of input.
func classify(r rune) CharClass {
	switch r {
	case eos:
		return ClassEOS
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return ClassWhitespace
	case '.':
		return ClassDot
	case '\'', '"':
		return ClassQuote
	case '(':
		return ClassOpenParen
	case ')':
		return ClassCloseParen
	case ',':
		return ClassComma
	case '?':
		return ClassQuestionMark
	case '+':
		return ClassPlus
	case '-':
		return ClassMinus
	case '*':
		return ClassStar
	case '/':
		return ClassSlash
	case '@':
		return ClassAtSign
	case ':':
		return ClassColon
	case '<':
		return ClassLess
	case '>':
		return ClassGreater
	case '=':
		return ClassEquals
	case '!':
		return ClassExclamation
	case '|':
		return ClassPipe
	case '{':
		return ClassOpenBrace
	case '[':
		return ClassOpenBracket
	case '%', '$', '_', '#':
		return ClassLetter
	}
	switch {
	case r >= '0' && r <= '9':
		return ClassDigit
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return ClassLetter
	case r >= 0x80 && unicode.IsLetter(r):
		return ClassLetter
	case r >= 0x80 && unicode.IsSpace(r):
		return ClassWhitespace
	}
	return ClassOther
}

// isIdentChar reports whether r may continue an identifier.
func isIdentChar(r rune) bool {
	c := classify(r)
	return c == ClassLetter || c == ClassDigit
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
