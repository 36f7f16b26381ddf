package preparser

import "strings"

// Span is one statement of a script.
type Span struct {
	Text string
	Pos  int // byte offset of Text in the script
}

// SplitStatements splits a script on semicolons that are outside quotes,
// [brackets] and comments. Empty statements are dropped and the text of each
// statement is trimmed.
func SplitStatements(src string) []Span {
	var spans []Span
	s := NewScanner(src)
	start := 0
	flush := func(end int) {
		text := src[start:end]
		trimmed := strings.TrimSpace(text)
		if trimmed != "" {
			spans = append(spans, Span{Text: trimmed, Pos: start + strings.Index(text, trimmed)})
		}
	}
	for s.Current() != eos {
		switch r := s.Current(); {
		case r == ';':
			flush(s.Pos())
			s.Advance()
			start = s.Pos()
		case r == '\'' || r == '"':
			if _, _, err := s.String(false); err != nil {
				s.pos = len(src)
			}
		case r == '[':
			if _, err := s.ParseBrackets(false); err != nil {
				s.pos = len(src)
			}
		case r == '-' && s.peekRune() == '-':
			s.LineComment()
		case r == '/' && s.peekRune() == '*':
			if _, err := s.Comment(); err != nil {
				s.pos = len(src)
			}
		default:
			s.Advance()
		}
	}
	flush(len(src))
	return spans
}
