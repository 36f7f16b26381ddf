package discovery

import (
	"strings"

	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// SplitFile splits the content of a workload file into statements with their
// line and column positions. Statements made only of comments are dropped.
func SplitFile(name, content string) []Statement {
	spans := preparser.SplitStatements(content)
	statements := make([]Statement, 0, len(spans))
	line, lineStart, scanned := 1, 0, 0
	for _, span := range spans {
		// advance the line counter up to the start of the span
		for i := scanned; i < span.Pos; i++ {
			if content[i] == '\n' {
				line++
				lineStart = i + 1
			}
		}
		scanned = span.Pos
		if IsBlank(span.Text) {
			continue
		}
		statements = append(statements, Statement{
			File:   name,
			Line:   line,
			Column: len([]rune(content[lineStart:span.Pos])) + 1,
			Offset: span.Pos,
			Text:   span.Text,
		})
	}
	return statements
}

// IsBlank reports whether a statement holds nothing but comments
func IsBlank(text string) bool {
	list, err := preparser.Tokenize(text, preparser.Options{})
	if err != nil {
		return false
	}
	for _, t := range list.Tokens() {
		if t.Kind != preparser.TokenUnknown || !strings.HasPrefix(t.Lexeme, "/*") {
			return false
		}
	}
	return true
}
