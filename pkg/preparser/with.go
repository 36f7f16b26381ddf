package preparser

import "strings"

// maxWithPasses bounds the rewrite loop for pathological inputs.
const maxWithPasses = 32

// rewriteWith inlines the common table expressions of a leading WITH clause
// into the statement that follows it, repeating until no leading WITH is
// left. On any failure the original query is returned unchanged.
func (p *PreParser) rewriteWith(query string) string {
	text := query
	for pass := 0; ; pass++ {
		list, err := Tokenize(text, p.opts)
		if err != nil {
			p.log.Debug("WITH rewrite skipped: %v", err)
			return query
		}
		if !startsWithWith(list) {
			return text
		}
		if pass == maxWithPasses {
			p.log.Debug("WITH rewrite abandoned after %d passes", pass)
			return query
		}
		text, err = inlineWith(text, list, p.opts)
		if err != nil {
			p.log.Debug("WITH rewrite abandoned: %v", err)
			return query
		}
	}
}

func startsWithWith(list *TokenList) bool {
	i := list.firstSignificant()
	return i >= 0 && list.At(i).Is("WITH")
}

// inlineWith rewrites one WITH clause. text is the source list was scanned
// from; tokens are reproduced from their exact source text.
func inlineWith(text string, list *TokenList, opts Options) (string, error) {
	tokens := list.Tokens()
	i := list.firstSignificant() + 1
	bodies := make(map[string]string)

	for {
		name := list.At(i)
		if name == nil {
			return "", withError(list.Last(), "WITH clause has no statement")
		}
		if name.Is("RECURSIVE") {
			return "", &ParseError{Kind: UnsupportedConstruct, Pos: name.Pos, Lexeme: name.Lexeme, Message: "recursive WITH is not supported"}
		}
		if name.Kind != TokenId {
			return "", withError(name, "expected a table expression name")
		}
		i++
		if t := list.At(i); t != nil && t.Kind == TokenOpenParen {
			return "", &ParseError{Kind: UnsupportedConstruct, Pos: t.Pos, Lexeme: name.Lexeme, Message: "WITH column lists are not supported"}
		}
		if t := list.At(i); t == nil || !t.Is("AS") {
			return "", withError(name, "expected AS after table expression name")
		}
		i++
		if t := list.At(i); t == nil || t.Kind != TokenOpenParen {
			return "", withError(list.At(i-1), "expected ( after AS")
		}
		closing := matchingParen(tokens, i)
		if closing < 0 {
			return "", withError(list.At(i), "unbalanced parentheses in WITH clause")
		}

		body := joinSource(text, tokens[i+1:closing], bodies)
		if strings.HasPrefix(strings.ToUpper(body), "WITH") {
			nested, err := Tokenize(body, opts)
			if err != nil {
				return "", err
			}
			if startsWithWith(nested) {
				if body, err = inlineWith(body, nested, opts); err != nil {
					return "", err
				}
			}
		}
		bodies[name.Upper] = body

		i = closing + 1
		if t := list.At(i); t != nil && t.Kind == TokenComma {
			i++
			continue
		}
		break
	}
	if i >= len(tokens) {
		return "", withError(list.Last(), "WITH clause has no statement")
	}
	return joinSource(text, tokens[i:], bodies), nil
}

func withError(t *Token, message string) *ParseError {
	if t == nil {
		return NewParseError(0, "", message)
	}
	return NewParseError(t.Pos, t.Lexeme, message)
}

// matchingParen returns the index of the parenthesis closing tokens[open],
// or -1.
func matchingParen(tokens []*Token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case TokenOpenParen:
			depth++
		case TokenCloseParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// joinSource reproduces tokens separated by single spaces, replacing every
// table reference to a captured expression by its parenthesised body.
func joinSource(text string, tokens []*Token, bodies map[string]string) string {
	var b strings.Builder
	for i, t := range tokens {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		body, ok := bodies[t.Upper]
		if !ok || t.Kind != TokenId || i == 0 || !isTableReferenceStart(tokens[i-1]) {
			b.WriteString(t.source(text))
			continue
		}
		b.WriteString("( ")
		b.WriteString(body)
		b.WriteString(" )")
		if i+1 < len(tokens) && hasAlias(tokens[i+1]) {
			continue
		}
		b.WriteString(" AS ")
		b.WriteString(t.source(text))
	}
	return b.String()
}

func isTableReferenceStart(t *Token) bool {
	return t.Is("FROM") || t.Is("JOIN")
}

// hasAlias reports whether t starts an alias for the preceding table
// reference.
func hasAlias(t *Token) bool {
	if t.Is("AS") {
		return true
	}
	if t.Kind != TokenId {
		return false
	}
	switch t.Upper {
	case "WHERE", "JOIN", "INNER", "LEFT", "RIGHT", "FULL", "OUTER", "CROSS", "ON",
		"GROUP", "ORDER", "HAVING", "UNION", "EXCEPT", "INTERSECT", "LIMIT", "USING", "WITH":
		return false
	}
	return true
}
