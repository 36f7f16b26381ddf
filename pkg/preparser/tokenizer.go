package preparser

import "strings"

// tokenizer drives a Scanner over one statement and collects its tokens.
type tokenizer struct {
	s    *Scanner
	opts Options
	list *TokenList
}

// Tokenize splits src into tokens. Whitespace and line comments are dropped,
// block comments are kept as Unknown tokens.
func Tokenize(src string, opts Options) (*TokenList, error) {
	t := &tokenizer{s: NewScanner(src), opts: opts, list: &TokenList{}}
	for {
		t.s.SkipWhitespace()
		class := t.s.CurrentCharClass()
		if class == ClassEOS {
			return t.list, nil
		}
		if err := t.dispatch(class); err != nil {
			return nil, err
		}
	}
}

func (t *tokenizer) dispatch(class CharClass) error {
	s := t.s
	switch class {
	case ClassOpenParen:
		t.single(TokenOpenParen)
	case ClassCloseParen:
		t.single(TokenCloseParen)
	case ClassComma:
		t.single(TokenComma)
	case ClassQuestionMark:
		t.single(TokenQuestionMark)
	case ClassDot:
		if s.PeekNextToken() == ClassDigit {
			return t.number()
		}
		t.single(TokenUnknown)
	case ClassDigit:
		if r := s.peekRune(); s.Current() == '0' && (r == 'x' || r == 'X') && isHexDigit(s.at(s.next(s.next(s.pos)))) {
			return t.hex()
		}
		return t.number()
	case ClassMinus:
		switch s.peekRune() {
		case '-':
			s.LineComment()
			return nil
		case '>':
			t.pair(TokenOp)
			return nil
		}
		return t.sign()
	case ClassPlus:
		return t.sign()
	case ClassQuote:
		return t.quoted()
	case ClassSlash:
		if s.peekRune() == '*' {
			pos := s.Pos()
			lex, err := s.Comment()
			if err != nil {
				return err
			}
			t.emit(TokenUnknown, lex, lex, pos)
			return nil
		}
		t.single(TokenOp)
	case ClassAtSign:
		return t.atSign()
	case ClassColon:
		pos := s.Pos()
		lex := s.Variable()
		if len(lex) == 1 {
			t.emit(TokenUnknown, lex, lex, pos)
			return nil
		}
		t.emit(TokenVar, lex, strings.ToUpper(lex), pos)
	case ClassLetter:
		return t.word()
	case ClassLess:
		if r := s.peekRune(); r == '=' || r == '>' {
			t.pair(TokenOp)
			return nil
		}
		t.single(TokenOp)
	case ClassGreater, ClassEquals:
		if s.peekRune() == '=' {
			t.pair(TokenOp)
			return nil
		}
		t.single(TokenOp)
	case ClassExclamation:
		if s.peekRune() == '=' {
			t.pair(TokenOp)
			return nil
		}
		t.single(TokenUnknown)
	case ClassPipe:
		if s.peekRune() == '|' {
			t.pair(TokenOp)
			return nil
		}
		t.single(TokenUnknown)
	case ClassStar:
		t.single(TokenOp)
	case ClassOpenBracket:
		if !t.opts.BracketSubstitution {
			t.single(TokenUnknown)
			return nil
		}
		pos := s.Pos()
		name, err := s.ParseBrackets(t.opts.DelimitedIdentifiers)
		if err != nil {
			return err
		}
		t.emitTo(TokenId, name, strings.ToUpper(name), pos, s.Pos())
	case ClassOpenBrace:
		return t.brace()
	default:
		t.single(TokenUnknown)
	}
	return nil
}

func (t *tokenizer) emit(kind TokenKind, lexeme, upper string, pos int) {
	t.emitTo(kind, lexeme, upper, pos, t.s.Pos())
}

func (t *tokenizer) emitTo(kind TokenKind, lexeme, upper string, pos, end int) {
	tok := newToken(kind, lexeme, upper, pos)
	tok.end = end
	t.list.Append(tok)
}

// single emits the current character as a token of the given kind.
func (t *tokenizer) single(kind TokenKind) {
	s := t.s
	s.BeginLexeme()
	s.Advance()
	lex := s.EndLexeme()
	t.emit(kind, lex, lex, s.LexemeStart())
}

// pair emits the current and the next character as one token.
func (t *tokenizer) pair(kind TokenKind) {
	s := t.s
	s.BeginLexeme()
	s.Advance()
	s.Advance()
	lex := s.EndLexeme()
	t.emit(kind, lex, lex, s.LexemeStart())
}

func (t *tokenizer) number() error {
	pos := t.s.Pos()
	lex, err := t.s.Number()
	if err != nil {
		return err
	}
	t.emit(TokenConstant, lex, strings.ToUpper(lex), pos)
	return nil
}

func (t *tokenizer) hex() error {
	pos := t.s.Pos()
	lex, data, err := t.s.Hex()
	if err != nil {
		return err
	}
	t.emit(TokenHex, lex, strings.ToUpper(lex), pos)
	t.list.Last().data = data
	return nil
}

// sign decides whether a '+' or '-' starts a signed number. It does only
// after an operator, an open parenthesis or a comma, and only when a digit
// (or a dot and a digit) follows.
func (t *tokenizer) sign() error {
	s := t.s
	monadic := false
	if prev := t.list.Last(); prev != nil {
		switch prev.Kind {
		case TokenOp, TokenOpenParen, TokenComma:
			monadic = true
		}
	}
	if monadic {
		next := s.PeekNextToken()
		if next == ClassDigit || (next == ClassDot && s.PeekNextNextToken() == ClassDigit) {
			return t.number()
		}
	}
	t.single(TokenOp)
	return nil
}

func (t *tokenizer) quoted() error {
	s := t.s
	pos := s.Pos()
	lex, kind, err := s.String(t.opts.DelimitedIdentifiers)
	if err != nil {
		return err
	}
	if kind != TokenId || s.Current() != '.' {
		t.emit(kind, lex, strings.ToUpper(lex), pos)
		return nil
	}
	// "schema"."table" and "schema".table stay one identifier
	for s.Current() == '.' {
		next := s.peekRune()
		switch {
		case next == '"':
			s.Advance()
			if _, _, err := s.String(true); err != nil {
				return err
			}
		case next == '*':
			s.Advance()
			s.Advance()
		case isIdentChar(next):
			s.Advance()
			s.Identifier()
		default:
			lex = s.Text(pos)
			t.emit(TokenId, lex, strings.ToUpper(lex), pos)
			return nil
		}
	}
	lex = s.Text(pos)
	t.emit(TokenId, lex, strings.ToUpper(lex), pos)
	return nil
}

func (t *tokenizer) atSign() error {
	s := t.s
	next := s.peekRune()
	if classify(next) == ClassDigit {
		return syntaxErrorf(s.Pos(), "@"+string(next), "parameter name cannot start with a digit")
	}
	if !isIdentChar(next) {
		t.single(TokenUnknown)
		return nil
	}
	pos := s.Pos()
	lex := s.Variable()
	t.emit(TokenAtSign, lex, strings.ToUpper(lex), pos)
	return nil
}

// word scans an identifier or keyword. X'..' hex literals also start here.
func (t *tokenizer) word() error {
	s := t.s
	if r := s.Current(); (r == 'x' || r == 'X') && s.peekRune() == '\'' {
		return t.hex()
	}
	pos := s.Pos()
	lex := s.Identifier()
	upper := strings.ToUpper(lex)
	kind := keywordKind(upper)
	if kind == TokenNot && upper == "NOT" {
		if combined, ok := s.CheckForNotPredicates(); ok {
			t.emit(TokenOp, combined, combined, pos)
			return nil
		}
	}
	t.emit(kind, lex, upper, pos)
	return nil
}

// brace recognises the {d '...'}, {t '...'} and {ts '...'} escapes. Any
// other brace is an Unknown token.
func (t *tokenizer) brace() error {
	s := t.s
	pos := s.Pos()
	if t.list.Len() == 0 {
		return syntaxErrorf(pos, "{", "statement cannot start with an escape sequence")
	}
	cp := s.CreateCheckPoint()
	s.Advance()
	s.SkipWhitespace()
	kw := s.Keyword()
	if isEscapeKeyword(kw) && s.CurrentCharClass() == ClassWhitespace && s.SkipToCloseBrace() {
		lex := s.Text(pos)
		t.emit(TokenDts, lex, strings.ToUpper(lex), pos)
		return nil
	}
	s.RestoreCheckPoint(cp)
	t.single(TokenUnknown)
	return nil
}
