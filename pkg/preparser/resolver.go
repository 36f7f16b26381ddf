package preparser

import (
	"fmt"
	"strconv"
	"strings"
)

// roundFrame tracks one ROUND( call: the paren depth of its argument list
// and the argument being scanned (1, 2, or 3 once the exemption is used).
type roundFrame struct {
	depth int
	arg   int
}

// resolver holds the state of one resolution. It is built fresh for every
// PreParse call.
type resolver struct {
	opts   Options
	text   string
	list   *TokenList
	params *ParameterList

	stmtType      StatementType
	cacheOnServer bool

	// ordinal is the number of placeholders seen so far; parameter i of the
	// list always belongs to placeholder i.
	ordinal int

	depth        int
	rounds       []roundFrame
	orderBy      bool
	orderByDepth int

	info      ParamInfo
	userIndex []int
}

func newResolver(text string, opts Options, params *ParameterList) (*resolver, error) {
	params.reset()
	list, err := Tokenize(text, opts)
	if err != nil {
		return nil, err
	}
	return &resolver{opts: opts, text: text, list: list, params: params, stmtType: StmtUpdate}, nil
}

// resolve classifies the statement and dispatches to the matching rewrite.
func (r *resolver) resolve() (Result, error) {
	if r.list.Len() < 2 {
		if t := r.list.At(0); t != nil && isTransactionKeyword(t.Upper) {
			r.cacheOnServer = true
		}
		return Result{Text: r.text, Type: StmtUpdate}, nil
	}
	first := r.list.firstSignificant()
	if first < 0 {
		return Result{Text: r.text, Type: StmtUpdate}, nil
	}
	head := r.list.At(first)

	if typ, ok := dmlStatementType(head.Upper); ok {
		r.stmtType = typ
		r.cacheOnServer = true
		return r.substitute()
	}
	if head.Is("EXPLAIN") {
		return r.explain(first)
	}
	if typ, ok := ddlStatementType(head.Upper); ok {
		text := r.text
		if r.opts.BracketSubstitution && r.opts.DelimitedIdentifiers {
			text = r.joinTokens()
		}
		return Result{Text: text, Type: typ}, nil
	}
	if isTransactionKeyword(head.Upper) {
		r.cacheOnServer = true
		return r.substitute()
	}
	if next := r.list.At(first + 1); head.Kind == TokenOpenParen && next.Is("SELECT") {
		r.stmtType = StmtQuery
		r.cacheOnServer = true
		return r.substitute()
	}
	if r.list.At(0).Is("SET") {
		return r.set()
	}

	if ok, err := r.exec(first); err != nil {
		return Result{}, err
	} else if ok {
		r.cacheOnServer = true
		return r.finish(), nil
	}
	if ok, err := r.call(first); err != nil {
		return Result{}, err
	} else if ok {
		r.cacheOnServer = true
		return r.finish(), nil
	}
	return r.substitute()
}

func (r *resolver) joinTokens() string {
	parts := make([]string, r.list.Len())
	for i, t := range r.list.Tokens() {
		parts[i] = t.Lexeme
	}
	return strings.Join(parts, " ")
}

const queryPlanStatement = "select %SYSTEM.QUERY_PLAN(:%qpar(1),:%qpar(2),:%qpar(3),:%qpar(4)) as Plan"

// explain turns EXPLAIN [ALT] [STAT] <statement> into a query plan call with
// the statement and the flags as its four parameters.
func (r *resolver) explain(first int) (Result, error) {
	alt, stat := false, false
	i := first + 1
	for ; i < r.list.Len(); i++ {
		t := r.list.At(i)
		if t.Is("ALT") {
			alt = true
		} else if t.Is("STAT") {
			stat = true
		} else {
			break
		}
	}
	t := r.list.At(i)
	if t == nil || t.Pos < 0 {
		return Result{}, withError(r.list.Last(), "EXPLAIN requires a statement")
	}
	query := strings.TrimSpace(r.text[t.Pos:])

	statFlag, altFlag := "0", "ShowPlan"
	if stat {
		statFlag = "1"
	}
	if alt {
		altFlag = "ShowPlanAlt"
	}
	r.params.params = nil
	for _, v := range []string{query, statFlag, altFlag, ""} {
		p := newReplacedLiteral(v, CastChar)
		p.SQLType = SQLTypeVarchar
		r.params.Append(p)
		r.info.add(FormatReplaced, CastChar)
	}
	return Result{Text: queryPlanStatement, Type: StmtQuery}, nil
}

// set handles SET statements. They are passed through verbatim; SET OPTION
// BLOB_SUPPORT and SYNCHRONOUS_COMMIT switch the statement type.
func (r *resolver) set() (Result, error) {
	second := r.list.At(1)
	switch {
	case second.Is("TRANSACTION"):
		r.cacheOnServer = true
	case second.Is("OPTION") && r.list.Len() == 5:
		option, eq, value := r.list.At(2), r.list.At(3), r.list.At(4)
		if !eq.Is("=") || (value.Lexeme != "0" && value.Lexeme != "1") {
			return Result{}, syntaxErrorf(eq.Pos, eq.Lexeme, "malformed SET OPTION clause")
		}
		on := value.Lexeme == "1"
		switch option.Upper {
		case "BLOB_SUPPORT":
			r.stmtType = StmtStreamsOff
			if on {
				r.stmtType = StmtStreamsOn
			}
		case "SYNCHRONOUS_COMMIT":
			r.stmtType = StmtAsyncCommit
			if on {
				r.stmtType = StmtSyncCommit
			}
		default:
			return Result{}, syntaxErrorf(option.Pos, option.Lexeme, "unknown SET OPTION")
		}
	}
	return Result{Text: r.text, Type: r.stmtType}, nil
}

// substitute walks the statement replacing literals by parameters, then
// renumbers the placeholders.
func (r *resolver) substitute() (Result, error) {
	e := r.list.Enumerator()
	for e.MoveNext() {
		if err := r.resolveToken(e); err != nil {
			return Result{}, err
		}
	}
	return r.finish(), nil
}

func (r *resolver) resolveToken(e *Enumerator) error {
	t := e.Current()
	switch t.Kind {
	case TokenQuestionMark, TokenAtSign:
		r.placeholder(t)
	case TokenHex:
		r.replaceHex(t)
	case TokenId:
		r.identifier(e)
	case TokenStrFunction:
		return r.stringFunction(e)
	case TokenDatatype:
		if next := e.Peek(1); next != nil && next.Kind == TokenOpenParen {
			e.MoveNext()
			r.skipBalanced(e)
		}
	case TokenOpenParen:
		// ((CONST)) keeps its literal
		if isWrapped(e, 0) && closes(e.Peek(4)) {
			e.Seek(e.Index() + 4)
			return nil
		}
		r.depth++
	case TokenCloseParen:
		r.closeParen()
	case TokenOp:
		// OP (CONST) keeps its literal
		if !alwaysSubstituteAfter(t.Upper) && isWrapped(e, 0) {
			e.Seek(e.Index() + 3)
		}
	case TokenConstant:
		return r.constant(e)
	case TokenComma:
		if f := r.round(); f != nil && f.arg == 1 && f.depth == r.depth {
			f.arg = 2
		}
	}
	return nil
}

// isWrapped reports whether the tokens after offset n from the cursor are
// ( CONST ), where CONST is a constant or a date/time escape.
func isWrapped(e *Enumerator, n int) bool {
	open, lit, end := e.Peek(n+1), e.Peek(n+2), e.Peek(n+3)
	return open != nil && open.Kind == TokenOpenParen &&
		lit != nil && (lit.Kind == TokenConstant || lit.Kind == TokenDts) &&
		closes(end)
}

func closes(t *Token) bool { return t != nil && t.Kind == TokenCloseParen }

func (r *resolver) round() *roundFrame {
	if len(r.rounds) == 0 {
		return nil
	}
	return &r.rounds[len(r.rounds)-1]
}

func (r *resolver) closeParen() {
	r.depth--
	for len(r.rounds) > 0 && r.rounds[len(r.rounds)-1].depth > r.depth {
		r.rounds = r.rounds[:len(r.rounds)-1]
	}
	if r.orderBy && r.orderByDepth > 0 && r.depth < r.orderByDepth {
		r.orderBy = false
	}
}

func (r *resolver) identifier(e *Enumerator) {
	t := e.Current()
	next := e.Peek(1)
	if r.orderBy {
		if t.Is("UNION") && r.orderByDepth > 0 && r.depth == r.orderByDepth {
			r.orderBy = false
		}
		return
	}
	switch {
	case t.Is("ORDER") && next.Is("BY"):
		// A top-level ORDER BY keeps its literals up to the end of the
		// statement; a nested one up to its closing parenthesis or UNION.
		e.MoveNext()
		r.orderBy = true
		r.orderByDepth = r.depth
	case next == nil || next.Kind != TokenOpenParen:
	case strings.Contains(t.Upper, "JSON_") || strings.Contains(t.Upper, "_JSON"):
		e.MoveNext()
		r.skipBalanced(e)
	case t.Is("ROUND"):
		if r.stmtType == StmtQuery {
			r.rounds = append(r.rounds, roundFrame{depth: r.depth + 1, arg: 1})
		}
	case isKeywordArgumentFunction(t.Upper):
		if arg := e.Peek(2); arg != nil && arg.Kind == TokenConstant {
			arg.Kind = TokenId
		}
	}
}

// skipBalanced moves the cursor from an open parenthesis to its matching
// close without substituting anything. Placeholders inside still count.
func (r *resolver) skipBalanced(e *Enumerator) {
	depth := 0
	for {
		t := e.Current()
		if t == nil {
			return
		}
		switch t.Kind {
		case TokenOpenParen:
			depth++
		case TokenCloseParen:
			depth--
		case TokenQuestionMark, TokenAtSign:
			r.placeholder(t)
		}
		if depth == 0 || !e.MoveNext() {
			return
		}
	}
}

// stringFunction substitutes the constants at the first argument level of a
// string function such as %SQLUPPER('abc'). Constants nested deeper, wrapped
// as ((CONST)), or inside an ORDER BY of the arguments are kept.
func (r *resolver) stringFunction(e *Enumerator) error {
	if next := e.Peek(1); next == nil || next.Kind != TokenOpenParen {
		return nil
	}
	e.MoveNext()
	depth, inOrderBy := 1, false
	for depth > 0 && e.MoveNext() {
		t := e.Current()
		switch t.Kind {
		case TokenOpenParen:
			if depth == 1 && isWrapped(e, -1) {
				e.Seek(e.Index() + 2)
				continue
			}
			depth++
		case TokenCloseParen:
			depth--
		case TokenQuestionMark, TokenAtSign:
			r.placeholder(t)
		case TokenHex:
			r.replaceHex(t)
		case TokenId:
			if t.Is("ORDER") && e.Peek(1).Is("BY") {
				inOrderBy = true
				e.MoveNext()
			}
		case TokenConstant:
			if depth == 1 && !inOrderBy && !r.orderBy {
				if err := r.replaceConstant(t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *resolver) constant(e *Enumerator) error {
	t := e.Current()
	if r.orderBy {
		return nil
	}
	prev := e.Peek(-1)
	if f := r.round(); f != nil && f.arg == 2 && f.depth == r.depth && prev != nil && prev.Kind == TokenComma {
		f.arg = 3
		return nil
	}
	// name(CONST) is a function argument, unless name is a keyword after
	// which a parenthesised value is compared.
	if prev != nil && prev.Kind == TokenOpenParen && closes(e.Peek(1)) {
		if fn := e.Peek(-2); fn != nil && fn.Kind == TokenId && !alwaysSubstituteAfter(fn.Upper) {
			return nil
		}
	}
	return r.replaceConstant(t)
}

// placeholder registers an application-bound placeholder.
func (r *resolver) placeholder(t *Token) {
	if t.Kind == TokenAtSign {
		if !matchUpParam(r.params, t.Lexeme, r.ordinal) {
			r.params.Insert(r.ordinal, &Parameter{Name: t.Lexeme, Mode: ModeInput, Format: FormatUser, parserMatched: true})
		}
	} else if r.ordinal >= r.params.Len() {
		r.params.Append(&Parameter{Mode: ModeInput, Format: FormatUser})
	}
	r.ordinal++
}

func (r *resolver) replaceHex(t *Token) {
	p := newReplacedLiteral(append([]byte(nil), t.data...), CastNone)
	p.SQLType = SQLTypeBinary
	r.params.Insert(r.ordinal, p)
	t.replace(CastNone)
	r.ordinal++
}

func (r *resolver) replaceConstant(t *Token) error {
	cast, err := castFormatOf(t)
	if err != nil {
		return err
	}
	r.replaceLiteral(t, normalizeLiteral(t.Lexeme), cast)
	return nil
}

// replaceLiteral inserts a parameter for value at the current ordinal and
// turns t into its placeholder.
func (r *resolver) replaceLiteral(t *Token, value any, cast CastFormat) *Parameter {
	p := newReplacedLiteral(value, cast)
	switch cast {
	case CastChar:
		p.SQLType = SQLTypeVarchar
	case CastInt, CastNum:
		p.SQLType = SQLTypeNumeric
	}
	r.params.Insert(r.ordinal, p)
	t.replace(cast)
	r.ordinal++
	return p
}

// castFormatOf decides how a literal is typed on the server.
func castFormatOf(t *Token) (CastFormat, error) {
	lex := t.Lexeme
	if lex == "" {
		return CastNone, syntaxErrorf(t.Pos, lex, "empty constant")
	}
	if q := lex[0]; q == '\'' || q == '"' {
		if len(lex) < 2 || lex[len(lex)-1] != q {
			return CastNone, syntaxErrorf(t.Pos, lex, "mismatched quotes")
		}
		return CastChar, nil
	}
	digits, negative := lex, false
	switch lex[0] {
	case '-':
		digits, negative = lex[1:], true
	case '+':
		digits = lex[1:]
	}
	if isDigits(digits) {
		if len(digits) > 21 || (negative && len(digits) > 20) {
			return CastChar, nil
		}
		return CastInt, nil
	}
	return CastNum, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// normalizeLiteral returns the value sent for a literal: strings lose their
// quotes, numbers their redundant signs and zeros.
func normalizeLiteral(lex string) string {
	if lex == "" {
		return lex
	}
	if q := lex[0]; q == '\'' || q == '"' {
		inner := lex[1 : len(lex)-1]
		quote := string(q)
		return strings.ReplaceAll(inner, quote+quote, quote)
	}
	if strings.ContainsAny(lex, "eE") {
		if f, err := strconv.ParseFloat(lex, 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return lex
	}
	s, negative := lex, false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		s, negative = s[1:], true
	}
	s = strings.TrimLeft(s, "0")
	if strings.Contains(s, ".") {
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	if s == "" {
		return "0"
	}
	if negative {
		return "-" + s
	}
	return s
}

// finish renumbers the placeholders and builds ParamInfo.
func (r *resolver) finish() Result {
	tokens := r.list.Tokens()
	start := 0
	if len(tokens) > 1 && tokens[0].Is("EXECUTE") {
		switch tokens[1].Upper {
		case "SELECT":
			r.stmtType, start = StmtQuery, 1
		case "UPDATE", "INSERT":
			r.stmtType, start = StmtUpdate, 1
		}
		if start == 1 {
			r.cacheOnServer = true
		}
	}

	var b strings.Builder
	n := 0
	for i := start; i < len(tokens); i++ {
		t := tokens[i]
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if t.IsParameter() {
			n++
			fmt.Fprintf(&b, ":%%qpar(%d)", n)
		} else {
			b.WriteString(t.Lexeme)
		}
		if r.opts.AddRowID >= 1 && t.Is("SELECT") {
			b.WriteString(" %ID ,")
		}
		if r.opts.AddRowID == 2 && t.Is("BY") && i > 0 && tokens[i-1].Is("ORDER") {
			b.WriteString(" %IDADDED")
		}
	}
	r.buildParamInfo(tokens[start:], n)
	return Result{Text: b.String(), Type: r.stmtType}
}

// buildParamInfo describes the first length placeholders. Parameters bound
// beyond the last placeholder are not described.
func (r *resolver) buildParamInfo(tokens []*Token, placeholders int) {
	length := min(r.params.Len(), placeholders)
	k := 0
	for _, t := range tokens {
		if k == length {
			break
		}
		if !t.IsParameter() {
			continue
		}
		p := r.params.At(k)
		switch {
		case p.Mode == ModeDefaultParameter:
			r.info.add(FormatDefault, t.CastFormat)
		case t.Replaced:
			r.info.add(FormatReplaced, t.CastFormat)
		default:
			r.info.add(FormatUser, t.CastFormat)
			r.userIndex = append(r.userIndex, k)
		}
		k++
	}
}
