package preparser

import "strings"

// routineName merges a dotted routine name starting at tokens[i] into one
// token and returns the index after it. ok is false when no name is there.
func (r *resolver) routineName(i int) (next int, ok bool) {
	name := r.list.At(i)
	if name == nil || name.Kind != TokenId || isReservedWord(name.Upper) {
		return i, false
	}
	for {
		dot, part := r.list.At(i+1), r.list.At(i+2)
		if dot == nil || dot.Lexeme != "." || part == nil || part.Kind != TokenId {
			break
		}
		name.Lexeme += "." + part.Lexeme
		name.Upper += "." + part.Upper
		r.list.Remove(i + 1)
		r.list.Remove(i + 1)
	}
	return i + 1, true
}

// returnValue binds the placeholder of a "? =" or "@ret =" prefix as the
// routine's return value at ordinal 0.
func (r *resolver) returnValue(t *Token) {
	switch {
	case t.Kind == TokenAtSign && matchUpParam(r.params, t.Lexeme, 0):
		r.params.At(0).Mode = ModeReturnValue
	case t.Kind == TokenAtSign:
		r.params.Insert(0, &Parameter{Name: t.Lexeme, Mode: ModeReturnValue, Format: FormatUser, parserMatched: true})
	case r.params.Len() > 0:
		r.params.At(0).Mode = ModeReturnValue
	default:
		r.params.Append(&Parameter{Mode: ModeReturnValue, Format: FormatUser})
	}
	r.ordinal = 1
}

// call recognises routine invocations:
//
//	CALL name [( args )]
//	? = CALL name [( args )]   @ret = CALL name [( args )]
//	EXEC name ( args )         EXECUTE name ( args )
//
// The EXEC forms are rewritten to CALL. Empty arguments, as in foo(1,,3),
// become default parameters.
func (r *resolver) call(first int) (bool, error) {
	i := first
	var ret *Token
	if t := r.list.At(i); t.IsParameter() && r.list.At(i+1).Is("=") {
		ret = t
		i += 2
	}
	kw := r.list.At(i)
	if kw == nil {
		return false, nil
	}
	needParens := false
	switch kw.Upper {
	case "CALL":
	case "EXEC", "EXECUTE":
		needParens = true
	default:
		return false, nil
	}
	open, ok := r.routineName(i + 1)
	if !ok {
		return false, nil
	}
	if t := r.list.At(open); t == nil || t.Kind != TokenOpenParen {
		if needParens || t != nil {
			return false, nil
		}
	}
	// anything but comments after the argument list is not a call
	if end := r.closingParen(open); end >= 0 {
		for j := end + 1; j < r.list.Len(); j++ {
			if t := r.list.At(j); t.Kind != TokenUnknown || !strings.HasPrefix(t.Lexeme, "/*") {
				return false, nil
			}
		}
	}
	kw.Lexeme, kw.Upper = "CALL", "CALL"

	if ret != nil {
		r.returnValue(ret)
		r.stmtType = StmtCallWithResult
	} else {
		r.stmtType = StmtCall
	}
	if r.list.At(open) == nil {
		return true, nil
	}
	if err := r.callArguments(open); err != nil {
		return false, err
	}
	return true, nil
}

// closingParen returns the index of the parenthesis closing tokens[open],
// or -1 when tokens[open] is not an open parenthesis or is never closed.
func (r *resolver) closingParen(open int) int {
	if t := r.list.At(open); t == nil || t.Kind != TokenOpenParen {
		return -1
	}
	depth := 0
	for j := open; j < r.list.Len(); j++ {
		switch r.list.At(j).Kind {
		case TokenOpenParen:
			depth++
		case TokenCloseParen:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// callArguments resolves the argument list opening at tokens[open].
func (r *resolver) callArguments(open int) error {
	depth := 0
	prev := r.list.At(open)
	for j := open; j < r.list.Len(); j++ {
		t := r.list.At(j)
		switch t.Kind {
		case TokenOpenParen:
			depth++
		case TokenQuestionMark, TokenAtSign:
			r.placeholder(t)
		case TokenHex:
			r.replaceHex(t)
		case TokenConstant:
			// "( - 5" and ", + 5" fold the sign into the literal
			if sign := r.list.At(j - 1); sign != nil && sign.Kind == TokenOp && (sign.Lexeme == "-" || sign.Lexeme == "+") {
				if before := r.list.At(j - 2); before != nil && (before.Kind == TokenOpenParen || before.Kind == TokenComma) {
					t.Lexeme = sign.Lexeme + t.Lexeme
					t.Upper = sign.Lexeme + t.Upper
					r.list.Remove(j - 1)
					j--
				}
			}
			if err := r.replaceConstant(t); err != nil {
				return err
			}
		case TokenNull:
			next := r.list.At(j + 1)
			if depth == 1 && (prev.Kind == TokenOpenParen || prev.Kind == TokenComma) &&
				next != nil && (next.Kind == TokenComma || next.Kind == TokenCloseParen) {
				r.replaceLiteral(t, nil, CastNone)
			}
		case TokenComma, TokenCloseParen:
			elided := prev.Kind == TokenComma || (prev.Kind == TokenOpenParen && t.Kind == TokenComma)
			if depth == 1 && elided {
				r.list.Insert(j, r.defaultArgument())
				j++
			}
			if t.Kind == TokenCloseParen {
				depth--
				if depth == 0 {
					return nil
				}
			}
		}
		prev = t
	}
	return nil
}

// defaultArgument registers an elided argument and returns its placeholder.
func (r *resolver) defaultArgument() *Token {
	r.params.Insert(r.ordinal, newDefaultParameter())
	r.ordinal++
	t := synthesized(TokenQuestionMark, "?")
	t.Replaced = true
	return t
}

// execArgument is one argument of an EXEC statement, ready to be emitted as
// a placeholder of the rewritten CALL.
type execArgument struct {
	cast     CastFormat
	replaced bool
}

// exec recognises the T-SQL procedure call form
//
//	EXEC[UTE] [@ret =] name arg [, arg ...] [WITH RECOMPILE]
//
// where an argument is a value or @name = value, optionally followed by
// OUTPUT. The statement is rewritten as [? =] CALL name(?, ...). It reports
// false when the statement has another shape, leaving the parameters as they
// were.
func (r *resolver) exec(first int) (bool, error) {
	head := r.list.At(first)
	if !head.Is("EXEC") && !head.Is("EXECUTE") {
		return false, nil
	}
	switch next := r.list.At(first + 1); {
	case next == nil, next.Is("SELECT"), next.Is("UPDATE"), next.Is("INSERT"):
		return false, nil
	}

	snap, tokens := r.params.snapshot(), r.list.clone()
	ordinal := r.ordinal
	fail := func() (bool, error) {
		r.params.restore(snap)
		r.list = tokens
		r.ordinal = ordinal
		return false, nil
	}

	i := first + 1
	var ret *Token
	if t := r.list.At(i); t.Kind == TokenAtSign && r.list.At(i+1).Is("=") {
		ret = t
		i += 2
		r.returnValue(ret)
	}
	end, ok := r.routineName(i)
	if !ok {
		return fail()
	}
	name := r.list.At(i)
	if t := r.list.At(end); t != nil && t.Kind == TokenOpenParen {
		return fail()
	}

	var args []execArgument
	for i = end; i < r.list.Len(); {
		t := r.list.At(i)
		if t.Is("WITH") && r.list.At(i+1).Is("RECOMPILE") {
			break
		}
		arg, next, ok, err := r.execArgument(i)
		if err != nil {
			return false, err
		}
		if !ok {
			return fail()
		}
		args = append(args, arg)
		i = next
		if sep := r.list.At(i); sep != nil && sep.Kind == TokenComma {
			i++
			if r.list.At(i) == nil {
				args = append(args, r.execDefault())
			}
			continue
		}
		if sep := r.list.At(i); sep != nil && !(sep.Is("WITH") && r.list.At(i+1).Is("RECOMPILE")) {
			return fail()
		}
	}
	if len(args) == 0 {
		return fail()
	}

	rewritten := &TokenList{}
	if ret != nil {
		rewritten.Append(synthesized(TokenQuestionMark, "?"))
		rewritten.Append(synthesized(TokenOp, "="))
		r.stmtType = StmtCallWithResult
	} else {
		r.stmtType = StmtCall
	}
	rewritten.Append(synthesized(TokenId, "CALL"))
	rewritten.Append(name)
	rewritten.Append(synthesized(TokenOpenParen, "("))
	for k, a := range args {
		if k > 0 {
			rewritten.Append(synthesized(TokenComma, ","))
		}
		t := synthesized(TokenQuestionMark, "?")
		t.CastFormat = a.cast
		t.Replaced = a.replaced
		rewritten.Append(t)
	}
	rewritten.Append(synthesized(TokenCloseParen, ")"))
	r.list = rewritten
	return true, nil
}

func (r *resolver) execDefault() execArgument {
	p := newDefaultParameter()
	p.ExecParam = true
	r.params.Insert(r.ordinal, p)
	r.ordinal++
	return execArgument{replaced: true}
}

// execArgument resolves the argument starting at tokens[i] and returns the
// index after it.
func (r *resolver) execArgument(i int) (arg execArgument, next int, ok bool, err error) {
	t := r.list.At(i)
	if t.Kind == TokenComma {
		return r.execDefault(), i, true, nil
	}

	var formal string
	if t.Kind == TokenAtSign && r.list.At(i+1).Is("=") {
		formal = t.Lexeme
		i += 2
		if t = r.list.At(i); t == nil {
			return arg, i, false, nil
		}
	}

	var p *Parameter
	switch t.Kind {
	case TokenAtSign:
		if !matchUpParam(r.params, t.Lexeme, r.ordinal) {
			r.params.Insert(r.ordinal, &Parameter{Name: t.Lexeme, Mode: ModeInputOutput, Format: FormatUser, parserMatched: true})
		}
		p = r.params.At(r.ordinal)
		r.ordinal++
	case TokenQuestionMark:
		if r.ordinal >= r.params.Len() {
			r.params.Append(&Parameter{Name: formal, Mode: ModeInput, Format: FormatUser})
		}
		p = r.params.At(r.ordinal)
		r.ordinal++
	case TokenNull:
		p = r.replaceLiteral(t, nil, CastNone)
		arg.replaced = true
	case TokenHex:
		r.replaceHex(t)
		p = r.params.At(r.ordinal - 1)
		arg.replaced = true
	case TokenOp:
		lit := r.list.At(i + 1)
		if (t.Lexeme != "-" && t.Lexeme != "+") || lit == nil || lit.Kind != TokenConstant {
			return arg, i, false, nil
		}
		lit.Lexeme = t.Lexeme + lit.Lexeme
		lit.Upper = t.Lexeme + lit.Upper
		i++
		t = lit
		fallthrough
	case TokenConstant:
		if arg.cast, err = castFormatOf(t); err != nil {
			return arg, i, false, err
		}
		p = r.replaceLiteral(t, normalizeLiteral(t.Lexeme), arg.cast)
		arg.replaced = true
	case TokenId:
		if t.Is("DEFAULT") {
			p = newDefaultParameter()
			r.params.Insert(r.ordinal, p)
			r.ordinal++
			arg.replaced = true
			break
		}
		// unquoted words are character values in EXEC arguments
		arg.cast = CastChar
		p = r.replaceLiteral(t, t.Lexeme, CastChar)
		arg.replaced = true
	default:
		return arg, i, false, nil
	}
	i++

	p.ExecParam = true
	if formal != "" && p.Name == "" {
		p.Name = formal
	}
	if o := r.list.At(i); o.Is("OUTPUT") || o.Is("OUT") {
		if p.Mode == ModeInput {
			p.Mode = ModeInputOutput
		}
		i++
	}
	return arg, i, true, nil
}
