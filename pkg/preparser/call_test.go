package preparser

import (
	"strings"
	"testing"
)

// ── CALL ─────────────────────────────────────────────────────────────────────

func TestCall(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		typ   StatementType
		info  string
	}{
		{
			name:  "trailing comment",
			query: "CALL foo(1) /* note */",
			text:  "CALL foo ( :%qpar(1) ) /* note */",
			typ:   StmtCall,
			info:  "1:c2",
		},
		{
			name:  "literal arguments",
			query: "CALL foo(1,2)",
			text:  "CALL foo ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c2c2",
		},
		{
			name:  "no parentheses",
			query: "CALL foo",
			text:  "CALL foo",
			typ:   StmtCall,
			info:  "0:",
		},
		{
			name:  "empty parentheses",
			query: "CALL foo()",
			text:  "CALL foo ( )",
			typ:   StmtCall,
			info:  "0:",
		},
		{
			name:  "qualified name",
			query: "CALL s.foo('a', ?)",
			text:  "CALL s.foo ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c1?0",
		},
		{
			name:  "exec with parentheses",
			query: "EXEC foo(1,,3)",
			text:  "CALL foo ( :%qpar(1) , :%qpar(2) , :%qpar(3) )",
			typ:   StmtCall,
			info:  "3:c2d0c2",
		},
		{
			name:  "leading elided argument",
			query: "CALL foo(,1)",
			text:  "CALL foo ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:d0c2",
		},
		{
			name:  "trailing elided argument",
			query: "CALL foo(1,)",
			text:  "CALL foo ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c2d0",
		},
		{
			name:  "null argument",
			query: "CALL foo(NULL, 1)",
			text:  "CALL foo ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c0c2",
		},
		{
			name:  "nested call keeps inner structure",
			query: "CALL foo(bar(1), 2)",
			text:  "CALL foo ( bar ( :%qpar(1) ) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c2c2",
		},
		{
			name:  "return value",
			query: "? = CALL foo()",
			text:  ":%qpar(1) = CALL foo ( )",
			typ:   StmtCallWithResult,
			info:  "1:?0",
		},
		{
			name:  "named return value",
			query: "@rc = CALL foo(5)",
			text:  ":%qpar(1) = CALL foo ( :%qpar(2) )",
			typ:   StmtCallWithResult,
			info:  "2:?0c2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preParse(t, DefaultOptions(), tt.query)
			assertResult(t, got, tt.text, tt.typ)
			assertInfo(t, got.pp, tt.info)
			if !got.pp.CacheOnServer() {
				t.Fatal("calls should be cacheable")
			}
		})
	}
}

func TestCallReturnValueMode(t *testing.T) {
	got := preParse(t, DefaultOptions(), "? = CALL foo()")
	if got.params.Len() != 1 || got.params.At(0).Mode != ModeReturnValue {
		t.Fatalf("unexpected parameters %v", got.params.Params())
	}
	assertUserIndex(t, got.pp, 0)

	got = preParse(t, DefaultOptions(), "? = CALL foo(?)", &Parameter{Value: 1}, &Parameter{Value: 2})
	if got.params.At(0).Mode != ModeReturnValue || got.params.At(1).Mode != ModeInput {
		t.Fatalf("unexpected modes %v", got.params.Params())
	}
	assertUserIndex(t, got.pp, 0, 1)
}

func TestCallDefaultParameter(t *testing.T) {
	got := preParse(t, DefaultOptions(), "EXEC foo(1,,3)")
	assertValues(t, got.params, "1", nil, "3")
	p := got.params.At(1)
	if p.Mode != ModeDefaultParameter || p.Format != FormatDefault {
		t.Fatalf("unexpected default parameter %+v", p)
	}
}

func TestCallSignedArgument(t *testing.T) {
	got := preParse(t, DefaultOptions(), "CALL foo( - 5)")
	assertResult(t, got, "CALL foo ( :%qpar(1) )", StmtCall)
	assertValues(t, got.params, "-5")
}

func TestCallNotAProcedure(t *testing.T) {
	// EXEC without an argument list or a routine name is substituted as is
	got := preParse(t, DefaultOptions(), "EXEC 5")
	assertResult(t, got, "EXEC :%qpar(1)", StmtUpdate)
}

func TestCallShapeMismatchKeepsAlignment(t *testing.T) {
	// placeholders outside a routine's argument list, or a keyword where the
	// routine name belongs, fall back to plain substitution
	tests := []string{
		"EXECUTE FROM ( ) @a x",
		"CALL foo(1) ?",
		"? = CALL foo(?) @b",
		"EXEC SELECT (?)",
	}
	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			got := preParse(t, DefaultOptions(), query)
			if got.res.Type == StmtCall || got.res.Type == StmtCallWithResult {
				t.Errorf("rewritten as a call: %q", got.res.Text)
			}
			placeholders := strings.Count(got.res.Text, ":%qpar(")
			info := got.pp.ParamInfo()
			if got.params.Len() != placeholders || info.Len() != placeholders {
				t.Fatalf("%q: %d placeholders, %d parameters, param info %s",
					got.res.Text, placeholders, got.params.Len(), info)
			}
		})
	}
}

func TestRoutineNameRejectsKeywords(t *testing.T) {
	for _, word := range []string{"FROM", "SELECT", "WHERE", "VALUES"} {
		if !isReservedWord(word) {
			t.Errorf("isReservedWord(%q) = false", word)
		}
	}
	if isReservedWord("PROC") {
		t.Error("isReservedWord(PROC) = true")
	}
}

// ── EXEC ─────────────────────────────────────────────────────────────────────

func TestExec(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		typ   StatementType
		info  string
	}{
		{
			name:  "positional arguments",
			query: "EXEC dbo.proc 1, 'a', @x OUTPUT",
			text:  "CALL dbo.proc ( :%qpar(1) , :%qpar(2) , :%qpar(3) )",
			typ:   StmtCall,
			info:  "3:c2c1?0",
		},
		{
			name:  "return value and named argument",
			query: "EXEC @rc = proc @a = 5",
			text:  ":%qpar(1) = CALL proc ( :%qpar(2) )",
			typ:   StmtCallWithResult,
			info:  "2:?0c2",
		},
		{
			name:  "execute keyword",
			query: "EXECUTE proc ?",
			text:  "CALL proc ( :%qpar(1) )",
			typ:   StmtCall,
			info:  "1:?0",
		},
		{
			name:  "default keyword",
			query: "EXEC proc 1, DEFAULT",
			text:  "CALL proc ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c2d0",
		},
		{
			name:  "trailing comma",
			query: "EXEC proc 1,",
			text:  "CALL proc ( :%qpar(1) , :%qpar(2) )",
			typ:   StmtCall,
			info:  "2:c2d0",
		},
		{
			name:  "unquoted word",
			query: "EXEC proc abc",
			text:  "CALL proc ( :%qpar(1) )",
			typ:   StmtCall,
			info:  "1:c1",
		},
		{
			name:  "signed number",
			query: "EXEC proc -5",
			text:  "CALL proc ( :%qpar(1) )",
			typ:   StmtCall,
			info:  "1:c2",
		},
		{
			name:  "with recompile",
			query: "EXEC proc 1 WITH RECOMPILE",
			text:  "CALL proc ( :%qpar(1) )",
			typ:   StmtCall,
			info:  "1:c2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preParse(t, DefaultOptions(), tt.query)
			assertResult(t, got, tt.text, tt.typ)
			assertInfo(t, got.pp, tt.info)
		})
	}
}

func TestExecParameters(t *testing.T) {
	got := preParse(t, DefaultOptions(), "EXEC dbo.proc 1, 'a', @x OUTPUT")
	assertValues(t, got.params, "1", "a", nil)
	x := got.params.At(2)
	if x.Name != "@x" || x.Mode != ModeInputOutput || !x.ExecParam {
		t.Fatalf("unexpected @x %+v", x)
	}
	assertUserIndex(t, got.pp, 2)

	got = preParse(t, DefaultOptions(), "EXEC @rc = proc @a = 5")
	if got.params.At(0).Name != "@rc" || got.params.At(0).Mode != ModeReturnValue {
		t.Fatalf("unexpected return value %+v", got.params.At(0))
	}
	if got.params.At(1).Name != "@a" || got.params.At(1).Value != "5" {
		t.Fatalf("unexpected argument %+v", got.params.At(1))
	}
}

func TestExecOutputMarksBoundParameter(t *testing.T) {
	got := preParse(t, DefaultOptions(), "EXEC proc ? OUTPUT", &Parameter{Value: 1})
	if got.params.Len() != 1 || got.params.At(0).Mode != ModeInputOutput {
		t.Fatalf("unexpected parameters %v", got.params.Params())
	}
}

func TestExecFallsBackUnchanged(t *testing.T) {
	// a parenthesis after an EXEC argument is not the T-SQL form
	got := preParse(t, DefaultOptions(), "EXEC proc 1 (2)", &Parameter{Name: "@keep", Value: 9})
	if got.params.At(got.params.Len()-1).Name != "@keep" {
		t.Fatalf("bound parameter lost: %v", got.params.Params())
	}
	if got.res.Type == StmtCall {
		t.Fatalf("statement rewritten as a call: %q", got.res.Text)
	}
}
