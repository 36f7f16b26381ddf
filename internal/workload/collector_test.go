package workload

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/cybertec-postgresql/sqlpreparse/internal/discovery"
	preerrors "github.com/cybertec-postgresql/sqlpreparse/internal/errors"
	"github.com/cybertec-postgresql/sqlpreparse/internal/logger"
	"github.com/cybertec-postgresql/sqlpreparse/internal/runner"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

func rewritten(file, text string, typ preparser.StatementType, params ...preparser.ParamDescriptor) *runner.Outcome {
	return &runner.Outcome{
		Statement: &discovery.Statement{File: file, Line: 1, Column: 1},
		Result:    preparser.Result{Text: text, Type: typ},
		ParamInfo: preparser.ParamInfo{Params: params},
		Status:    runner.OutcomeRewritten,
	}
}

var (
	literal = preparser.ParamDescriptor{Format: preparser.FormatReplaced, Cast: preparser.CastInt}
	user    = preparser.ParamDescriptor{Format: preparser.FormatUser}
	def     = preparser.ParamDescriptor{Format: preparser.FormatDefault}
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	if c.Summary() == nil || c.Summary().Version != "1.0" {
		t.Fatalf("unexpected summary %+v", c.Summary())
	}
}

func TestCollectorAdd(t *testing.T) {
	c := NewCollector()
	c.CollectFromOutcomes([]*runner.Outcome{
		rewritten("b.sql", "SELECT :%qpar(1)", preparser.StmtQuery, literal),
		rewritten("a.sql", "SELECT :%qpar(1)", preparser.StmtQuery, literal),
		rewritten("a.sql", "SELECT :%qpar(1)", preparser.StmtQuery, literal),
		rewritten("a.sql", "CALL p(:%qpar(1), :%qpar(2))", preparser.StmtCall, user, def),
		nil,
		{
			Statement: &discovery.Statement{File: "c.sql", Line: 4, Column: 2},
			Status:    runner.OutcomeFailed,
			Error:     preerrors.NewStatementError("c.sql", 4, 9, "invalid syntax: unmatched quote"),
		},
		{Status: runner.OutcomeCancelled, Error: context.Canceled},
	})

	s := c.Summary()
	if s.Statements != 6 || s.Rewritten != 4 || s.Failed != 1 || s.Cancelled != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.Literals != 3 || s.UserParams != 1 || s.Defaults != 1 {
		t.Errorf("params: literals %d, user %d, defaults %d", s.Literals, s.UserParams, s.Defaults)
	}
	if !reflect.DeepEqual(s.Types, map[string]int{"Query": 3, "Call": 1}) {
		t.Errorf("types = %v", s.Types)
	}

	sh := s.Shapes["SELECT :%qpar(1)"]
	if sh == nil || sh.Count != 3 || sh.ParamInfo != "1:c2" {
		t.Fatalf("shape = %+v", sh)
	}
	if !reflect.DeepEqual(sh.Files, []string{"a.sql", "b.sql"}) {
		t.Errorf("files = %v", sh.Files)
	}

	want := Failure{File: "c.sql", Line: 4, Column: 9, Message: "invalid syntax: unmatched quote"}
	if len(s.Failures) != 1 || s.Failures[0] != want {
		t.Errorf("failures = %+v", s.Failures)
	}
}

func TestFailureWithoutPosition(t *testing.T) {
	o := &runner.Outcome{
		Statement: &discovery.Statement{File: "x.sql", Line: 7, Column: 3},
		Status:    runner.OutcomeFailed,
		Error:     errors.New("boom"),
	}
	got := failureOf(o)
	if got != (Failure{File: "x.sql", Line: 7, Column: 3, Message: "boom"}) {
		t.Errorf("failureOf() = %+v", got)
	}
}

func TestCollectorMerge(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.Add(rewritten("a.sql", "SELECT 1", preparser.StmtQuery))
	b.Add(rewritten("b.sql", "SELECT 1", preparser.StmtQuery))
	b.Add(rewritten("b.sql", "COMMIT", preparser.StmtUpdate))

	a.Merge(b)
	s := a.Summary()
	if s.Statements != 3 || s.Rewritten != 3 || s.Types["Query"] != 2 {
		t.Fatalf("merged = %+v", s)
	}
	if sh := s.Shapes["SELECT 1"]; sh.Count != 2 || len(sh.Files) != 2 {
		t.Errorf("merged shape = %+v", sh)
	}
	if _, ok := s.Shapes["COMMIT"]; !ok {
		t.Error("shape from the other collector is missing")
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.Add(rewritten("a.sql", "SELECT 1", preparser.StmtQuery))
	c.Reset()
	if c.Summary().Statements != 0 || len(c.Summary().Shapes) != 0 {
		t.Errorf("Reset() kept data: %+v", c.Summary())
	}
}

func TestSortedShapes(t *testing.T) {
	c := NewCollector()
	for _, text := range []string{"B", "A", "C", "C"} {
		c.Add(rewritten("a.sql", text, preparser.StmtUpdate))
	}
	var got []string
	for _, sh := range c.Summary().SortedShapes() {
		got = append(got, sh.Text)
	}
	if !reflect.DeepEqual(got, []string{"C", "A", "B"}) {
		t.Errorf("SortedShapes() = %v", got)
	}
}

func TestRewritePercent(t *testing.T) {
	s := NewSummary()
	if s.RewritePercent() != 0 {
		t.Errorf("empty summary percent = %v", s.RewritePercent())
	}
	s.Statements, s.Rewritten = 4, 3
	if s.RewritePercent() != 75 {
		t.Errorf("percent = %v", s.RewritePercent())
	}
}

func TestCheck(t *testing.T) {
	exec, err := runner.NewExecutor(preparser.DefaultOptions(), 0, logger.New(false, io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	stmts := []discovery.Statement{
		{File: "w.sql", Line: 1, Column: 1, Text: "SELECT * FROM t WHERE id = 1"},
		{File: "w.sql", Line: 2, Column: 1, Text: "SELECT * FROM t WHERE id = 2"},
		{File: "w.sql", Line: 3, Column: 1, Text: "SELECT 'oops"},
	}

	c, outcomes := Check(context.Background(), runner.NewWorkerPool(exec, 2), stmts)
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	s := c.Summary()
	if s.Rewritten != 2 || s.Failed != 1 || len(s.Shapes) != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if sh := s.Shapes["SELECT * FROM t WHERE id = :%qpar(1)"]; sh == nil || sh.Count != 2 {
		t.Errorf("shapes = %v", s.Shapes)
	}
	if s.Failures[0].Line != 3 || s.Failures[0].Column != 8 {
		t.Errorf("failure = %+v", s.Failures[0])
	}
}
