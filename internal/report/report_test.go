package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

func testSummary() *workload.Summary {
	s := workload.NewSummary()
	s.Statements, s.Rewritten, s.Failed = 4, 3, 1
	s.Literals, s.UserParams = 3, 1
	s.Types["Query"] = 2
	s.Types["Call"] = 1
	s.Shapes["SELECT *\n  FROM t WHERE a = :%qpar(1)"] = &workload.Shape{
		Text: "SELECT *\n  FROM t WHERE a = :%qpar(1)", Type: preparser.StmtQuery,
		Count: 2, ParamInfo: "1:c2", Files: []string{"a.sql"},
	}
	s.Shapes["CALL p(:%qpar(1))"] = &workload.Shape{
		Text: "CALL p(:%qpar(1))", Type: preparser.StmtCall,
		Count: 1, ParamInfo: "1:?0", Files: []string{"b.sql"},
	}
	s.Failures = []workload.Failure{{File: "c.sql", Line: 2, Column: 8, Message: "invalid syntax: unmatched quote"}}
	return s
}

// ── Formatter registry ───────────────────────────────────────────────

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		format  FormatType
		name    string
		wantErr bool
	}{
		{FormatJSON, "json", false},
		{FormatText, "text", false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := GetFormatter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && f.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.name)
			}
		})
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range SupportedFormats() {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("lcov") {
		t.Error("ValidFormat(lcov) = true")
	}
}

// ── JSON ─────────────────────────────────────────────────────────────

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatToWriter(testSummary(), FormatJSON, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded workload.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded.Statements != 4 || len(decoded.Shapes) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if sh := decoded.Shapes["CALL p(:%qpar(1))"]; sh == nil || sh.Type != preparser.StmtCall {
		t.Errorf("decoded shape = %+v", sh)
	}
	if !strings.Contains(buf.String(), `"type": "Call"`) {
		t.Errorf("statement type not encoded by name:\n%s", buf.String())
	}
}

func TestJSONReporterSummary(t *testing.T) {
	out, err := NewJSONReporter().FormatSummary(testSummary())
	if err != nil {
		t.Fatalf("FormatSummary() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["rewrite_percent"].(float64) != 75 || decoded["shapes"].(float64) != 2 {
		t.Errorf("summary = %v", decoded)
	}
}

// ── Text ─────────────────────────────────────────────────────────────

func TestTextReporter(t *testing.T) {
	out, err := FormatToString(testSummary(), FormatText)
	if err != nil {
		t.Fatalf("FormatString() error = %v", err)
	}
	for _, want := range []string{
		"Statements: 4\n",
		"Rewritten:  3 (75.0%)\n",
		"Parameters: 3 literal, 1 user, 0 default\n",
		"Shapes (2 distinct):\n",
		"SELECT * FROM t WHERE a = :%qpar(1)\n",
		"c.sql:2:8: invalid syntax: unmatched quote\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "Call") > strings.Index(out, "Query") {
		t.Errorf("types not sorted:\n%s", out)
	}
	if strings.Index(out, "SELECT") > strings.Index(out, "CALL p") {
		t.Errorf("shapes not ordered by count:\n%s", out)
	}
}

func TestTextReporterLimit(t *testing.T) {
	r := &TextReporter{MaxShapes: 1}
	out, err := r.FormatString(testSummary())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "CALL p") || !strings.Contains(out, "... 1 more") {
		t.Errorf("limit not applied:\n%s", out)
	}
}
