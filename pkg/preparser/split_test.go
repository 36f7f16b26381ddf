package preparser

import "testing"

func TestSplitStatements(t *testing.T) {
	src := "SELECT 1; SELECT ';'; -- c;\n/* ; */ SELECT 2;"
	spans := SplitStatements(src)
	want := []string{"SELECT 1", "SELECT ';'", "-- c;\n/* ; */ SELECT 2"}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans %v", len(spans), spans)
	}
	for i, s := range spans {
		if s.Text != want[i] {
			t.Errorf("span[%d] = %q, want %q", i, s.Text, want[i])
		}
		if src[s.Pos:s.Pos+len(s.Text)] != s.Text {
			t.Errorf("span[%d] position %d does not match its text", i, s.Pos)
		}
	}
}

func TestSplitStatementsEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"empty", "", 0},
		{"only separators", " ; ;\n;", 0},
		{"no trailing separator", "SELECT 1", 1},
		{"bracketed semicolon", "SELECT [a;b] FROM t; SELECT 2", 2},
		{"unterminated string", "SELECT 1; SELECT 'abc; SELECT 3", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(SplitStatements(tt.src)); got != tt.want {
				t.Fatalf("got %d statements, want %d", got, tt.want)
			}
		})
	}
}
