package preparser

import (
	"bytes"
	"testing"
)

func names(l *ParameterList) []string {
	out := make([]string, l.Len())
	for i, p := range l.Params() {
		out[i] = p.Name
	}
	return out
}

func assertNames(t *testing.T, l *ParameterList, want ...string) {
	t.Helper()
	got := names(l)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParameterListEditing(t *testing.T) {
	l := NewParameterList(&Parameter{Name: "a"}, &Parameter{Name: "c"})
	l.Insert(1, &Parameter{Name: "b"})
	l.Insert(10, &Parameter{Name: "d"})
	assertNames(t, l, "a", "b", "c", "d")

	l.Remove(0)
	assertNames(t, l, "b", "c", "d")
	if l.At(-1) != nil || l.At(3) != nil {
		t.Fatal("At out of range returned a parameter")
	}
}

func TestIndexByName(t *testing.T) {
	l := NewParameterList(&Parameter{}, &Parameter{Name: "@First"}, &Parameter{Name: "second"})
	tests := []struct {
		name string
		want int
	}{
		{"@first", 1},
		{"FIRST", 1},
		{"@second", 2},
		{"third", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := l.IndexByName(tt.name); got != tt.want {
			t.Errorf("IndexByName(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMatchUpParam(t *testing.T) {
	l := NewParameterList(&Parameter{Name: "@b"}, &Parameter{Name: "@a"})

	if !matchUpParam(l, "@a", 0) {
		t.Fatal("@a not found")
	}
	assertNames(t, l, "@a", "@b")

	if !matchUpParam(l, "@b", 1) {
		t.Fatal("@b not found")
	}
	assertNames(t, l, "@a", "@b")

	if !matchUpParam(l, "@a", 2) {
		t.Fatal("@a not found the second time")
	}
	assertNames(t, l, "@a", "@b", "@a#2")
	if a := l.At(0); len(a.Matched) != 1 || a.Matched[0] != l.At(2) || !l.At(2).Generated() {
		t.Fatalf("clone not linked: %+v", a)
	}

	if matchUpParam(l, "@zzz", 3) {
		t.Fatal("unknown name matched")
	}
}

func TestParameterListClone(t *testing.T) {
	orig := &Parameter{Name: "@p", Value: []byte{1, 2}}
	clone := &Parameter{Name: "@p#1", generated: true}
	orig.Matched = []*Parameter{clone}
	l := NewParameterList(orig, clone)

	c := l.Clone()
	if c.At(0) == orig || c.At(1) == clone {
		t.Fatal("Clone shares parameters")
	}
	if c.At(0).Matched[0] != c.At(1) {
		t.Fatal("Matched does not point at the copied clone")
	}
	c.At(0).Value.([]byte)[0] = 9
	if !bytes.Equal(orig.Value.([]byte), []byte{1, 2}) {
		t.Fatal("Clone shares byte values")
	}
}

func TestSnapshotRestore(t *testing.T) {
	p := &Parameter{Name: "@p", Value: 1}
	l := NewParameterList(p)
	s := l.snapshot()

	p.Value = 2
	p.Matched = append(p.Matched, &Parameter{})
	l.Insert(0, newReplacedLiteral("x", CastChar))

	l.restore(s)
	if l.Len() != 1 || l.At(0) != p {
		t.Fatalf("restore changed identity: %v", l.Params())
	}
	if p.Value != 1 || len(p.Matched) != 0 {
		t.Fatalf("restore left changes: %+v", p)
	}
}

func TestReset(t *testing.T) {
	user := &Parameter{Name: "@p", parserMatched: true}
	l := NewParameterList(newReplacedLiteral("1", CastInt), user, newDefaultParameter())
	user.Matched = []*Parameter{{}}

	l.reset()
	if l.Len() != 1 || l.At(0) != user {
		t.Fatalf("unexpected list after reset: %v", l.Params())
	}
	if user.parserMatched || user.Matched != nil {
		t.Fatalf("matching state kept: %+v", user)
	}
}

func TestParameterModeString(t *testing.T) {
	if ModeInputOutput.String() != "input-output" || ModeDefaultParameter.String() != "default" {
		t.Fatal("unexpected mode names")
	}
	p := &Parameter{Name: "@x", Mode: ModeInput, Value: 3}
	if got := p.String(); got != "@x(input 3)" {
		t.Fatalf("got %q", got)
	}
}
