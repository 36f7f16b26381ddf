package preparser

import (
	"bytes"
	"testing"
)

func TestParamInfoBinary(t *testing.T) {
	pi := ParamInfo{Params: []ParamDescriptor{
		{Format: FormatReplaced, Cast: CastInt},
		{Format: FormatUser, Cast: CastNone},
		{Format: FormatDefault, Cast: CastNone},
	}}
	data, err := pi.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 'c', 2, '?', 0, 'd', 0}
	if !bytes.Equal(data, want) {
		t.Fatalf("got %v, want %v", data, want)
	}

	var back ParamInfo
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if back.String() != "3:c2?0d0" {
		t.Fatalf("decoded %s", back.String())
	}
}

func TestParamInfoEmpty(t *testing.T) {
	data, _ := ParamInfo{}.MarshalBinary()
	if !bytes.Equal(data, []byte{0}) {
		t.Fatalf("got %v", data)
	}
	var pi ParamInfo
	if err := pi.UnmarshalBinary(data); err != nil || pi.Len() != 0 {
		t.Fatalf("got %v %v", pi, err)
	}
}

func TestParamInfoUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", []byte{2, 'c', 1}},
		{"trailing", []byte{1, 'c', 1, 0}},
		{"bad format", []byte{1, 'x', 1}},
		{"bad cast", []byte{1, 'c', 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pi ParamInfo
			if err := pi.UnmarshalBinary(tt.data); err == nil {
				t.Fatalf("decoded %v", pi)
			}
		})
	}
}

func TestStatementTypeText(t *testing.T) {
	for typ := StmtUpdate; typ <= StmtUse; typ++ {
		text, err := typ.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back StatementType
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("%s: %v", text, err)
		}
		if back != typ {
			t.Fatalf("%s decoded as %v", text, back)
		}
	}
	var typ StatementType
	if err := typ.UnmarshalText([]byte("Bogus")); err == nil {
		t.Fatal("unknown name accepted")
	}
	if StmtSQLDialect.String() != "SqlDialect" || StatementType(99).String() != "Unknown" {
		t.Fatal("unexpected names")
	}
}
