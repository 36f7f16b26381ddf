package workload

import (
	"path/filepath"
	"testing"

	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "workload.json")
	store := NewStore(path)
	if store.Exists() {
		t.Fatal("store exists before Save")
	}

	c := NewCollector()
	c.Add(rewritten("a.sql", "CALL p(:%qpar(1))", preparser.StmtCall, user))
	if err := store.Save(c.Summary()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.Exists() || store.Path() != path {
		t.Fatalf("store not written to %s", path)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sh := got.Shapes["CALL p(:%qpar(1))"]
	if sh == nil || sh.Type != preparser.StmtCall || sh.ParamInfo != "1:?0" {
		t.Fatalf("loaded shape = %+v", sh)
	}
	if got.Statements != 1 || got.UserParams != 1 {
		t.Errorf("loaded summary = %+v", got)
	}

	if err := store.Delete(); err != nil || store.Exists() {
		t.Errorf("Delete() error = %v, exists = %v", err, store.Exists())
	}
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	if _, err := NewStore(filepath.Join(t.TempDir(), "nope.json")).Load(); err == nil {
		t.Fatal("Load() of a missing file succeeded")
	}
}
