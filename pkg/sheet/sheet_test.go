package sheet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvalSimpleFormulas(t *testing.T) {
	s := New(4)

	if err := s.SetSource(0, "1 + 2 * 3"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSource(1, "(1 + 2) * 3"); err != nil {
		t.Fatal(err)
	}

	if got := s.Eval(0); got != (Result{Num: 7, Valid: true}) {
		t.Errorf("cell 0: got %+v", got)
	}
	if got := s.Eval(1); got != (Result{Num: 9, Valid: true}) {
		t.Errorf("cell 1: got %+v", got)
	}
	// Untouched cells have no value.
	if got := s.Eval(2); got.Valid {
		t.Errorf("empty cell evaluated to %+v", got)
	}
}

func TestCrossCellReferences(t *testing.T) {
	s := New(4)

	mustSet(t, s, 0, "10")
	mustSet(t, s, 1, "$0 * 2")
	mustSet(t, s, 2, "$0 + $1")

	want := []CellState{
		{Index: 0, Src: "10", Value: "10", Valid: true},
		{Index: 1, Src: "$0 * 2", Value: "20", Valid: true},
		{Index: 2, Src: "$0 + $1", Value: "30", Valid: true},
		{Index: 3},
	}
	got := s.Snapshot(s.Dep().Ctx())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Editing the leaf re-evaluates the dependents.
	mustSet(t, s, 0, "5")
	if got := s.Eval(2); got != (Result{Num: 15, Valid: true}) {
		t.Errorf("cell 2 after edit: got %+v", got)
	}
}

func TestEditOnlyReevaluatesDependents(t *testing.T) {
	s := New(3)
	mustSet(t, s, 0, "1")
	mustSet(t, s, 1, "$0 + 1")
	mustSet(t, s, 2, "100")

	s.Snapshot(s.Dep().Ctx())

	gen1 := s.cells[1].eval.Dep().Generation()
	gen2 := s.cells[2].eval.Dep().Generation()

	mustSet(t, s, 0, "2")
	s.Snapshot(s.Dep().Ctx())

	if got := s.cells[1].eval.Dep().Generation(); got != gen1+1 {
		t.Errorf("dependent cell did not re-run exactly once: %d -> %d", gen1, got)
	}
	if got := s.cells[2].eval.Dep().Generation(); got != gen2 {
		t.Errorf("independent cell re-ran: %d -> %d", gen2, got)
	}
}

func TestCycleEvaluatesToNoValue(t *testing.T) {
	s := New(2)
	mustSet(t, s, 0, "$1 + 1")
	mustSet(t, s, 1, "$0 + 1")

	// Both cells participate in a cycle; evaluation terminates and
	// yields no value.
	if got := s.Eval(0); got.Valid {
		t.Errorf("cyclic cell 0 evaluated to %+v", got)
	}
	if got := s.Eval(1); got.Valid {
		t.Errorf("cyclic cell 1 evaluated to %+v", got)
	}

	// Breaking the cycle re-evaluates both participants.
	mustSet(t, s, 1, "4")
	if got := s.Eval(0); got != (Result{Num: 5, Valid: true}) {
		t.Errorf("cell 0 after breaking cycle: got %+v", got)
	}
	if got := s.Eval(1); got != (Result{Num: 4, Valid: true}) {
		t.Errorf("cell 1 after breaking cycle: got %+v", got)
	}
}

func TestParseErrorSurfacesAndClearsValue(t *testing.T) {
	s := New(2)
	mustSet(t, s, 0, "3")

	if err := s.SetSource(0, "3 +"); err == nil {
		t.Fatal("expected parse error")
	}
	// The broken cell keeps its source but has no value.
	if got := s.Source(0); got != "3 +" {
		t.Errorf("source not retained: %q", got)
	}
	if got := s.Eval(0); got.Valid {
		t.Errorf("broken cell evaluated to %+v", got)
	}

	// Recovering the formula restores the value.
	mustSet(t, s, 0, "3 + 1")
	if got := s.Eval(0); got != (Result{Num: 4, Valid: true}) {
		t.Errorf("recovered cell: got %+v", got)
	}
}

func TestDanglingReferenceHasNoValue(t *testing.T) {
	s := New(2)
	mustSet(t, s, 0, "$9 + 1")

	if got := s.Eval(0); got.Valid {
		t.Errorf("dangling reference evaluated to %+v", got)
	}

	mustSet(t, s, 1, "$abc")
	if got := s.Eval(1); got.Valid {
		t.Errorf("non-numeric reference evaluated to %+v", got)
	}
}

func TestSetSourceOutOfRange(t *testing.T) {
	s := New(1)
	if err := s.SetSource(5, "1"); err == nil {
		t.Error("expected out-of-range error")
	}
	if err := s.SetSource(-1, "1"); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestChangeLogRecordsEdits(t *testing.T) {
	s := New(2)
	mustSet(t, s, 0, "1")
	mustSet(t, s, 1, "$0")
	mustSet(t, s, 0, "2")

	if got := s.EditCount(); got != 3 {
		t.Fatalf("expected 3 edits, got %d", got)
	}

	entries := s.Edits(s.Dep().Ctx())
	want := []Edit{{Cell: 0, Src: "1"}, {Cell: 1, Src: "$0"}, {Cell: 0, Src: "2"}}
	for i, w := range want {
		if diff := cmp.Diff(w, entries[i].Value); diff != "" {
			t.Errorf("edit %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	// Entry identity is stable across later edits.
	first := entries[0].ID()
	mustSet(t, s, 0, "3")
	if got := s.Edits(s.Dep().Ctx())[0].ID(); got != first {
		t.Error("edit entry identifier changed")
	}
}

func mustSet(t *testing.T, s *Sheet, i int, src string) {
	t.Helper()
	if err := s.SetSource(i, src); err != nil {
		t.Fatalf("SetSource(%d, %q): %v", i, src, err)
	}
}
