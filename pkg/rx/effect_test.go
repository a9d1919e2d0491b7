package rx

import "testing"

func TestEffectRunsWhenDirty(t *testing.T) {
	top := Toplevel()
	a := NewValue(1)
	e := NewEffect()

	runs := 0
	var seen int
	push := func() bool {
		return e.Call(top.Ctx(), func(ctx *Ctx) {
			runs++
			seen = a.Read(ctx)
		})
	}

	// First call always runs: the node starts dirty.
	if !push() {
		t.Fatal("first call did not run")
	}
	if seen != 1 {
		t.Errorf("expected 1, got %d", seen)
	}

	// Clean node: no-op.
	if push() {
		t.Error("clean effect re-ran")
	}
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}

	*a.Mutate() = 7
	if !push() {
		t.Error("dirty effect did not run")
	}
	if seen != 7 {
		t.Errorf("expected 7, got %d", seen)
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestEffectThroughMemoChain(t *testing.T) {
	top := Toplevel()
	a := NewValue(2)
	double := NewFunc[struct{}, int]()
	e := NewEffect()

	var painted int
	push := func() bool {
		return e.Call(top.Ctx(), func(ctx *Ctx) {
			out, _ := double.Call(ctx, struct{}{}, func(ctx *Ctx, _ struct{}) int {
				return a.Read(ctx) * 2
			})
			painted = out
		})
	}

	push()
	if painted != 4 {
		t.Errorf("expected 4, got %d", painted)
	}

	// The leaf mutation reaches the effect through the memo.
	*a.Mutate() = 5
	if !push() {
		t.Error("effect not invalidated through memo chain")
	}
	if painted != 10 {
		t.Errorf("expected 10, got %d", painted)
	}
}

func TestEffectGenerationBumpsPerRun(t *testing.T) {
	top := Toplevel()
	a := NewValue(0)
	e := NewEffect()

	push := func() {
		e.Call(top.Ctx(), func(ctx *Ctx) {
			a.Read(ctx)
		})
	}

	push()
	if e.dep.generation != 1 {
		t.Errorf("expected generation 1, got %d", e.dep.generation)
	}
	push() // clean, no bump
	if e.dep.generation != 1 {
		t.Errorf("no-op call bumped generation to %d", e.dep.generation)
	}
	*a.Mutate() = 1
	push()
	if e.dep.generation != 2 {
		t.Errorf("expected generation 2, got %d", e.dep.generation)
	}
}
