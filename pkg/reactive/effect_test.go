package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	rt := NewRuntime()
	ran := false
	rt.Effect(func() Cleanup {
		ran = true
		return nil
	})
	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectRerunsSynchronously(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)
	var seen []int
	rt.Effect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})

	count.Set(1)
	count.Set(2)

	want := []int{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 0)
	var log []string
	rt.Effect(func() Cleanup {
		v := s.Get()
		log = append(log, "run")
		return func() {
			log = append(log, "cleanup")
			_ = v
		}
	})
	s.Set(1)

	want := []string{"run", "cleanup", "run"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	rt := NewRuntime()
	useA := NewSignal(rt, true)
	a := NewSignal(rt, "a")
	b := NewSignal(rt, "b")
	runs := 0
	rt.Effect(func() Cleanup {
		runs++
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		return nil
	})

	b.Set("b2")
	if runs != 1 {
		t.Errorf("runs = %d, want 1 (b not read yet)", runs)
	}
	useA.Set(false)
	a.Set("a2")
	if runs != 2 {
		t.Errorf("runs = %d, want 2 (a no longer read)", runs)
	}
	b.Set("b3")
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestNestedEffectDoesNotRerunParent(t *testing.T) {
	rt := NewRuntime()
	outerSig := NewSignal(rt, 0)
	innerSig := NewSignal(rt, 0)
	outerRuns, innerRuns := 0, 0

	rt.Effect(func() Cleanup {
		_ = outerSig.Get()
		outerRuns++
		rt.Effect(func() Cleanup {
			_ = innerSig.Get()
			innerRuns++
			return nil
		})
		return nil
	})

	innerSig.Set(1)
	if outerRuns != 1 {
		t.Errorf("outerRuns = %d, want 1", outerRuns)
	}
	if innerRuns != 2 {
		t.Errorf("innerRuns = %d, want 2", innerRuns)
	}

	outerSig.Set(1)
	if outerRuns != 2 {
		t.Errorf("outerRuns = %d, want 2", outerRuns)
	}
	// the old inner effect was disposed; only the new one reacts
	innerSig.Set(2)
	if innerRuns != 4 {
		t.Errorf("innerRuns = %d, want 4", innerRuns)
	}
}

func TestEffectDisposeCascades(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 0)
	innerRuns := 0
	var inner *Effect
	outer := rt.Effect(func() Cleanup {
		inner = rt.Effect(func() Cleanup {
			_ = s.Get()
			innerRuns++
			return nil
		})
		return nil
	})

	outer.Dispose()
	outer.Dispose()
	if !inner.Disposed() {
		t.Error("inner effect should be disposed with its owner")
	}
	s.Set(1)
	if innerRuns != 1 {
		t.Errorf("innerRuns = %d, want 1", innerRuns)
	}
	if got := rt.Stats().EffectsDisposed; got != 2 {
		t.Errorf("EffectsDisposed = %d, want 2", got)
	}
}

func TestEffectSelfWriteSettles(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 0)
	rt.Effect(func() Cleanup {
		if v := s.Get(); v < 3 {
			s.Set(v + 1)
		}
		return nil
	})
	if s.Peek() != 3 {
		t.Errorf("Peek() = %d, want 3", s.Peek())
	}
}

func TestBatch(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 0)
	b := NewSignal(rt, 0)
	runs := 0
	rt.Effect(func() Cleanup {
		_ = a.Get() + b.Get()
		runs++
		return nil
	})

	rt.Batch(func() {
		a.Set(1)
		b.Set(2)
		rt.Batch(func() {
			a.Set(3)
		})
		if runs != 1 {
			t.Errorf("runs = %d inside batch, want 1", runs)
		}
	})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestUntracked(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 0)
	runs := 0
	rt.Effect(func() Cleanup {
		rt.Untracked(func() {
			_ = s.Get()
		})
		runs++
		return nil
	})
	s.Set(1)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestOnCleanup(t *testing.T) {
	rt := NewRuntime()
	if rt.OnCleanup(func() {}) {
		t.Error("OnCleanup outside an effect should report false")
	}

	s := NewSignal(rt, 0)
	cleaned := 0
	e := rt.Effect(func() Cleanup {
		_ = s.Get()
		rt.OnCleanup(func() { cleaned++ })
		return nil
	})
	s.Set(1)
	if cleaned != 1 {
		t.Errorf("cleaned = %d after rerun, want 1", cleaned)
	}
	e.Dispose()
	if cleaned != 2 {
		t.Errorf("cleaned = %d after dispose, want 2", cleaned)
	}
}
