package render

import (
	"context"
		"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or five seconds pass.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func sleepUnit(ctx context.Context, _ *task) bool {
	select {
	case <-ctx.Done():
	case <-time.After(time.Millisecond):
	}
	return true
}

func newTestScheduler(iterate, plot unitFunc, sink ErrorSink) *Scheduler {
	if plot == nil {
		plot = sleepUnit
	}
	return newScheduler(map[Kind]unitFunc{Iterate: iterate, PlotDensity: plot}, sink, nil)
}

func TestSchedulerStartStop(t *testing.T) {
	s := newTestScheduler(sleepUnit, nil, nil)

	for i := range 5 {
		if !s.Start(2, 1) {
			t.Fatalf("round %d: Start returned false", i)
		}
		if s.Start(2, 1) {
			t.Fatalf("round %d: second Start returned true", i)
		}
		if got := s.Len(); got != 3 {
			t.Errorf("round %d: Len() = %d after start, want 3", i, got)
		}
		if !s.Stop() {
			t.Fatalf("round %d: Stop returned false", i)
		}
		if got := s.Len(); got != 0 {
			t.Errorf("round %d: Len() = %d after stop, want 0", i, got)
		}
		if s.Stop() {
			t.Fatalf("round %d: second Stop returned true", i)
		}
		if s.State() != Stopped {
			t.Errorf("round %d: state %v, want stopped", i, s.State())
		}
	}
}

func TestSchedulerStartLatch(t *testing.T) {
	var s *Scheduler
	var seen sync.Map
	s = newTestScheduler(func(ctx context.Context, tk *task) bool {
		if _, ok := seen.Load(tk.id); !ok {
			seen.Store(tk.id, s.Len())
		}
		return sleepUnit(ctx, tk)
	}, nil, nil)

	s.Start(3, 0)
	waitFor(t, "all tasks to run", func() bool {
		n := 0
		seen.Range(func(any, any) bool { n++; return true })
		return n == 3
	})
	s.Stop()

	seen.Range(func(id, n any) bool {
		if n.(int) != 3 {
			t.Errorf("task %v saw %d registered tasks, want 3", id, n)
		}
		return true
	})
}

func TestSchedulerGenerationBump(t *testing.T) {
	var tasks sync.Map
	s := newTestScheduler(func(ctx context.Context, tk *task) bool {
		tasks.Store(tk, struct{}{})
		return sleepUnit(ctx, tk)
	}, nil, nil)

	s.Start(3, 0)
	gen := s.Generation()
	waitFor(t, "tasks to run", func() bool { return s.Active(Iterate) == 3 })

	if got := s.Invalidate(); got != gen+1 {
		t.Errorf("Invalidate() = %d, want %d", got, gen+1)
	}
	waitFor(t, "implicit stop", func() bool { return !s.IsRunning() })

	if s.Len() != 0 {
		t.Errorf("Len() = %d after implicit stop, want 0", s.Len())
	}
	if s.State() != Stopped {
		t.Errorf("state %v, want stopped", s.State())
	}
	tasks.Range(func(k, _ any) bool {
		if k.(*task).cancelled.Load() {
			t.Errorf("task %d was cancelled, want it ended by generation", k.(*task).id)
		}
		return true
	})
	if s.Stop() {
		t.Error("Stop after implicit stop returned true")
	}
}

func TestSchedulerResize(t *testing.T) {
	s := newTestScheduler(sleepUnit, nil, nil)
	s.Start(1, 0)
	defer s.Stop()

	s.Resize(3)
	if got := s.Active(Iterate); got != 3 {
		t.Fatalf("after Resize(3) Active = %d, want 3", got)
	}
	s.Resize(1)
	if got := s.Active(Iterate); got != 2 {
		t.Errorf("after one Resize(1) Active = %d, want 2", got)
	}
	s.Resize(1)
	if got := s.Active(Iterate); got != 1 {
		t.Errorf("after two Resize(1) Active = %d, want 1", got)
	}
	waitFor(t, "shed tasks to finish", func() bool { return s.Len() == 1 })
	if !s.IsRunning() {
		t.Error("scheduler stopped while a task is alive")
	}
}

func TestSchedulerResizeWhenStopped(t *testing.T) {
	s := newTestScheduler(sleepUnit, nil, nil)
	s.Resize(4)
	if s.Len() != 0 {
		t.Errorf("Resize on a stopped scheduler spawned %d tasks", s.Len())
	}
}

func TestSchedulerPanicReachesSink(t *testing.T) {
	errc := make(chan error, 4)
	s := newTestScheduler(func(context.Context, *task) bool {
		panic("boom")
	}, nil, func(err error, _ string) {
		errc <- err
	})

	s.Start(2, 0)
	waitFor(t, "implicit stop", func() bool { return !s.IsRunning() })

	for range 2 {
		select {
		case err := <-errc:
			if err == nil || !strings.Contains(err.Error(), "boom") {
				t.Errorf("sink got %v, want the panic value", err)
			}
		case <-time.After(time.Second):
			t.Fatal("sink was not called")
		}
	}
}

func TestSchedulerLastIterateCancelsPlot(t *testing.T) {
	var plotUnits atomic.Int64
	s := newTestScheduler(func(context.Context, *task) bool {
		time.Sleep(5 * time.Millisecond)
		return false
	}, func(ctx context.Context, tk *task) bool {
		plotUnits.Add(1)
		return sleepUnit(ctx, tk)
	}, nil)

	s.Start(1, 1)
	waitFor(t, "implicit stop", func() bool { return !s.IsRunning() })
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if plotUnits.Load() == 0 {
		t.Error("plot task never ran")
	}
}

func TestSchedulerSnapshot(t *testing.T) {
	s := newTestScheduler(sleepUnit, nil, nil)
	s.Start(2, 1)
	defer s.Stop()

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("got %d tasks, want 3", len(snap))
	}
	kinds := map[string]int{}
	for i, ti := range snap {
		if i > 0 && snap[i-1].ID >= ti.ID {
			t.Errorf("snapshot not ordered by id: %d before %d", snap[i-1].ID, ti.ID)
		}
		kinds[ti.Kind]++
	}
	if kinds["iterate"] != 2 || kinds["plot-density"] != 1 {
		t.Errorf("kinds = %v", kinds)
	}
}
