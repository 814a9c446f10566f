package render

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Kind of a render task.
type Kind int

const (
	Iterate Kind = iota
	PlotDensity
)

func (k Kind) String() string {
	switch k {
	case Iterate:
		return "iterate"
	case PlotDensity:
		return "plot-density"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// State of the scheduler lifecycle.
type State int32

const (
	Stopped State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// ErrorSink receives otherwise uncaught failures of render tasks.
type ErrorSink func(err error, msg string)

func logSink(err error, msg string) {
	Logger().Error(msg, "err", err)
}

type task struct {
	id    uint64
	kind  Kind
	gen   uint64
	since time.Time
	rnd   *rand.Rand

	cancelled atomic.Bool
	done      atomic.Bool
	units     atomic.Uint64
}

// unitFunc runs one unit of work. It returns false once the task has nothing
// left to do.
type unitFunc func(ctx context.Context, t *task) bool

// Scheduler owns the render tasks. Every task loops over units of work until
// its cancel flag is set or the generation it was spawned in has passed.
type Scheduler struct {
	units   map[Kind]unitFunc
	sink    ErrorSink
	metrics *Metrics

	running atomic.Bool
	gen     atomic.Uint64
	nextID  atomic.Uint64

	mu     sync.Mutex
	idle   *sync.Cond
	state  State
	ctx    context.Context
	cancel context.CancelFunc
	tasks  map[Kind]map[*task]struct{}
}

func newScheduler(units map[Kind]unitFunc, sink ErrorSink, metrics *Metrics) *Scheduler {
	if sink == nil {
		sink = logSink
	}
	s := &Scheduler{
		units:   units,
		sink:    sink,
		metrics: metrics,
		tasks: map[Kind]map[*task]struct{}{
			Iterate:     {},
			PlotDensity: {},
		},
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Start spawns a batch of tasks. The tasks wait on a latch released only once
// the whole batch is registered. Start is a no-op returning false if the
// scheduler is already running.
func (s *Scheduler) Start(iterate, plot int) bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Starting
	s.ctx, s.cancel = context.WithCancel(context.Background())
	latch := make(chan struct{})
	for range max(iterate, 1) {
		s.submit(Iterate, latch)
	}
	for range plot {
		s.submit(PlotDensity, latch)
	}
	close(latch)
	s.state = Running

	Logger().Info("render started", "iterate", max(iterate, 1), "plot", plot, "generation", s.gen.Load())
	return true
}

// Stop cancels every task and blocks until all of them have returned. After
// Stop returns no task touches shared buffers. It returns false if the
// scheduler was not running. Stop must not be called from a render task.
func (s *Scheduler) Stop() bool {
	if !s.running.CompareAndSwap(true, false) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Stopping
	for _, set := range s.tasks {
		for t := range set {
			t.cancelled.Store(true)
		}
	}
	s.gen.Add(1)
	if s.cancel != nil {
		s.cancel()
	}
	for s.lenLocked() > 0 {
		s.idle.Wait()
	}
	s.state = Stopped

	Logger().Info("render stopped", "generation", s.gen.Load())
	return true
}

// Invalidate bumps the generation token. Every task spawned before the bump
// finishes its current unit and returns, without its cancel flag being set.
func (s *Scheduler) Invalidate() uint64 {
	return s.gen.Add(1)
}

// Resize moves the number of live ITERATE tasks towards want: missing tasks are
// spawned at once, a surplus is shed one task per call.
func (s *Scheduler) Resize(want int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return
	}
	want = max(want, 1)
	active := s.activeLocked(Iterate)
	switch {
	case want > active:
		latch := make(chan struct{})
		close(latch)
		for range want - active {
			s.submit(Iterate, latch)
		}
		Logger().Debug("render tasks added", "from", active, "to", want)
	case want < active:
		for t := range s.tasks[Iterate] {
			if !t.done.Load() && !t.cancelled.Load() {
				t.cancelled.Store(true)
				Logger().Debug("render task shed", "task", t.id, "active", active, "want", want)
				break
			}
		}
	}
}

func (s *Scheduler) IsRunning() bool { return s.running.Load() }

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Generation() uint64 { return s.gen.Load() }

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lenLocked()
}

// Active returns the number of tasks of a kind that are neither done nor
// cancelled.
func (s *Scheduler) Active(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(kind)
}

func (s *Scheduler) lenLocked() int {
	n := 0
	for _, set := range s.tasks {
		n += len(set)
	}
	return n
}

func (s *Scheduler) activeLocked(kind Kind) int {
	n := 0
	for t := range s.tasks[kind] {
		if !t.done.Load() && !t.cancelled.Load() {
			n++
		}
	}
	return n
}

// submit registers and spawns one task. s.mu must be held.
func (s *Scheduler) submit(kind Kind, latch <-chan struct{}) {
	t := &task{
		id:    s.nextID.Add(1),
		kind:  kind,
		gen:   s.gen.Load(),
		since: time.Now(),
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	s.tasks[kind][t] = struct{}{}
	s.metrics.taskStarted(kind)
	go s.run(s.ctx, t, latch)
}

func (s *Scheduler) run(ctx context.Context, t *task, latch <-chan struct{}) {
	defer s.cleanup(t)
	<-latch

	unit := s.units[t.kind]
	for {
		more := s.runUnit(ctx, unit, t)
		t.units.Add(1)
		if !more || t.cancelled.Load() || s.gen.Load() != t.gen {
			return
		}
	}
}

func (s *Scheduler) runUnit(ctx context.Context, unit unitFunc, t *task) (more bool) {
	defer func() {
		if r := recover(); r != nil {
			s.sink(fmt.Errorf("%s task %d: %v", t.kind, t.id, r), "render task failed")
			more = false
		}
	}()
	return unit(ctx, t)
}

// cleanup purges a finished task. When the last ITERATE task is gone the
// plotting task is cancelled too, and an empty registry while still running
// stops the scheduler.
func (s *Scheduler) cleanup(t *task) {
	t.done.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks[t.kind], t)
	s.metrics.taskFinished(t.kind)
	s.idle.Broadcast()
	Logger().Debug("render task finished", "task", t.id, "kind", t.kind, "units", t.units.Load())

	if s.state != Running {
		return
	}
	if t.kind == Iterate && len(s.tasks[Iterate]) == 0 {
		for p := range s.tasks[PlotDensity] {
			p.cancelled.Store(true)
		}
	}
	if s.lenLocked() == 0 && s.running.CompareAndSwap(true, false) {
		s.state = Stopped
		s.gen.Add(1)
		s.cancel()
		Logger().Info("render stopped: no tasks left", "generation", s.gen.Load())
	}
}

// TaskInfo describes one registered task.
type TaskInfo struct {
	ID         uint64        `json:"id"`
	Kind       string        `json:"kind"`
	Generation uint64        `json:"generation"`
	Cancelled  bool          `json:"cancelled"`
	Done       bool          `json:"done"`
	Units      uint64        `json:"units"`
	Age        time.Duration `json:"age"`
}

// Snapshot lists the registered tasks ordered by id.
func (s *Scheduler) Snapshot() []TaskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []TaskInfo
	for _, set := range s.tasks {
		for t := range set {
			out = append(out, TaskInfo{
				ID:         t.id,
				Kind:       t.kind.String(),
				Generation: t.gen,
				Cancelled:  t.cancelled.Load(),
				Done:       t.done.Load(),
				Units:      t.units.Load(),
				Age:        time.Since(t.since),
			})
		}
	}
	slices.SortFunc(out, func(a, b TaskInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
