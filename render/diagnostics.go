package render

import (
	"fmt"
	"runtime/pprof"
	"strings"
	"time"
)

// ThreadDump describes the scheduler and every task, followed by the stacks
// of all goroutines grouped by identical trace.
func (r *Renderer) ThreadDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state=%s generation=%d count=%d\n", r.sched.State(), r.sched.Generation(), r.Count())
	for _, t := range r.TaskSnapshot() {
		fmt.Fprintf(&b, "task %d %s gen=%d cancelled=%t done=%t units=%d age=%s\n",
			t.ID, t.Kind, t.Generation, t.Cancelled, t.Done, t.Units, t.Age.Round(time.Millisecond))
	}
	b.WriteString("\n")
	if err := pprof.Lookup("goroutine").WriteTo(&b, 1); err != nil {
		fmt.Fprintf(&b, "goroutine profile: %v\n", err)
	}
	return b.String()
}
