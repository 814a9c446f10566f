package render

import (
	"image"
	"testing"

	ifs "github.com/marben/chaosgame"
)

func TestIterateTasks(t *testing.T) {
	tests := []struct {
		threads int
		variant Variant
		want    int
	}{
		{1, Standard, 1},
		{4, Standard, 4},
		{4, LogDensity, 3},
		// one thread still gets an iterate task next to the plot task
		{1, LogDensity, 1},
		{2, LogDensityFlame, 1},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Threads = tt.threads
		cfg.Variant = tt.variant
		if got := cfg.iterateTasks(); got != tt.want {
			t.Errorf("iterateTasks(threads=%d, %v) = %d, want %d", tt.threads, tt.variant, got, tt.want)
		}
	}
}

func TestSingleThreadDensityTasks(t *testing.T) {
	size := image.Pt(32, 32)
	cfg := testConfig()
	cfg.Threads = 1
	cfg.Variant = LogDensity
	r := newTestRenderer(t, size, cfg)
	r.SetTransforms(FromSystem(ifs.Sierpinski(), size))

	r.Start()
	if got := r.sched.Active(Iterate); got != 1 {
		t.Errorf("iterate tasks = %d, want 1", got)
	}
	if got := r.sched.Active(PlotDensity); got != 1 {
		t.Errorf("plot tasks = %d, want 1", got)
	}
}
