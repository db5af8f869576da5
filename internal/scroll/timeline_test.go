package scroll

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewTimelineRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "negative count", cfg: Config{Count: -1, Duration: 1}},
		{name: "negative stagger", cfg: Config{Count: 1, Stagger: -0.1, Duration: 1}},
		{name: "zero duration", cfg: Config{Count: 1}},
		{name: "inverted scale", cfg: Config{Count: 1, Duration: 1, MinScale: 0.5, MaxScale: 0.2}},
		{name: "negative pin", cfg: Config{Count: 1, Duration: 1, PinVH: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTimeline(tt.cfg, 1)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("NewTimeline() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewTimelineSameSeedSameTrajectories(t *testing.T) {
	t.Parallel()

	first, err := NewTimeline(DefaultConfig(6), 7)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	second, err := NewTimeline(DefaultConfig(6), 7)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("trajectories differ for equal seeds:\n%+v\n%+v", first.Trajectories, second.Trajectories)
	}
}

func TestNewTimelineTrajectoryBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig(50)
	tl, err := NewTimeline(cfg, 99)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	if len(tl.Trajectories) != 50 {
		t.Fatalf("len(Trajectories) = %d, want 50", len(tl.Trajectories))
	}
	for i, tr := range tl.Trajectories {
		if tr.Index != i {
			t.Fatalf("Trajectories[%d].Index = %d", i, tr.Index)
		}
		if tr.OffsetVW < 0 || tr.OffsetVW >= cfg.MaxOffsetVW {
			t.Fatalf("Trajectories[%d].OffsetVW = %v, want [0, %v)", i, tr.OffsetVW, cfg.MaxOffsetVW)
		}
		if tr.ToScale < cfg.MinScale || tr.ToScale > cfg.MaxScale {
			t.Fatalf("Trajectories[%d].ToScale = %v, want [%v, %v]", i, tr.ToScale, cfg.MinScale, cfg.MaxScale)
		}
		if !approx(tr.Delay, float64(i)*cfg.Stagger) {
			t.Fatalf("Trajectories[%d].Delay = %v, want %v", i, tr.Delay, float64(i)*cfg.Stagger)
		}
		if tr.StartYVH != 100 || tr.EndYPct != -100 || tr.FromScale != 1 {
			t.Fatalf("Trajectories[%d] endpoints = %+v", i, tr)
		}
	}
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		count int
		want  float64
	}{
		{count: 0, want: 0},
		{count: 1, want: 0.5},
		{count: 3, want: 0.66},
	}
	for _, tt := range tests {
		tl, err := NewTimeline(DefaultConfig(tt.count), 1)
		if err != nil {
			t.Fatalf("NewTimeline() error = %v", err)
		}
		if got := tl.TotalDuration(); !approx(got, tt.want) {
			t.Fatalf("TotalDuration() with %d elements = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestSampleIsPure(t *testing.T) {
	t.Parallel()

	tl, err := NewTimeline(DefaultConfig(8), 3)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	for _, p := range []float64{0, 0.125, 0.5, 0.77, 1} {
		first := tl.Sample(p)
		tl.Sample(1 - p)
		second := tl.Sample(p)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Sample(%v) not stable:\n%+v\n%+v", p, first, second)
		}
	}
}

func TestSampleEndpoints(t *testing.T) {
	t.Parallel()

	tl, err := NewTimeline(DefaultConfig(3), 11)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}

	for _, f := range tl.Sample(0) {
		tr := tl.Trajectories[f.Index]
		if f.Progress != 0 || f.YVH != 100 || f.YPct != 0 || f.Scale != 1 || f.XVW != tr.OffsetVW {
			t.Fatalf("Sample(0)[%d] = %+v", f.Index, f)
		}
	}
	for _, f := range tl.Sample(1) {
		tr := tl.Trajectories[f.Index]
		if !approx(f.Progress, 1) || !approx(f.YVH, 0) || !approx(f.YPct, -100) || !approx(f.Scale, tr.ToScale) {
			t.Fatalf("Sample(1)[%d] = %+v", f.Index, f)
		}
	}
}

func TestSampleClampsProgress(t *testing.T) {
	t.Parallel()

	tl, err := NewTimeline(DefaultConfig(4), 5)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	if !reflect.DeepEqual(tl.Sample(-3), tl.Sample(0)) {
		t.Fatal("Sample(-3) != Sample(0)")
	}
	if !reflect.DeepEqual(tl.Sample(7), tl.Sample(1)) {
		t.Fatal("Sample(7) != Sample(1)")
	}
	if !reflect.DeepEqual(tl.Sample(math.NaN()), tl.Sample(0)) {
		t.Fatal("Sample(NaN) != Sample(0)")
	}
}

func TestSampleStaggersElements(t *testing.T) {
	t.Parallel()

	tl, err := NewTimeline(DefaultConfig(3), 1)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	frames := tl.Sample(0.5)
	// elapsed = 0.5 * 0.66 = 0.33
	want := []float64{0.66, 0.5, 0.34}
	for i, f := range frames {
		if !approx(f.Progress, want[i]) {
			t.Fatalf("frame %d progress = %v, want %v", i, f.Progress, want[i])
		}
		if !approx(f.YVH, 100*(1-want[i])) {
			t.Fatalf("frame %d YVH = %v, want %v", i, f.YVH, 100*(1-want[i]))
		}
	}
	if !(frames[0].Progress > frames[1].Progress && frames[1].Progress > frames[2].Progress) {
		t.Fatalf("later elements should trail earlier ones: %+v", frames)
	}
}

func TestManifestCopiesTrajectories(t *testing.T) {
	t.Parallel()

	tl, err := NewTimeline(DefaultConfig(2), 21)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	m := tl.Manifest()
	if m.Count != 2 || m.Seed != 21 || m.Ease != "none" {
		t.Fatalf("Manifest() = %+v", m)
	}
	if m.PinVH != 600 {
		t.Fatalf("Manifest().PinVH = %v, want 600", m.PinVH)
	}
	m.Trajectories[0].OffsetVW = -1
	if tl.Trajectories[0].OffsetVW == -1 {
		t.Fatal("Manifest() shares trajectory storage with the timeline")
	}
}
