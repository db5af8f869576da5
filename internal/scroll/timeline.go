// Package scroll binds scroll progress through a pinned page region to a set
// of staggered element trajectories.
//
// A Timeline is built once per (re)initialization from a seed and sampled as a
// pure function of progress. A Sequencer owns the single live Binding between a
// Timeline and a scroll container and rebuilds it from scratch on resize.
package scroll

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Default timeline parameters for the home page bubble section.
const (
	DefaultStagger     = 0.08
	DefaultDuration    = 0.5
	DefaultMaxOffsetVW = 70
	DefaultMinScale    = 0.2
	DefaultMaxScale    = 0.5
	DefaultPinVH       = 300

	startYVH  = 100
	endYPct   = -100
	fromScale = 1
)

// ErrInvalidConfig indicates timeline parameters that cannot produce trajectories.
var ErrInvalidConfig = errors.New("invalid timeline config")

// Config describes the element set and stagger of one timeline.
type Config struct {
	// Count is the number of animated elements.
	Count int
	// Stagger is the delay between successive element starts, in timeline units.
	Stagger float64
	// Duration is the length of one element's tween, in timeline units.
	Duration float64
	// MaxOffsetVW bounds the random horizontal offset, in viewport-width units.
	MaxOffsetVW float64
	MinScale    float64
	MaxScale    float64
	// PinVH is the scroll distance reserved per element while pinned, in
	// viewport-height units.
	PinVH float64
}

// DefaultConfig returns the bubble section defaults for count elements.
func DefaultConfig(count int) Config {
	return Config{
		Count:       count,
		Stagger:     DefaultStagger,
		Duration:    DefaultDuration,
		MaxOffsetVW: DefaultMaxOffsetVW,
		MinScale:    DefaultMinScale,
		MaxScale:    DefaultMaxScale,
		PinVH:       DefaultPinVH,
	}
}

// Validate reports whether the config can build a timeline.
func (c Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("%w: count %d is negative", ErrInvalidConfig, c.Count)
	case c.Stagger < 0:
		return fmt.Errorf("%w: stagger %v is negative", ErrInvalidConfig, c.Stagger)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration %v must be positive", ErrInvalidConfig, c.Duration)
	case c.MaxOffsetVW < 0:
		return fmt.Errorf("%w: max offset %v is negative", ErrInvalidConfig, c.MaxOffsetVW)
	case c.MinScale < 0 || c.MaxScale < c.MinScale:
		return fmt.Errorf("%w: scale range [%v, %v]", ErrInvalidConfig, c.MinScale, c.MaxScale)
	case c.PinVH < 0:
		return fmt.Errorf("%w: pin length %v is negative", ErrInvalidConfig, c.PinVH)
	}
	return nil
}

// Trajectory is the fixed path of one element for the lifetime of a build.
type Trajectory struct {
	Index     int     `json:"index"`
	OffsetVW  float64 `json:"offsetVW"`
	StartYVH  float64 `json:"startYVH"`
	EndYPct   float64 `json:"endYPct"`
	FromScale float64 `json:"fromScale"`
	ToScale   float64 `json:"toScale"`
	Delay     float64 `json:"delay"`
}

// Frame is the sampled state of one element at a given progress.
type Frame struct {
	Index int `json:"index"`
	// XVW is the horizontal offset in viewport-width units.
	XVW float64 `json:"xVW"`
	// YVH is the vertical translation in viewport-height units, relative to the
	// start position; YPct is the additional translation in percent of the
	// element's own height.
	YVH      float64 `json:"yVH"`
	YPct     float64 `json:"yPct"`
	Scale    float64 `json:"scale"`
	Progress float64 `json:"progress"`
}

// Timeline holds the trajectories generated for one binding.
type Timeline struct {
	Config       Config
	Seed         int64
	Trajectories []Trajectory
}

// NewTimeline generates trajectories for cfg. Random offsets and scales are
// drawn exactly once here, so every Sample on the result is stable.
func NewTimeline(cfg Config, seed int64) (Timeline, error) {
	if err := cfg.Validate(); err != nil {
		return Timeline{}, err
	}
	rng := rand.New(rand.NewSource(seed))
	trajectories := make([]Trajectory, cfg.Count)
	for i := range trajectories {
		trajectories[i] = Trajectory{
			Index:     i,
			OffsetVW:  rng.Float64() * cfg.MaxOffsetVW,
			StartYVH:  startYVH,
			EndYPct:   endYPct,
			FromScale: fromScale,
			ToScale:   mapRange(0, 1, cfg.MinScale, cfg.MaxScale, rng.Float64()),
			Delay:     float64(i) * cfg.Stagger,
		}
	}
	return Timeline{Config: cfg, Seed: seed, Trajectories: trajectories}, nil
}

// TotalDuration is the timeline length: the last element's delay plus one tween.
func (t Timeline) TotalDuration() float64 {
	n := len(t.Trajectories)
	if n == 0 {
		return 0
	}
	return t.Config.Duration + float64(n-1)*t.Config.Stagger
}

// Sample returns every element's frame at scroll progress p. p is clamped to
// [0, 1]; the result depends only on p and the timeline. At p == 1 every
// element has finished.
func (t Timeline) Sample(p float64) []Frame {
	p = clamp01(p)
	elapsed := p * t.TotalDuration()
	frames := make([]Frame, len(t.Trajectories))
	for i, tr := range t.Trajectories {
		local := 0.0
		switch {
		case p == 1:
			local = 1
		case t.Config.Duration > 0:
			local = clamp01((elapsed - tr.Delay) / t.Config.Duration)
		}
		frames[i] = Frame{
			Index:    tr.Index,
			XVW:      tr.OffsetVW,
			YVH:      lerp(tr.StartYVH, 0, local),
			YPct:     lerp(0, tr.EndYPct, local),
			Scale:    lerp(tr.FromScale, tr.ToScale, local),
			Progress: local,
		}
	}
	return frames
}

// Manifest describes a timeline for clients that sample it themselves.
type Manifest struct {
	Count        int          `json:"count"`
	Stagger      float64      `json:"stagger"`
	Duration     float64      `json:"duration"`
	PinVH        float64      `json:"pinVH"`
	Ease         string       `json:"ease"`
	Seed         int64        `json:"seed"`
	Trajectories []Trajectory `json:"trajectories"`
}

// Manifest returns the JSON-ready description of t.
func (t Timeline) Manifest() Manifest {
	trajectories := make([]Trajectory, len(t.Trajectories))
	copy(trajectories, t.Trajectories)
	return Manifest{
		Count:        len(trajectories),
		Stagger:      t.Config.Stagger,
		Duration:     t.Config.Duration,
		PinVH:        t.Config.PinVH * float64(len(trajectories)),
		Ease:         "none",
		Seed:         t.Seed,
		Trajectories: trajectories,
	}
}

func mapRange(inMin, inMax, outMin, outMax, value float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (value-inMin)*(outMax-outMin)/(inMax-inMin)
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
