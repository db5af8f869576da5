package scroll

import "sync"

// Scroller is a scrollable container that can pin a region.
type Scroller interface {
	ScrollY() float64
	// OnScroll registers fn for scroll position changes. The returned cancel
	// detaches it.
	OnScroll(fn func(scrollY float64)) (cancel func())
	// Reserve holds pin spacing for region until release is called.
	Reserve(region Region) (release func())
}

// Viewport is the view that hosts scroll containers.
type Viewport interface {
	// ScrollContainer looks up a scroll container by element id.
	ScrollContainer(id string) (Scroller, bool)
	Size() Size
	OnResize(fn func(Size)) (cancel func())
}

// Binding drives one Timeline from one Scroller. It owns a scroll listener and
// a pin reservation until Release.
type Binding struct {
	timeline Timeline
	region   Region
	onFrame  func([]Frame)

	mu       sync.Mutex
	frames   []Frame
	progress float64
	released bool
	cancel   func()
	release  func()
}

// Bind attaches timeline to scroller over region and computes the initial
// frames from the current scroll position.
func Bind(scroller Scroller, timeline Timeline, region Region, onFrame func([]Frame)) *Binding {
	b := &Binding{
		timeline: timeline,
		region:   region,
		onFrame:  onFrame,
	}
	b.release = scroller.Reserve(region)
	b.update(scroller.ScrollY())
	b.cancel = scroller.OnScroll(b.update)
	return b
}

func (b *Binding) update(scrollY float64) {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.progress = b.region.Progress(scrollY)
	b.frames = b.timeline.Sample(b.progress)
	frames := b.frames
	onFrame := b.onFrame
	b.mu.Unlock()

	if onFrame != nil {
		onFrame(frames)
	}
}

// Timeline returns the trajectories this binding drives.
func (b *Binding) Timeline() Timeline {
	return b.timeline
}

// Region returns the pinned region of this binding.
func (b *Binding) Region() Region {
	return b.region
}

// Progress returns the last observed normalized progress.
func (b *Binding) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

// Frames returns the frames computed for the last observed scroll position.
func (b *Binding) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Frame, len(b.frames))
	copy(out, b.frames)
	return out
}

// Released reports whether Release has been called.
func (b *Binding) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Release detaches the scroll listener and frees the pin reservation. It is
// safe to call more than once.
func (b *Binding) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	cancel, release := b.cancel, b.release
	b.cancel, b.release = nil, nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if release != nil {
		release()
	}
}
