package scroll

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/solvefurniture/storefront/internal/platform/random"
)

// DefaultContainerID is the scroll container of the home page.
const DefaultContainerID = "homeWrapper"

// ErrAlreadyMounted is returned when Mount is called on a mounted sequencer.
var ErrAlreadyMounted = errors.New("sequencer already mounted")

// SeedSource draws the seed for one timeline build.
type SeedSource func() (int64, error)

// FixedSeed always returns seed. Rebuilds with a fixed seed reproduce the
// same trajectories.
func FixedSeed(seed int64) SeedSource {
	return func() (int64, error) { return seed, nil }
}

// Options configures a Sequencer.
type Options struct {
	// ContainerID names the scroll container the region lives in.
	ContainerID string
	// TriggerTop returns the scroll position at which the pinned region
	// starts for a viewport size. Nil means the container top.
	TriggerTop func(Size) float64
	// Seeds draws one seed per build. Nil uses a crypto-random seed.
	Seeds SeedSource
	// OnFrame receives frames whenever the active binding samples. It must not
	// call Mount or Unmount.
	OnFrame func([]Frame)
}

// Sequencer owns the lifecycle of the scroll binding for one mounted view:
// one binding while mounted, rebuilt on every resize, none after unmount.
type Sequencer struct {
	cfg  Config
	opts Options

	// rebuildMu serializes mount, resize rebuilds and unmount.
	rebuildMu sync.Mutex

	mu           sync.Mutex
	mounted      bool
	viewport     Viewport
	scroller     Scroller
	binding      *Binding
	cancelResize func()
	builds       int
}

// NewSequencer validates cfg and returns an unmounted sequencer.
func NewSequencer(cfg Config, opts Options) (*Sequencer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts.ContainerID = strings.TrimSpace(opts.ContainerID)
	if opts.ContainerID == "" {
		opts.ContainerID = DefaultContainerID
	}
	if opts.Seeds == nil {
		opts.Seeds = random.NewSeed
	}
	return &Sequencer{cfg: cfg, opts: opts}, nil
}

// Mount binds the timeline to the viewport's scroll container and listens for
// resizes. A missing container is not an error: nothing is bound.
func (s *Sequencer) Mount(vp Viewport) error {
	if vp == nil {
		return nil
	}
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mu.Unlock()

	scroller, ok := vp.ScrollContainer(s.opts.ContainerID)
	if !ok || scroller == nil {
		return nil
	}

	binding, err := s.bind(scroller, vp.Size())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mounted = true
	s.viewport = vp
	s.scroller = scroller
	s.binding = binding
	s.mu.Unlock()

	cancel := vp.OnResize(s.handleResize)
	s.mu.Lock()
	s.cancelResize = cancel
	s.mu.Unlock()
	return nil
}

// handleResize discards the current binding and builds a new one from
// scratch. The old binding is released before the new one attaches.
func (s *Sequencer) handleResize(size Size) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	old := s.binding
	s.binding = nil
	scroller := s.scroller
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}

	binding, err := s.bind(scroller, size)
	if err != nil {
		log.Printf("rebuild scroll binding: %v", err)
		return
	}
	s.mu.Lock()
	s.binding = binding
	s.mu.Unlock()
}

func (s *Sequencer) bind(scroller Scroller, size Size) (*Binding, error) {
	seed, err := s.opts.Seeds()
	if err != nil {
		return nil, fmt.Errorf("draw timeline seed: %w", err)
	}
	timeline, err := NewTimeline(s.cfg, seed)
	if err != nil {
		return nil, err
	}
	triggerTop := 0.0
	if s.opts.TriggerTop != nil {
		triggerTop = s.opts.TriggerTop(size)
	}
	region := RegionFor(triggerTop, size, s.cfg)

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()
	return Bind(scroller, timeline, region, s.opts.OnFrame), nil
}

// Unmount releases the binding and the resize listener. Later scroll and
// resize events have no effect. Unmounting an unmounted sequencer is a no-op.
func (s *Sequencer) Unmount() {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	binding := s.binding
	cancel := s.cancelResize
	s.binding = nil
	s.cancelResize = nil
	s.scroller = nil
	s.viewport = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if binding != nil {
		binding.Release()
	}
}

// Mounted reports whether the sequencer holds a view.
func (s *Sequencer) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Binding returns the active binding, or nil.
func (s *Sequencer) Binding() *Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binding
}

// Active returns the number of live bindings: 0 or 1.
func (s *Sequencer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.binding == nil || s.binding.Released() {
		return 0
	}
	return 1
}

// Builds returns how many timelines have been built since construction.
func (s *Sequencer) Builds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builds
}
