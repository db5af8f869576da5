package scroll

import (
	"sort"
	"sync"
)

// Window is an in-memory Viewport. Events are dispatched synchronously on the
// caller's goroutine, in listener registration order, which makes it usable as
// a headless view for previews and tests.
type Window struct {
	mu         sync.Mutex
	size       Size
	containers map[string]*Container
	listeners  listenerSet[Size]
}

// NewWindow returns a window of the given size with no scroll containers.
func NewWindow(size Size) *Window {
	return &Window{
		size:       size,
		containers: map[string]*Container{},
	}
}

// AddContainer creates (or returns) the scroll container with id.
func (w *Window) AddContainer(id string) *Container {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.containers[id]; ok {
		return c
	}
	c := &Container{id: id}
	w.containers[id] = c
	return c
}

// RemoveContainer drops the scroll container with id, as when its element
// leaves the view tree.
func (w *Window) RemoveContainer(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.containers, id)
}

// Container returns the scroll container with id.
func (w *Window) Container(id string) (*Container, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.containers[id]
	return c, ok
}

// ScrollContainer implements Viewport.
func (w *Window) ScrollContainer(id string) (Scroller, bool) {
	c, ok := w.Container(id)
	if !ok {
		return nil, false
	}
	return c, true
}

// Size implements Viewport.
func (w *Window) Size() Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// OnResize implements Viewport.
func (w *Window) OnResize(fn func(Size)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.listeners.add(&w.mu, fn)
}

// Resize changes the window size and notifies resize listeners.
func (w *Window) Resize(size Size) {
	w.mu.Lock()
	w.size = size
	fns := w.listeners.snapshot()
	w.mu.Unlock()

	for _, fn := range fns {
		fn(size)
	}
}

// Listeners counts resize listeners plus scroll listeners of every container.
func (w *Window) Listeners() int {
	w.mu.Lock()
	total := w.listeners.len()
	containers := make([]*Container, 0, len(w.containers))
	for _, c := range w.containers {
		containers = append(containers, c)
	}
	w.mu.Unlock()

	for _, c := range containers {
		total += c.Listeners()
	}
	return total
}

// Container is an in-memory Scroller.
type Container struct {
	id string

	mu           sync.Mutex
	scrollY      float64
	listeners    listenerSet[float64]
	reservations map[int]Region
	nextReserve  int
}

// ID returns the container element id.
func (c *Container) ID() string {
	return c.id
}

// ScrollY implements Scroller.
func (c *Container) ScrollY() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollY
}

// OnScroll implements Scroller.
func (c *Container) OnScroll(fn func(float64)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listeners.add(&c.mu, fn)
}

// Reserve implements Scroller.
func (c *Container) Reserve(region Region) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reservations == nil {
		c.reservations = map[int]Region{}
	}
	id := c.nextReserve
	c.nextReserve++
	c.reservations[id] = region
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.reservations, id)
			c.mu.Unlock()
		})
	}
}

// ScrollTo moves the scroll position and notifies scroll listeners.
func (c *Container) ScrollTo(y float64) {
	c.mu.Lock()
	c.scrollY = y
	fns := c.listeners.snapshot()
	c.mu.Unlock()

	for _, fn := range fns {
		fn(y)
	}
}

// Listeners counts attached scroll listeners.
func (c *Container) Listeners() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listeners.len()
}

// Reservations returns the held pin reservations in acquisition order.
func (c *Container) Reservations() []Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int, 0, len(c.reservations))
	for id := range c.reservations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Region, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.reservations[id])
	}
	return out
}

// listenerSet is an ordered set of callbacks. The owner's mutex guards it.
type listenerSet[T any] struct {
	next int
	fns  map[int]func(T)
}

// add registers fn; the caller must hold mu. The returned cancel acquires mu.
func (s *listenerSet[T]) add(mu *sync.Mutex, fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	if s.fns == nil {
		s.fns = map[int]func(T){}
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			delete(s.fns, id)
			mu.Unlock()
		})
	}
}

func (s *listenerSet[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.fns[id])
	}
	return out
}

func (s *listenerSet[T]) len() int {
	return len(s.fns)
}

var (
	_ Viewport = (*Window)(nil)
	_ Scroller = (*Container)(nil)
)
