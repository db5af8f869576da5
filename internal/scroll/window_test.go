package scroll

import (
	"reflect"
	"testing"
)

func TestWindowDispatchesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	w := NewWindow(Size{Width: 800, Height: 600})
	var got []string
	cancelA := w.OnResize(func(Size) { got = append(got, "a") })
	w.OnResize(func(Size) { got = append(got, "b") })

	w.Resize(Size{Width: 400, Height: 300})
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("dispatch order = %v, want %v", got, want)
	}
	if w.Size() != (Size{Width: 400, Height: 300}) {
		t.Fatalf("Size() = %+v, want 400x300", w.Size())
	}

	cancelA()
	cancelA()
	got = nil
	w.Resize(Size{Width: 200, Height: 100})
	if want := []string{"b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after cancel dispatch = %v, want %v", got, want)
	}
}

func TestAddContainerReturnsExisting(t *testing.T) {
	t.Parallel()

	w := NewWindow(Size{})
	first := w.AddContainer("main")
	if second := w.AddContainer("main"); second != first {
		t.Fatal("AddContainer() created a second container for the same id")
	}
	if first.ID() != "main" {
		t.Fatalf("ID() = %q, want %q", first.ID(), "main")
	}
}

func TestContainerScrollAndReservations(t *testing.T) {
	t.Parallel()

	c := NewWindow(Size{}).AddContainer("main")
	var seen []float64
	cancel := c.OnScroll(func(y float64) { seen = append(seen, y) })
	c.ScrollTo(120)
	cancel()
	c.ScrollTo(240)

	if !reflect.DeepEqual(seen, []float64{120}) {
		t.Fatalf("scroll events = %v, want [120]", seen)
	}
	if c.ScrollY() != 240 {
		t.Fatalf("ScrollY() = %v, want 240", c.ScrollY())
	}

	releaseA := c.Reserve(Region{Start: 0, Length: 100})
	c.Reserve(Region{Start: 100, Length: 50})
	releaseA()
	releaseA()
	if got := c.Reservations(); !reflect.DeepEqual(got, []Region{{Start: 100, Length: 50}}) {
		t.Fatalf("Reservations() = %+v", got)
	}
}

func TestNilListenerIsIgnored(t *testing.T) {
	t.Parallel()

	w := NewWindow(Size{})
	cancel := w.OnResize(nil)
	cancel()
	if w.Listeners() != 0 {
		t.Fatalf("Listeners() = %d, want 0", w.Listeners())
	}
}
