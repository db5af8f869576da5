package scroll

// Size is a viewport size in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Region is a pinned section of the scroll container: it is held visually
// fixed while the scroll position advances from Start to Start+Length.
type Region struct {
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
}

// RegionFor returns the pinned region for cfg in a viewport of size: it starts
// when the trigger's top reaches the viewport top and lasts PinVH per element.
func RegionFor(triggerTop float64, size Size, cfg Config) Region {
	return Region{
		Start:  triggerTop,
		Length: float64(cfg.Count) * cfg.PinVH / 100 * size.Height,
	}
}

// Progress maps a scroll position to normalized progress through r.
func (r Region) Progress(scrollY float64) float64 {
	if r.Length <= 0 {
		if scrollY < r.Start {
			return 0
		}
		return 1
	}
	return clamp01((scrollY - r.Start) / r.Length)
}

// PinOffset is the translation that keeps the region in place at scrollY.
func (r Region) PinOffset(scrollY float64) float64 {
	switch {
	case scrollY <= r.Start:
		return 0
	case scrollY >= r.Start+r.Length:
		return r.Length
	default:
		return scrollY - r.Start
	}
}

// Pinned reports whether the region is held fixed at scrollY.
func (r Region) Pinned(scrollY float64) bool {
	return scrollY > r.Start && scrollY < r.Start+r.Length
}
