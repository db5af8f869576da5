package serve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/solvefurniture/storefront/internal/scroll"
)

// manifestFile is where builds write the bubble timeline, relative to the
// output directory.
const manifestFile = "home/bubbles.json"

// Default preview viewport.
const (
	defaultPreviewWidth  = 1280
	defaultPreviewHeight = 720
)

// Preview bounds. Without a built manifest the count is capped at
// maxPreviewCount; with one it is capped at the built bubble count.
const (
	maxPreviewCount     = 256
	maxPreviewDimension = 16384
)

// PreviewResponse is the body of a bubble preview.
type PreviewResponse struct {
	Seed      int64          `json:"seed"`
	Count     int            `json:"count"`
	Progress  float64        `json:"progress"`
	ScrollY   float64        `json:"scrollY"`
	Region    scroll.Region  `json:"region"`
	PinOffset float64        `json:"pinOffset"`
	Pinned    bool           `json:"pinned"`
	Frames    []scroll.Frame `json:"frames"`
}

type previewQuery struct {
	progress float64
	size     scroll.Size
	seed     int64
	hasSeed  bool
	count    int
	hasCount bool
}

// previewHandler mounts a sequencer on a headless window sized like the
// requested viewport, scrolls it to the requested progress and reports the
// sampled frames. Every request mounts and unmounts its own sequencer.
type previewHandler struct {
	outDir string
}

func (h *previewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q, err := parsePreviewQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	manifest, found, err := h.readManifest()
	if err != nil {
		log.Printf("read bubble manifest: %v", err)
		http.Error(w, "bubble manifest unreadable", http.StatusInternalServerError)
		return
	}
	if found {
		if !q.hasSeed {
			q.seed = manifest.Seed
		}
		if !q.hasCount {
			q.count = manifest.Count
		}
		if q.count > manifest.Count {
			http.Error(w, fmt.Sprintf("count must not exceed the built bubble count %d", manifest.Count), http.StatusBadRequest)
			return
		}
	}

	resp, err := Preview(q.count, q.seed, q.size, q.progress)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(resp); err != nil {
		log.Printf("encode bubble preview: %v", err)
		http.Error(w, "bubble preview unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(body.Bytes()); err != nil {
		log.Printf("write bubble preview: %v", err)
	}
}

// Preview samples the bubble timeline of count elements and seed at progress
// in a viewport of size. count is at most maxPreviewCount and each viewport
// dimension at most maxPreviewDimension.
func Preview(count int, seed int64, size scroll.Size, progress float64) (PreviewResponse, error) {
	if count < 0 || count > maxPreviewCount {
		return PreviewResponse{}, fmt.Errorf("count must be in [0, %d]", maxPreviewCount)
	}
	if !inDimension(size.Width) || !inDimension(size.Height) {
		return PreviewResponse{}, fmt.Errorf("viewport must be positive and at most %dpx per side", maxPreviewDimension)
	}
	if math.IsNaN(progress) || progress < 0 || progress > 1 {
		return PreviewResponse{}, errors.New("progress must be a number in [0, 1]")
	}
	window := scroll.NewWindow(size)
	container := window.AddContainer(scroll.DefaultContainerID)
	seq, err := scroll.NewSequencer(scroll.DefaultConfig(count), scroll.Options{Seeds: scroll.FixedSeed(seed)})
	if err != nil {
		return PreviewResponse{}, err
	}
	if err := seq.Mount(window); err != nil {
		return PreviewResponse{}, err
	}
	defer seq.Unmount()

	binding := seq.Binding()
	region := binding.Region()
	if math.IsInf(region.Length, 0) || math.IsNaN(region.Length) {
		return PreviewResponse{}, fmt.Errorf("pinned region length %v is not finite", region.Length)
	}
	scrollY := region.Start + progress*region.Length
	container.ScrollTo(scrollY)

	return PreviewResponse{
		Seed:      seed,
		Count:     count,
		Progress:  binding.Progress(),
		ScrollY:   scrollY,
		Region:    region,
		PinOffset: region.PinOffset(scrollY),
		Pinned:    region.Pinned(scrollY),
		Frames:    binding.Frames(),
	}, nil
}

func (h *previewHandler) readManifest() (scroll.Manifest, bool, error) {
	data, err := os.ReadFile(filepath.Join(h.outDir, filepath.FromSlash(manifestFile)))
	if errors.Is(err, fs.ErrNotExist) {
		return scroll.Manifest{}, false, nil
	}
	if err != nil {
		return scroll.Manifest{}, false, err
	}
	var m scroll.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return scroll.Manifest{}, false, fmt.Errorf("decode %s: %w", manifestFile, err)
	}
	return m, true, nil
}

func parsePreviewQuery(r *http.Request) (previewQuery, error) {
	values := r.URL.Query()
	q := previewQuery{size: scroll.Size{Width: defaultPreviewWidth, Height: defaultPreviewHeight}}

	var err error
	if raw := values.Get("progress"); raw != "" {
		if q.progress, err = parseUnitFloat("progress", raw); err != nil {
			return previewQuery{}, err
		}
	}
	if raw := values.Get("width"); raw != "" {
		if q.size.Width, err = parseDimension("width", raw); err != nil {
			return previewQuery{}, err
		}
	}
	if raw := values.Get("height"); raw != "" {
		if q.size.Height, err = parseDimension("height", raw); err != nil {
			return previewQuery{}, err
		}
	}
	if raw := values.Get("seed"); raw != "" {
		if q.seed, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return previewQuery{}, fmt.Errorf("seed must be an integer")
		}
		q.hasSeed = true
	}
	if raw := values.Get("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 || count > maxPreviewCount {
			return previewQuery{}, fmt.Errorf("count must be an integer in [0, %d]", maxPreviewCount)
		}
		q.count, q.hasCount = count, true
	}
	return q, nil
}

func parseUnitFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("%s must be a number in [0, 1]", name)
	}
	return v, nil
}

func parseDimension(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !inDimension(v) {
		return 0, fmt.Errorf("%s must be a positive number of at most %d", name, maxPreviewDimension)
	}
	return v, nil
}

func inDimension(v float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= maxPreviewDimension
}
