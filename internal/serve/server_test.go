package serve

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/solvefurniture/storefront/internal/scroll"
)

func writeOutDir(t *testing.T, manifest *scroll.Manifest) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>SØLVE</h1>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if manifest != nil {
		data, err := json.Marshal(manifest)
		if err != nil {
			t.Fatalf("marshal manifest: %v", err)
		}
		if err := os.MkdirAll(filepath.Join(dir, "home"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "home", "bubbles.json"), data, 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
	}
	return dir
}

func newTestHandler(t *testing.T, dir string) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	handler, err := NewHandler(dir, reg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler, reg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewHandlerValidatesOutDir(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler("", prometheus.NewRegistry()); err == nil {
		t.Fatal("expected error for empty dir")
	}
	if _, err := NewHandler(filepath.Join(t.TempDir(), "missing"), prometheus.NewRegistry()); err == nil {
		t.Fatal("expected error for missing dir")
	}
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewHandler(file, prometheus.NewRegistry()); err == nil {
		t.Fatal("expected error for file path")
	}
}

func TestServesStaticTreeAndCountsRequests(t *testing.T) {
	t.Parallel()

	handler, reg := newTestHandler(t, writeOutDir(t, nil))
	rec := get(t, handler, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "SØLVE") {
		t.Fatalf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, handler, "/missing.html"); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /missing.html = %d, want 404", rec.Code)
	}

	if got := requestCount(t, reg, "static", "200"); got != 1 {
		t.Fatalf("static 200 requests = %v, want 1", got)
	}
	if got := requestCount(t, reg, "static", "404"); got != 1 {
		t.Fatalf("static 404 requests = %v, want 1", got)
	}

	metrics := get(t, handler, MetricsPath)
	if !strings.Contains(metrics.Body.String(), "storefront_http_requests_total") {
		t.Fatalf("metrics body missing counter: %q", metrics.Body.String())
	}
}

func requestCount(t *testing.T, reg *prometheus.Registry, route, code string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, family := range families {
		if family.GetName() != "storefront_http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == route && labels["code"] == code {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestHealth(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t, writeOutDir(t, nil))
	if rec := get(t, handler, HealthPath); rec.Code != http.StatusNoContent {
		t.Fatalf("GET %s = %d, want 204", HealthPath, rec.Code)
	}
}

func TestPreviewSamplesTimeline(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t, writeOutDir(t, nil))
	rec := get(t, handler, PreviewPath+"?progress=0.5&width=1000&height=500&seed=7&count=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}

	var resp PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Seed != 7 || resp.Count != 3 || resp.Progress != 0.5 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Region.Length != 4500 || resp.ScrollY != 2250 || !resp.Pinned || resp.PinOffset != 2250 {
		t.Fatalf("geometry = %+v", resp)
	}

	timeline, err := scroll.NewTimeline(scroll.DefaultConfig(3), 7)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	want := timeline.Sample(0.5)
	if len(resp.Frames) != len(want) {
		t.Fatalf("frames = %d, want %d", len(resp.Frames), len(want))
	}
	for i := range want {
		if resp.Frames[i] != want[i] {
			t.Fatalf("frame %d = %+v, want %+v", i, resp.Frames[i], want[i])
		}
	}
}

func TestPreviewFallsBackToBuiltManifest(t *testing.T) {
	t.Parallel()

	timeline, err := scroll.NewTimeline(scroll.DefaultConfig(2), 99)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	manifest := timeline.Manifest()
	handler, _ := newTestHandler(t, writeOutDir(t, &manifest))

	rec := get(t, handler, PreviewPath+"?progress=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q", rec.Code, rec.Body.String())
	}
	var resp PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Seed != 99 || resp.Count != 2 || len(resp.Frames) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	for _, f := range resp.Frames {
		if f.Progress != 1 {
			t.Fatalf("frame %+v not finished at progress 1", f)
		}
	}
}

func TestPreviewRejectsBadQuery(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t, writeOutDir(t, nil))
	for _, query := range []string{
		"progress=1.5",
		"progress=abc",
		"progress=NaN",
		"width=0",
		"height=-1",
		"seed=1.5",
		"count=-2",
		"count=1099511627776",
		"count=257",
		"height=1e308",
		"width=16385",
		"height=Inf",
	} {
		if rec := get(t, handler, PreviewPath+"?"+query); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", query, rec.Code)
		}
	}
}

func TestPreviewRejectsCountAboveBuiltManifest(t *testing.T) {
	t.Parallel()

	timeline, err := scroll.NewTimeline(scroll.DefaultConfig(2), 5)
	if err != nil {
		t.Fatalf("NewTimeline() error = %v", err)
	}
	manifest := timeline.Manifest()
	handler, _ := newTestHandler(t, writeOutDir(t, &manifest))

	if rec := get(t, handler, PreviewPath+"?count=3"); rec.Code != http.StatusBadRequest {
		t.Fatalf("count above manifest: status = %d, want 400", rec.Code)
	}
	if rec := get(t, handler, PreviewPath+"?count=1"); rec.Code != http.StatusOK {
		t.Fatalf("count below manifest: status = %d body %q, want 200", rec.Code, rec.Body.String())
	}
}

func TestPreviewAtLargestViewportIsFinite(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t, writeOutDir(t, nil))
	rec := get(t, handler, PreviewPath+"?count=256&seed=1&progress=0&width=16384&height=16384")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q, want 200", rec.Code, rec.Body.String())
	}
	var resp PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Region.Length != 256*3*16384 || resp.PinOffset != 0 || len(resp.Frames) != 256 {
		t.Fatalf("response region = %+v, pin offset = %v, frames = %d", resp.Region, resp.PinOffset, len(resp.Frames))
	}
}

func TestPreviewBoundsInputs(t *testing.T) {
	t.Parallel()

	size := scroll.Size{Width: 1280, Height: 720}
	for name, call := range map[string]func() error{
		"huge count": func() error {
			_, err := Preview(1<<40, 1, size, 0.5)
			return err
		},
		"negative count": func() error {
			_, err := Preview(-1, 1, size, 0.5)
			return err
		},
		"huge height": func() error {
			_, err := Preview(1, 1, scroll.Size{Width: 1280, Height: 1e308}, 0)
			return err
		},
		"zero width": func() error {
			_, err := Preview(1, 1, scroll.Size{Height: 720}, 0)
			return err
		},
		"progress above one": func() error {
			_, err := Preview(1, 1, size, 2)
			return err
		},
	} {
		if err := call(); err == nil {
			t.Fatalf("%s: Preview() expected error", name)
		}
	}
}

func TestPreviewReleasesEverything(t *testing.T) {
	t.Parallel()

	resp, err := Preview(4, 1, scroll.Size{Width: 800, Height: 600}, 0.25)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(resp.Frames) != 4 || resp.Region.Length != 7200 {
		t.Fatalf("Preview() = %+v", resp)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv, err := New(Config{Addr: "127.0.0.1:0", OutDir: writeOutDir(t, nil)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "SØLVE") {
		t.Fatalf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not stop")
	}
}

func TestNewRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{OutDir: writeOutDir(t, nil)}); err == nil {
		t.Fatal("expected address error")
	}
	var nilServer *Server
	if err := nilServer.ListenAndServe(context.Background()); err == nil || errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("nil server error = %v", err)
	}
}
