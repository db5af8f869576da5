package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/solvefurniture/storefront/internal/platform/random"
	"github.com/solvefurniture/storefront/internal/scroll"
	"github.com/solvefurniture/storefront/internal/site/templates"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Output paths relative to the output directory.
const (
	HomePage         = "index.html"
	ShopPage         = "shop/index.html"
	RoomsPage        = "rooms/index.html"
	BubbleManifest   = "home/bubbles.json"
	StaticDir        = "static"
	tracerName       = "github.com/solvefurniture/storefront/internal/site"
	staleBuildSuffix = ".previous"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Options configures a Builder.
type Options struct {
	// OutDir receives the generated tree. It is replaced as a whole.
	OutDir string
	Loc    templates.Localizer
	// MediaBaseURL prefixes relative upload paths.
	MediaBaseURL string
	// ShareImage is the og:image URL of every page; empty omits it.
	ShareImage string
	// Seeds draws the bubble timeline seed. Nil uses a crypto-random seed.
	Seeds scroll.SeedSource
	// Static overrides the embedded assets.
	Static fs.FS
	// NewBuildID names each build. Nil uses random UUIDs.
	NewBuildID func() string
}

// Builder renders the storefront from a content source.
type Builder struct {
	src  Source
	opts Options
	now  func() time.Time
}

// Report summarizes a finished build.
type Report struct {
	BuildID    string
	OutDir     string
	Seed       int64
	Pages      []string
	Assets     []string
	Products   int
	Featured   int
	Rooms      int
	Stores     int
	Categories int
	Bubbles    int
	Duration   time.Duration
}

// NewBuilder validates opts and returns a builder.
func NewBuilder(src Source, opts Options) (*Builder, error) {
	if src == nil {
		return nil, errors.New("content source is required")
	}
	if opts.OutDir == "" {
		return nil, errors.New("output directory is required")
	}
	if opts.Loc == nil {
		return nil, errors.New("localizer is required")
	}
	if opts.Seeds == nil {
		opts.Seeds = random.NewSeed
	}
	if opts.Static == nil {
		opts.Static = StaticFS()
	}
	if opts.NewBuildID == nil {
		opts.NewBuildID = uuid.NewString
	}
	return &Builder{src: src, opts: opts, now: time.Now}, nil
}

// Build fetches the content once, renders every page into a staging
// directory and then swaps it into OutDir.
func (b *Builder) Build(ctx context.Context) (report Report, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "site.build")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	started := b.now()
	report.BuildID = b.opts.NewBuildID()
	report.OutDir = b.opts.OutDir
	span.SetAttributes(attribute.String("site.build_id", report.BuildID))

	snap, err := Load(ctx, b.src)
	if err != nil {
		return Report{}, err
	}
	report.Products = len(snap.Products)
	report.Rooms = len(snap.Rooms)
	report.Stores = len(snap.Stores)
	report.Categories = len(snap.Categories)
	report.Bubbles = len(snap.Home.Attributes.Bubble.Data)

	seed, err := b.opts.Seeds()
	if err != nil {
		return Report{}, fmt.Errorf("draw bubble seed: %w", err)
	}
	timeline, err := scroll.NewTimeline(scroll.DefaultConfig(report.Bubbles), seed)
	if err != nil {
		return Report{}, fmt.Errorf("build bubble timeline: %w", err)
	}
	report.Seed = seed

	parent := filepath.Dir(filepath.Clean(b.opts.OutDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".build-")
	if err != nil {
		return Report{}, fmt.Errorf("create staging dir: %w", err)
	}
	if err := os.Chmod(staging, 0o755); err != nil {
		return Report{}, fmt.Errorf("chmod staging dir: %w", err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(staging); rmErr != nil {
				log.Printf("remove staging dir %s: %v", staging, rmErr)
			}
		}
	}()

	env := templates.Env{Loc: b.opts.Loc, Media: MediaResolver(b.opts.MediaBaseURL)}
	home := NewHomeProps(snap)
	report.Featured = len(home.Featured)

	pages := []page{
		{
			path: HomePage,
			head: templates.Head{
				Title:       b.opts.Loc.T("site.nav.home"),
				Description: b.opts.Loc.T("meta.home.description"),
				OGImage:     b.opts.ShareImage,
				Scripts:     []string{templates.ScriptPath},
			},
			nav: "/",
			body: templates.Home(env, templates.HomeView{
				Content:  home.Content,
				Featured: home.Featured,
				Rooms:    home.Rooms,
				Stores:   home.Stores,
				Bubbles: templates.BubblesView{
					ContainerID:  scroll.DefaultContainerID,
					ManifestPath: "/" + BubbleManifest,
					Manifest:     timeline.Manifest(),
					Initial:      timeline.Sample(0),
				},
			}),
		},
		{
			path: RoomsPage,
			head: templates.Head{
				Title:       b.opts.Loc.T("site.rooms.title"),
				Description: b.opts.Loc.T("meta.rooms.description"),
				OGImage:     b.opts.ShareImage,
			},
			nav:  "/rooms/",
			body: templates.Rooms(env, NewRoomsProps(snap).Rooms),
		},
	}

	shopHead := templates.Head{
		Title:       b.opts.Loc.T("site.shop.title"),
		Description: b.opts.Loc.T("meta.shop.description"),
		OGImage:     b.opts.ShareImage,
	}
	pages = append(pages, b.shopPage(env, shopHead, snap, ShopPage, ""))
	seen := make(map[string]int, len(snap.Categories))
	for _, category := range snap.Categories {
		slug := category.Attributes.Slug
		if !slugPattern.MatchString(slug) {
			return Report{}, fmt.Errorf("category %d has invalid slug %q", category.ID, slug)
		}
		if first, ok := seen[slug]; ok {
			return Report{}, fmt.Errorf("categories %d and %d share slug %q", first, category.ID, slug)
		}
		seen[slug] = category.ID
		path := "shop/" + slug + "/index.html"
		pages = append(pages, b.shopPage(env, shopHead, snap, path, slug))
	}

	for _, p := range pages {
		p.head.BuildID = report.BuildID
		var buf bytes.Buffer
		layout := templates.Layout(env, p.head, templates.Navigation(env, p.nav))
		if err := layout.Render(templ.WithChildren(ctx, p.body), &buf); err != nil {
			return Report{}, fmt.Errorf("render %s: %w", p.path, err)
		}
		if err := writeFile(staging, filepath.FromSlash(p.path), buf.Bytes()); err != nil {
			return Report{}, err
		}
		report.Pages = append(report.Pages, p.path)
	}

	manifest, err := json.MarshalIndent(timeline.Manifest(), "", "  ")
	if err != nil {
		return Report{}, fmt.Errorf("encode bubble manifest: %w", err)
	}
	if err := writeFile(staging, filepath.FromSlash(BubbleManifest), manifest); err != nil {
		return Report{}, err
	}
	report.Assets = append(report.Assets, BubbleManifest)

	assets, err := copyStatic(b.opts.Static, staging, StaticDir)
	if err != nil {
		return Report{}, fmt.Errorf("copy static assets: %w", err)
	}
	report.Assets = append(report.Assets, assets...)

	if err := swapDir(staging, b.opts.OutDir); err != nil {
		return Report{}, err
	}
	report.Duration = b.now().Sub(started)
	return report, nil
}

// page is one rendered document of the tree.
type page struct {
	path string
	head templates.Head
	// nav is the header link marked as current.
	nav  string
	body templ.Component
}

func (b *Builder) shopPage(env templates.Env, head templates.Head, snap Snapshot, path, category string) page {
	props := NewShopProps(snap, category)
	return page{
		path: path,
		head: head,
		nav:  "/shop/",
		body: templates.Shop(env, templates.ShopView{
			Categories: props.Categories,
			Products:   props.Products,
			Current:    props.Category,
		}),
	}
}

// swapDir replaces dst with src. The previous dst is removed only after src
// is in place.
func swapDir(src, dst string) error {
	previous := dst + staleBuildSuffix
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("remove stale output: %w", err)
	}
	hadPrevious := true
	if err := os.Rename(dst, previous); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("move previous output: %w", err)
		}
		hadPrevious = false
	}
	if err := os.Rename(src, dst); err != nil {
		if hadPrevious {
			if restoreErr := os.Rename(previous, dst); restoreErr != nil {
				log.Printf("restore previous output: %v", restoreErr)
			}
		}
		return fmt.Errorf("publish output: %w", err)
	}
	if hadPrevious {
		if err := os.RemoveAll(previous); err != nil {
			log.Printf("remove previous output: %v", err)
		}
	}
	return nil
}
