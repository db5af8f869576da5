package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/solvefurniture/storefront/internal/content"
	"github.com/solvefurniture/storefront/internal/scroll"
)

// BubbleTimelineID is the id of the embedded timeline manifest script.
const BubbleTimelineID = "bubbles-timeline"

// HomeView is everything the home page shows.
type HomeView struct {
	Content  content.HomeContent
	Featured []content.ProductRecord
	Rooms    []content.RoomRecord
	Stores   []content.StoreRecord
	Bubbles  BubblesView
}

// BubblesView is the scroll-driven image section. Initial holds the frames at
// progress 0 so the section renders in place before any script runs.
type BubblesView struct {
	ContainerID  string
	ManifestPath string
	Manifest     scroll.Manifest
	Initial      []scroll.Frame
}

// Home renders the home page body. The whole page lives inside the scroll
// container the bubble timeline binds to.
func Home(env Env, view HomeView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		home := view.Content
		h := &htmlWriter{w: w}
		h.open("div", "id", view.Bubbles.ContainerID, "class", "home")

		h.open("section", "class", "hero", "style", backgroundStyle(env.media(content.MediaURL(home.Background))))
		h.element("h1", home.Title)
		h.element("a", env.Loc.T("site.hero.cta"), "class", "button inverse", "href", "/shop/")
		h.close("section")

		h.open("section", "class", "featured")
		h.element("h2", env.Loc.T("site.featured.title"))
		h.open("div", "class", "grid")
		for _, product := range view.Featured {
			h.render(ctx, ProductCard(env, product))
		}
		h.close("div")
		h.close("section")

		h.open("section", "class", "highlight")
		h.element("h3", home.Highlight.Title)
		h.open("div")
		for _, paragraph := range content.Paragraphs(home.Highlight.Text) {
			h.element("p", paragraph)
		}
		h.element("a", env.Loc.T("site.hero.cta"), "class", "button", "href", "/shop/")
		h.close("div")
		h.close("section")

		h.render(ctx, Bubbles(env, home, view.Bubbles))

		h.open("section", "class", "rooms")
		h.element("h2", env.Loc.T("site.rooms.title"))
		h.element("a", env.Loc.T("site.rooms.see_all"), "class", "see-all", "href", "/rooms/")
		h.open("div", "class", "rooms-container")
		for _, room := range view.Rooms {
			h.render(ctx, RoomCard(env, room))
		}
		h.close("div")
		h.close("section")

		h.open("section", "class", "stores")
		h.element("h2", env.Loc.T("site.stores.title"))
		h.open("div", "class", "grid")
		for _, store := range view.Stores {
			h.render(ctx, StoreCard(env, store))
		}
		h.close("div")
		h.close("section")

		h.close("div")
		return h.err
	})
}

// Bubbles renders the pinned image section and its timeline manifest. The
// data attributes carry the pin geometry the client script reads.
func Bubbles(env Env, home content.HomeContent, view BubblesView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := view.Manifest
		h := &htmlWriter{w: w}
		h.open("section",
			"id", "imagesWrapper",
			"class", "bubbles",
			"style", backgroundStyle(env.media(content.MediaURL(home.BubblesBackground))),
			"data-scroller", "#"+view.ContainerID,
			"data-count", strconv.Itoa(m.Count),
			"data-pin-vh", formatFloat(m.PinVH),
			"data-stagger", formatFloat(m.Stagger),
			"data-manifest", view.ManifestPath,
		)
		h.element("h2", home.BubblesTitle)
		for i, media := range home.Bubble.Data {
			style := ""
			if i < len(view.Initial) {
				style = frameStyle(view.Initial[i])
			}
			h.open("div", "class", "bubble", "data-index", strconv.Itoa(i), "style", style)
			alt := media.Attributes.AlternativeText
			if alt == "" {
				alt = media.Attributes.Name
			}
			h.open("img", "src", safeURL(env.media(media.Attributes.URL)), "alt", alt)
			h.close("div")
		}
		h.render(ctx, templ.JSONScript(BubbleTimelineID, view.Manifest))
		h.close("section")
		return h.err
	})
}

// frameStyle positions a bubble at one sampled frame.
func frameStyle(f scroll.Frame) string {
	return "transform: translate(" + formatFloat(f.XVW) + "vw, calc(" +
		formatFloat(f.YVH) + "vh + " + formatFloat(f.YPct) + "%)) scale(" +
		formatFloat(f.Scale) + ")"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
