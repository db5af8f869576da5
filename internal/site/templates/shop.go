package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/solvefurniture/storefront/internal/content"
)

// ShopView is the catalogue page, optionally narrowed to one category.
type ShopView struct {
	Categories []content.CategoryRecord
	Products   []content.ProductRecord
	// Current is the selected category slug; empty lists everything.
	Current string
}

// Shop renders the catalogue with its category navigation.
func Shop(env Env, view ShopView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.open("main", "class", "shop")
		h.element("h1", env.Loc.T("site.shop.title"))

		h.open("nav", "class", "categories")
		h.open("ul")
		writeCategoryLink(h, env.Loc.T("site.shop.all"), "/shop/", view.Current == "")
		for _, category := range view.Categories {
			c := category.Attributes
			writeCategoryLink(h, c.Name, CategoryPath(c.Slug), c.Slug == view.Current)
		}
		h.close("ul")
		h.close("nav")

		if len(view.Products) == 0 {
			h.element("p", env.Loc.T("site.shop.empty"), "class", "empty")
		} else {
			h.open("section", "class", "grid")
			for _, product := range view.Products {
				h.render(ctx, ProductCard(env, product))
			}
			h.close("section")
		}
		h.close("main")
		return h.err
	})
}

func writeCategoryLink(h *htmlWriter, label, href string, active bool) {
	h.open("li")
	if active {
		h.element("a", label, "href", safeURL(href), "aria-current", "page")
	} else {
		h.element("a", label, "href", safeURL(href))
	}
	h.close("li")
}

// Rooms renders every room showcase.
func Rooms(env Env, rooms []content.RoomRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.open("main", "class", "rooms")
		h.element("h1", env.Loc.T("site.rooms.title"))
		h.open("div", "class", "rooms-container")
		for _, room := range rooms {
			h.render(ctx, RoomCard(env, room))
		}
		h.close("div")
		h.close("main")
		return h.err
	})
}
