package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/solvefurniture/storefront/internal/content"
)

// ProductCard renders one catalogue item.
func ProductCard(env Env, product content.ProductRecord) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := product.Attributes
		h := &htmlWriter{w: w}
		attrs := []string{"class", "product", "data-product-id", strconv.Itoa(product.ID)}
		if p.Featured {
			attrs = append(attrs, "data-featured", "true")
		}
		h.open("article", attrs...)
		writeImage(h, env, p.Image, p.Name)
		h.element("h3", p.Name)
		h.element("p", env.Loc.Price(p.Price), "class", "price")
		if category := p.Category.Data; category != nil {
			h.element("a", category.Attributes.Name, "class", "category", "href", safeURL(CategoryPath(category.Attributes.Slug)))
		}
		h.close("article")
		return h.err
	})
}

// RoomCard renders one room showcase.
func RoomCard(env Env, room content.RoomRecord) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		r := room.Attributes
		h := &htmlWriter{w: w}
		h.open("article", "class", "room", "data-room-id", strconv.Itoa(room.ID))
		writeImage(h, env, r.Image, r.Name)
		h.element("h3", r.Name)
		if r.Description != "" {
			h.element("p", r.Description)
		}
		h.close("article")
		return h.err
	})
}

// StoreCard renders one physical store.
func StoreCard(env Env, store content.StoreRecord) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		s := store.Attributes
		h := &htmlWriter{w: w}
		h.open("article", "class", "store", "data-store-id", strconv.Itoa(store.ID))
		writeImage(h, env, s.Image, s.Name)
		h.element("h3", s.Name)
		h.open("address")
		for _, line := range []string{s.Address, s.City} {
			if line != "" {
				h.element("span", line)
			}
		}
		if s.Phone != "" {
			h.element("a", s.Phone, "href", safeURL("tel:"+s.Phone))
		}
		h.close("address")
		if s.Hours != "" {
			h.element("p", s.Hours, "class", "hours")
		}
		h.close("article")
		return h.err
	})
}

// CategoryPath is the shop page listing one category.
func CategoryPath(slug string) string {
	return "/shop/" + slug + "/"
}

func writeImage(h *htmlWriter, env Env, ref content.MediaRef, fallbackAlt string) {
	src := content.MediaURL(ref)
	if src == "" {
		return
	}
	alt := content.MediaAlt(ref)
	if alt == "" {
		alt = fallbackAlt
	}
	attrs := []string{"src", safeURL(env.media(src)), "alt", alt, "loading", "lazy"}
	if media := ref.Data.Attributes; media.Width > 0 && media.Height > 0 {
		attrs = append(attrs, "width", strconv.Itoa(media.Width), "height", strconv.Itoa(media.Height))
	}
	h.open("img", attrs...)
}
