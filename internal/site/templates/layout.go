package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// StylesheetPath and ScriptPath are the static asset URLs every page links.
const (
	StylesheetPath = "/static/site.css"
	ScriptPath     = "/static/bubbles.js"
)

// Head describes the document head of one page.
type Head struct {
	Title       string
	Description string
	// OGImage is the share image URL; empty omits og:image.
	OGImage string
	BuildID string
	// Scripts are appended to the body after the page content.
	Scripts []string
}

// NavItem is one header navigation link.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Navigation returns the header links, marking the link matching current.
func Navigation(env Env, current string) []NavItem {
	items := []NavItem{
		{Label: env.Loc.T("site.nav.home"), Href: "/"},
		{Label: env.Loc.T("site.nav.shop"), Href: "/shop/"},
		{Label: env.Loc.T("site.nav.rooms"), Href: "/rooms/"},
	}
	for i := range items {
		items[i].Active = items[i].Href == current
	}
	return items
}

// Layout wraps the children of ctx in the site shell.
func Layout(env Env, head Head, nav []NavItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		siteName := env.Loc.T("meta.site_name")
		title := siteName
		if head.Title != "" {
			title = head.Title + " | " + siteName
		}

		h := &htmlWriter{w: w}
		h.raw("<!doctype html>")
		h.open("html", "lang", env.Loc.Lang())
		h.open("head")
		h.open("meta", "charset", "utf-8")
		h.open("meta", "name", "viewport", "content", "width=device-width, initial-scale=1")
		h.open("base", "href", "/")
		h.element("title", title)
		if head.Description != "" {
			h.open("meta", "name", "description", "content", head.Description)
		}
		if head.BuildID != "" {
			h.open("meta", "name", "build-id", "content", head.BuildID)
		}
		h.open("meta", "property", "og:site_name", "content", siteName)
		h.open("meta", "property", "og:title", "content", title)
		if head.Description != "" {
			h.open("meta", "property", "og:description", "content", head.Description)
		}
		if head.OGImage != "" {
			h.open("meta", "property", "og:image", "content", safeURL(head.OGImage))
		}
		h.open("link", "rel", "stylesheet", "href", StylesheetPath)
		h.close("head")

		h.open("body")
		h.open("header", "class", "site-header")
		h.element("a", siteName, "class", "brand", "href", "/")
		h.open("nav")
		h.open("ul")
		for _, item := range nav {
			h.open("li")
			if item.Active {
				h.element("a", item.Label, "href", safeURL(item.Href), "aria-current", "page")
			} else {
				h.element("a", item.Label, "href", safeURL(item.Href))
			}
			h.close("li")
		}
		h.close("ul")
		h.close("nav")
		h.close("header")

		h.render(ctx, children)

		h.open("footer", "class", "site-footer")
		h.element("p", siteName+". "+env.Loc.T("site.footer.rights"))
		h.close("footer")
		for _, src := range head.Scripts {
			h.open("script", "src", safeURL(src), "defer", "defer")
			h.close("script")
		}
		h.close("body")
		h.close("html")
		return h.err
	})
}
