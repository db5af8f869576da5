package site

import (
	"net/url"
	"strings"
)

// MediaResolver returns a function that makes relative upload paths absolute
// against base. Absolute URLs pass through; an empty base keeps paths
// relative.
func MediaResolver(base string) func(string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	return func(raw string) string {
		if base == "" || raw == "" {
			return raw
		}
		if u, err := url.Parse(raw); err == nil && u.IsAbs() {
			return raw
		}
		if strings.HasPrefix(raw, "//") {
			return raw
		}
		return base + "/" + strings.TrimLeft(raw, "/")
	}
}
