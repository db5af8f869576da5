package content

import "strings"

// Featured returns the products flagged as featured, in their original order.
func Featured(products []ProductRecord) []ProductRecord {
	out := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		if p.Attributes.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Take returns the first k items of list, or all of them when list is
// shorter. k <= 0 yields an empty slice.
func Take[T any](list []T, k int) []T {
	if k <= 0 {
		return []T{}
	}
	k = min(k, len(list))
	out := make([]T, k)
	copy(out, list[:k])
	return out
}

// InCategory returns the products whose category slug is slug, in order.
func InCategory(products []ProductRecord, slug string) []ProductRecord {
	slug = strings.TrimSpace(slug)
	out := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		category := p.Attributes.Category.Data
		if category != nil && category.Attributes.Slug == slug {
			out = append(out, p)
		}
	}
	return out
}

// Paragraphs splits editorial text on underscores, dropping blank pieces.
func Paragraphs(text string) []string {
	parts := strings.Split(text, "_")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
