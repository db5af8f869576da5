// Package site generates the static storefront.
//
// A build loads every content resource once, derives the page props from
// that single snapshot, renders each page and swaps the finished tree into
// the output directory. A failed build leaves the previous output in place.
package site
