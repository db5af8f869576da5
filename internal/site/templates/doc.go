// Package templates renders the storefront pages as templ components.
//
// Components receive fully loaded view models and never fetch. Every text
// node and attribute value is escaped on write; URLs additionally pass through
// templ's URL sanitizer.
package templates
