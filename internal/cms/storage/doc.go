// Package storage declares persistence for the content response cache.
//
// The cache lets a build run without network access by replaying the
// responses of a previous build. It never becomes the source of truth for
// content.
package storage
