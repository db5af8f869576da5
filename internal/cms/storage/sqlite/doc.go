// Package sqlite provides the content response cache backed by SQLite.
package sqlite
