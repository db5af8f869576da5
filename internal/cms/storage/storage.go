package storage

import (
	"context"
	"time"
)

// Response is one cached content API response body.
//
// Cached bodies are derived data: they can always be discarded and refetched
// from the content API.
type Response struct {
	// Key identifies the request: API path plus encoded query.
	Key       string
	Resource  string
	Body      []byte
	FetchedAt time.Time
}

// Store persists content API responses between builds.
type Store interface {
	Close() error
	GetResponse(ctx context.Context, key string) (Response, bool, error)
	PutResponse(ctx context.Context, response Response) error
	DeleteResponse(ctx context.Context, key string) error
	// ListResponses returns cached responses ordered by key, without bodies.
	ListResponses(ctx context.Context) ([]Response, error)
}
