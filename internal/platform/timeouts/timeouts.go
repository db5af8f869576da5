// Package timeouts defines timeout constants shared by storefront commands.
package timeouts

import "time"

// CMSRequest caps a single content API request during a build.
const CMSRequest = 15 * time.Second

// Build caps a whole static build, fetches included.
const Build = 5 * time.Minute

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
