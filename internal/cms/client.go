// Package cms reads content from the headless CMS REST API.
//
// Every resource lives under BaseURL + "/api/" and answers with a
// {"data": ...} envelope. The client is read-only and does not retry: a failed
// or malformed response fails the build that asked for it.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cmsstorage "github.com/solvefurniture/storefront/internal/cms/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	apiPrefix       = "/api/"
	maxResponseSize = 32 << 20
	tracerName      = "github.com/solvefurniture/storefront/internal/cms"
)

// ErrCacheMiss is returned in offline mode when a response was never cached.
var ErrCacheMiss = errors.New("response not cached")

// StatusError reports a non-2xx response from the content API.
type StatusError struct {
	Resource   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms %s returned %s", e.Resource, e.Status)
}

// Query selects optional request parameters.
type Query struct {
	// Populate expands related records inline ("populate=*").
	Populate bool
	// PageSize overrides the API's default page size when positive.
	PageSize int
}

func (q Query) values() url.Values {
	values := url.Values{}
	if q.Populate {
		values.Set("populate", "*")
	}
	if q.PageSize > 0 {
		values.Set("pagination[pageSize]", strconv.Itoa(q.PageSize))
	}
	return values
}

// Config configures a Client.
type Config struct {
	// BaseURL is the CMS origin, e.g. https://cms.example.com.
	BaseURL string
	// Token is sent as a bearer token when set.
	Token      string
	HTTPClient *http.Client
	// Cache stores every successful response body when set.
	Cache cmsstorage.Store
	// Offline serves every request from Cache without touching the network.
	Offline bool
	// RequestsPerSecond throttles network requests when positive.
	RequestsPerSecond float64
}

// Client fetches content records.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   cmsstorage.Store
	offline bool
	limiter *rate.Limiter
	tracer  trace.Tracer
	now     func() time.Time
}

// NewClient validates cfg and returns a client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Offline {
		if cfg.Cache == nil {
			return nil, errors.New("offline mode requires a response cache")
		}
	} else {
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse cms base url: %w", err)
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, fmt.Errorf("cms base url %q must be an absolute http(s) url", cfg.BaseURL)
		}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.Token),
		http:    httpClient,
		cache:   cfg.Cache,
		offline: cfg.Offline,
		limiter: limiter,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}, nil
}

// RequestKey returns the cache key of a resource request. It is independent
// of the base URL so a cache can be replayed against any origin.
func RequestKey(resource string, q Query) string {
	key := apiPrefix + strings.Trim(resource, "/")
	if encoded := q.values().Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}

// Get fetches resource and decodes its envelope into out.
func (c *Client) Get(ctx context.Context, resource string, q Query, out any) error {
	resource = strings.Trim(strings.TrimSpace(resource), "/")
	if resource == "" {
		return errors.New("resource is required")
	}
	key := RequestKey(resource, q)

	ctx, span := c.tracer.Start(ctx, "cms.fetch", trace.WithAttributes(
		attribute.String("cms.resource", resource),
		attribute.Bool("cms.offline", c.offline),
	))
	defer span.End()

	body, err := c.load(ctx, resource, key, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		err = fmt.Errorf("decode cms %s: %w", resource, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) load(ctx context.Context, resource, key string, span trace.Span) ([]byte, error) {
	if c.offline {
		cached, found, err := c.cache.GetResponse(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read cached cms %s: %w", resource, err)
		}
		if !found {
			return nil, fmt.Errorf("cms %s: %w", resource, ErrCacheMiss)
		}
		span.SetAttributes(attribute.Bool("cms.cache_hit", true))
		return cached.Body, nil
	}

	body, err := c.fetch(ctx, resource, key, span)
	if err != nil {
		return nil, err
	}
	if c.cache != nil && json.Valid(body) {
		if err := c.cache.PutResponse(ctx, cmsstorage.Response{
			Key:       key,
			Resource:  resource,
			Body:      body,
			FetchedAt: c.now().UTC(),
		}); err != nil {
			log.Printf("cache cms %s: %v", resource, err)
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, resource, key string, span trace.Span) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle cms %s: %w", resource, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+key, nil)
	if err != nil {
		return nil, fmt.Errorf("build cms %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms %s request: %w", resource, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Resource: resource, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxResponseSize)); err != nil {
		return nil, fmt.Errorf("read cms %s response: %w", resource, err)
	}
	return buf.Bytes(), nil
}
