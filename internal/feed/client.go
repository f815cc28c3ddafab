package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/restock-tracker/internal/fetch"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

const (
	defaultListingURL = "https://www.bigbasket.com/listing-svc/v2/products"
	defaultBucketID   = "92"
	defaultType       = "ps"
	defaultTimeout    = 10 * time.Second

	defaultAcceptLanguage = "en-US,en;q=0.5"
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	defaultTrackerID = "4a7f9cba-6fac-404b-a174-ad84d36c9279"
)

// ErrMissingCookie is returned when the feed session cookie is not configured.
var ErrMissingCookie = errors.New("feed session cookie not configured")

// Credentials identify the browser session used for listing requests.
type Credentials struct {
	Cookie         string
	AcceptLanguage string
	UserAgent      string
	TrackerID      string
}

var baseHeaders = map[string]string{
	"accept":                       "*/*",
	"common-client-static-version": "101",
	"content-type":                 "application/json",
	"osmos-enabled":                "true",
	"origin":                       WebURL,
	"referer":                      WebURL + "/",
	"sec-fetch-dest":               "empty",
	"sec-fetch-mode":               "cors",
	"sec-fetch-site":               "same-origin",
	"x-channel":                    "BB-WEB",
	"x-entry-context":              "bbnow",
	"x-entry-context-id":           "10",
	"x-integrated-fc-door-visible": "false",
}

// Client fetches listing pages.
type Client struct {
	doer       fetch.Doer
	creds      Credentials
	listingURL string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithListingURL overrides the listing endpoint.
func WithListingURL(u string) Option {
	return func(c *Client) {
		c.listingURL = u
	}
}

// WithTimeout overrides the per-page request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client that sends requests through d.
func NewClient(d fetch.Doer, creds Credentials, opts ...Option) *Client {
	c := &Client{
		doer:       d,
		creds:      creds,
		listingURL: defaultListingURL,
		timeout:    defaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a session cookie is available.
func (c *Client) Configured() bool {
	return c.creds.Cookie != ""
}

// FetchPage fetches one listing page of the tracker.
func (c *Client) FetchPage(ctx context.Context, t domain.FeedTracker, page int) ([]Item, error) {
	if !c.Configured() {
		return nil, ErrMissingCookie
	}

	body, err := c.doer.Do(ctx, fetch.Call{
		Method:  http.MethodGet,
		URL:     c.listingURL,
		Query:   listingQuery(t, page),
		Headers: c.headers(),
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %q page %d: %w", t.Slug, page, err)
	}

	items := ParseItems(body)
	c.logger.Debug("fetched listing page", "slug", t.Slug, "page", page, "items", len(items))
	return items, nil
}

func listingQuery(t domain.FeedTracker, page int) url.Values {
	typ := t.Type
	if typ == "" {
		typ = defaultType
	}
	bucket := t.BucketID
	if bucket == "" {
		bucket = defaultBucketID
	}

	q := url.Values{}
	q.Set("type", typ)
	q.Set("slug", t.Slug)
	q.Set("page", strconv.Itoa(page))
	q.Set("bucket_id", bucket)
	return q
}

func (c *Client) headers() map[string]string {
	h := make(map[string]string, len(baseHeaders)+4)
	for k, v := range baseHeaders {
		h[k] = v
	}
	h["accept-language"] = orDefault(c.creds.AcceptLanguage, defaultAcceptLanguage)
	h["user-agent"] = orDefault(c.creds.UserAgent, defaultUserAgent)
	h["x-tracker"] = orDefault(c.creds.TrackerID, defaultTrackerID)
	h["Cookie"] = c.creds.Cookie
	return h
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
