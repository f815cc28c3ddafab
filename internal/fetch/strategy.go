package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
)

const (
	defaultCromaURL    = "https://api.croma.com/inventory/oms/v2/tms/details-pwa/"
	defaultSamsungURL  = "https://www.samsung.com/in/api/v4/configurator/serviceability"
	defaultFlipkartURL = "https://rknldeals.alwaysdata.net/flipkart_check"
	defaultRelianceURL = "https://www.reliancedigital.in/ext/raven-api/inventory/multi/articles-v2"

	// Default request timeouts for vendors slower than DefaultTimeout.
	FlipkartTimeout = 25 * time.Second
	RelianceTimeout = 20 * time.Second

	defaultCromaRetries = 2
	defaultCromaBackoff = 2 * time.Second

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	mobileUserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/142.0.0.0 Mobile Safari/537.36"
)

// Endpoint is the request target of a vendor strategy. Empty fields fall
// back to the vendor defaults; configured headers override default ones.
type Endpoint struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

func (ep Endpoint) url(fallback string) string {
	if ep.URL != "" {
		return ep.URL
	}
	return fallback
}

func (ep Endpoint) timeout(fallback time.Duration) time.Duration {
	if ep.Timeout > 0 {
		return ep.Timeout
	}
	return fallback
}

func (ep Endpoint) headers(defaults map[string]string) map[string]string {
	h := make(map[string]string, len(defaults)+len(ep.Headers))
	for k, v := range defaults {
		h[k] = v
	}
	for k, v := range ep.Headers {
		h[k] = v
	}
	return h
}

// StrategyFor returns the request strategy for a kind, or nil when the
// generic request shape applies.
func StrategyFor(name string, k retailer.Kind, d Doer, ep Endpoint, logger *slog.Logger) retailer.Strategy {
	if k == nil {
		return nil
	}
	if a, ok := k.(retailer.Activity); ok {
		return NewActivityStrategy(d, ep, a.Host)
	}
	switch k.ID() {
	case retailer.KindCroma:
		return NewCromaStrategy(d, ep, WithCromaLogger(logger), WithCromaVendorName(name))
	case retailer.KindSamsung:
		return &SamsungStrategy{doer: d, ep: ep}
	case retailer.KindFlipkart:
		return &FlipkartStrategy{doer: d, ep: ep}
	case retailer.KindRelianceDigital:
		return &RelianceStrategy{doer: d, ep: ep}
	default:
		return nil
	}
}

// CromaStrategy posts an order-promise request and retries when the
// vendor answers 403.
type CromaStrategy struct {
	doer       Doer
	ep         Endpoint
	name       string
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// CromaOption configures a CromaStrategy.
type CromaOption func(*CromaStrategy)

// WithCromaRetries sets the retry budget and the linear backoff base.
func WithCromaRetries(maxRetries int, base time.Duration) CromaOption {
	return func(s *CromaStrategy) {
		s.maxRetries = maxRetries
		s.backoff = base
	}
}

// WithCromaLogger sets the logger.
func WithCromaLogger(l *slog.Logger) CromaOption {
	return func(s *CromaStrategy) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCromaVendorName sets the vendor label used for retry metrics.
func WithCromaVendorName(name string) CromaOption {
	return func(s *CromaStrategy) {
		if name != "" {
			s.name = name
		}
	}
}

// NewCromaStrategy creates a CromaStrategy.
func NewCromaStrategy(d Doer, ep Endpoint, opts ...CromaOption) *CromaStrategy {
	s := &CromaStrategy{
		doer:       d,
		ep:         ep,
		name:       "Croma",
		maxRetries: defaultCromaRetries,
		backoff:    defaultCromaBackoff,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var cromaHeaders = map[string]string{
	"accept":          "application/json, text/plain, */*",
	"accept-language": "en-US,en;q=0.9",
	"client_id":       "CROMA-WEB-APP",
	"origin":          "https://www.croma.com",
	"referer":         "https://www.croma.com/",
	"user-agent":      browserUserAgent,
}

// Fetch implements retailer.Strategy.
func (s *CromaStrategy) Fetch(ctx context.Context, req retailer.Request) ([]byte, error) {
	call := Call{
		Method:  http.MethodPost,
		URL:     s.ep.url(defaultCromaURL),
		Headers: s.ep.headers(cromaHeaders),
		Body:    cromaPromiseBody(req),
		Timeout: s.ep.timeout(DefaultTimeout),
	}

	for attempt := 0; ; attempt++ {
		body, err := s.doer.Do(ctx, call)
		if err == nil {
			return body, nil
		}
		if !HasStatus(err, http.StatusForbidden) || attempt >= s.maxRetries {
			return nil, fmt.Errorf("croma promise request: %w", err)
		}

		delay := time.Duration(attempt+1) * s.backoff
		s.logger.Warn("croma rate limited, retrying",
			"code", req.Code,
			"location", req.Location,
			"attempt", attempt+1,
			"max_retries", s.maxRetries,
			"delay", delay,
		)
		metrics.FetchRetriesTotal.WithLabelValues(s.name).Inc()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

type cromaPromise struct {
	Promise cromaPromiseRequest `json:"promise"`
}

type cromaPromiseRequest struct {
	AllocationRuleID       string            `json:"allocationRuleID"`
	CheckInventory         string            `json:"checkInventory"`
	OrganizationCode       string            `json:"organizationCode"`
	SourcingClassification string            `json:"sourcingClassification"`
	PromiseLines           cromaPromiseLines `json:"promiseLines"`
}

type cromaPromiseLines struct {
	PromiseLine []cromaPromiseLine `json:"promiseLine"`
}

type cromaPromiseLine struct {
	FulfillmentType string            `json:"fulfillmentType"`
	ItemID          string            `json:"itemID"`
	LineID          string            `json:"lineId"`
	RequiredQty     string            `json:"requiredQty"`
	ShipToAddress   map[string]string `json:"shipToAddress"`
	Extn            map[string]string `json:"extn"`
}

func cromaPromiseBody(req retailer.Request) cromaPromise {
	return cromaPromise{Promise: cromaPromiseRequest{
		AllocationRuleID:       "SYSTEM",
		CheckInventory:         "Y",
		OrganizationCode:       "CROMA",
		SourcingClassification: "EC",
		PromiseLines: cromaPromiseLines{PromiseLine: []cromaPromiseLine{{
			FulfillmentType: retailer.ChannelHomeDelivery,
			ItemID:          req.Code,
			LineID:          "1",
			RequiredQty:     "1",
			ShipToAddress:   map[string]string{"zipCode": req.Location.String()},
			Extn:            map[string]string{"widerStoreFlag": "N"},
		}}},
	}}
}

// SamsungStrategy queries the serviceability endpoint.
type SamsungStrategy struct {
	doer Doer
	ep   Endpoint
}

var samsungHeaders = map[string]string{
	"accept":          "application/json, text/javascript, */*; q=0.01",
	"accept-language": "en-US,en;q=0.9",
	"referer":         "https://www.samsung.com/in/",
	"user-agent":      browserUserAgent,
}

// Fetch implements retailer.Strategy.
func (s *SamsungStrategy) Fetch(ctx context.Context, req retailer.Request) ([]byte, error) {
	q := url.Values{}
	q.Set("skus", req.Code)
	q.Set("postal_code", req.Location.String())

	body, err := s.doer.Do(ctx, Call{
		Method:  http.MethodGet,
		URL:     s.ep.url(defaultSamsungURL),
		Query:   q,
		Headers: s.ep.headers(samsungHeaders),
		Timeout: s.ep.timeout(DefaultTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("samsung serviceability request: %w", err)
	}
	return body, nil
}

// FlipkartStrategy posts to the availability proxy.
type FlipkartStrategy struct {
	doer Doer
	ep   Endpoint
}

// Fetch implements retailer.Strategy.
func (s *FlipkartStrategy) Fetch(ctx context.Context, req retailer.Request) ([]byte, error) {
	body, err := s.doer.Do(ctx, Call{
		Method:  http.MethodPost,
		URL:     s.ep.url(defaultFlipkartURL),
		Headers: s.ep.headers(nil),
		Body: map[string]string{
			"productId": req.Code,
			"pincode":   req.Location.String(),
		},
		Timeout: s.ep.timeout(FlipkartTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("flipkart proxy request: %w", err)
	}
	return body, nil
}

// RelianceStrategy posts an articles inventory request.
type RelianceStrategy struct {
	doer Doer
	ep   Endpoint
}

var relianceHeaders = map[string]string{
	"accept":     "application/json, text/plain, */*",
	"origin":     "https://www.reliancedigital.in",
	"referer":    "https://www.reliancedigital.in/",
	"user-agent": browserUserAgent,
}

type relianceArticle struct {
	ArticleID  string         `json:"article_id"`
	CustomJSON map[string]any `json:"custom_json"`
	Quantity   int            `json:"quantity"`
}

type relianceInventoryRequest struct {
	Articles    []relianceArticle `json:"articles"`
	PhoneNumber string            `json:"phone_number"`
	Pincode     string            `json:"pincode"`
	RequestPage string            `json:"request_page"`
}

// Fetch implements retailer.Strategy.
func (s *RelianceStrategy) Fetch(ctx context.Context, req retailer.Request) ([]byte, error) {
	body, err := s.doer.Do(ctx, Call{
		Method:  http.MethodPost,
		URL:     s.ep.url(defaultRelianceURL),
		Headers: s.ep.headers(relianceHeaders),
		Body: relianceInventoryRequest{
			Articles: []relianceArticle{{
				ArticleID:  req.Code,
				CustomJSON: map[string]any{},
				Quantity:   1,
			}},
			PhoneNumber: "0",
			Pincode:     req.Location.String(),
			RequestPage: "pdp",
		},
		Timeout: s.ep.timeout(RelianceTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("reliance inventory request: %w", err)
	}
	return body, nil
}

// ActivityStrategy reads the activity-info endpoint shared by iQOO and Vivo.
type ActivityStrategy struct {
	doer Doer
	ep   Endpoint
	host string
}

// NewActivityStrategy creates an ActivityStrategy for a shop host such as
// mshop.vivo.com.
func NewActivityStrategy(d Doer, ep Endpoint, host string) *ActivityStrategy {
	return &ActivityStrategy{doer: d, ep: ep, host: host}
}

// Fetch implements retailer.Strategy. The location is ignored.
func (s *ActivityStrategy) Fetch(ctx context.Context, req retailer.Request) ([]byte, error) {
	base := s.ep.url("https://" + s.host + "/in/api/product/activityInfo/all")
	code := url.PathEscape(req.Code)

	body, err := s.doer.Do(ctx, Call{
		Method: http.MethodGet,
		URL:    strings.TrimRight(base, "/") + "/" + code,
		Headers: s.ep.headers(map[string]string{
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "en-US,en;q=0.9",
			"Referer":         "https://" + s.host + "/in/product/" + code,
			"User-Agent":      mobileUserAgent,
		}),
		Timeout: s.ep.timeout(DefaultTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("%s activity request: %w", s.host, err)
	}
	return body, nil
}
