package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// Sweeper runs a restock sweep.
type Sweeper interface {
	RunSweep(ctx context.Context) (domain.SweepStats, error)
}

// FeedScanner runs a scan of the configured feed trackers.
type FeedScanner interface {
	ScanConfiguredFeeds(ctx context.Context) (domain.FeedScanStats, error)
}

// TriggerHandler runs sweeps and feed scans on request. When a secret is
// configured every request must carry it as a bearer token.
type TriggerHandler struct {
	sweeper FeedSweeper
	secret  string
	timeout time.Duration
	nowFunc func() time.Time
}

// FeedSweeper runs both kinds of pass.
type FeedSweeper interface {
	Sweeper
	FeedScanner
}

// TriggerOption configures a TriggerHandler.
type TriggerOption func(*TriggerHandler)

// WithSecret requires the bearer secret on every trigger request.
func WithSecret(secret string) TriggerOption {
	return func(h *TriggerHandler) {
		h.secret = secret
	}
}

// WithRunTimeout bounds every triggered run.
func WithRunTimeout(d time.Duration) TriggerOption {
	return func(h *TriggerHandler) {
		h.timeout = d
	}
}

// WithNowFunc overrides the response timestamp clock for testing.
func WithNowFunc(f func() time.Time) TriggerOption {
	return func(h *TriggerHandler) {
		h.nowFunc = f
	}
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(s FeedSweeper, opts ...TriggerOption) *TriggerHandler {
	h := &TriggerHandler{sweeper: s, nowFunc: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TriggerInput carries the optional bearer secret.
type TriggerInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, required when a trigger secret is configured"`
}

// TriggerBody is the response body of a triggered run.
type TriggerBody[S any] struct {
	Success   bool      `json:"success"             doc:"Whether the run completed"`
	Message   string    `json:"message,omitempty"   example:"Stock check completed"`
	Error     string    `json:"error,omitempty"     doc:"Failure reason"`
	Timestamp time.Time `json:"timestamp"           doc:"Response time"`
	Stats     *S        `json:"stats,omitempty"     doc:"Run statistics"`
}

// SweepOutput is the response for the sweep trigger.
type SweepOutput struct {
	Status int
	Body   TriggerBody[domain.SweepStats]
}

// FeedScanOutput is the response for the feed-scan trigger.
type FeedScanOutput struct {
	Status int
	Body   TriggerBody[domain.FeedScanStats]
}

// Sweep runs one sweep and reports its statistics.
func (h *TriggerHandler) Sweep(ctx context.Context, in *TriggerInput) (*SweepOutput, error) {
	out := &SweepOutput{}
	out.Status, out.Body = run(ctx, h, in, "Stock check completed", h.sweeper.RunSweep)
	return out, nil
}

// FeedScan runs one scan of the configured feed trackers.
func (h *TriggerHandler) FeedScan(ctx context.Context, in *TriggerInput) (*FeedScanOutput, error) {
	out := &FeedScanOutput{}
	out.Status, out.Body = run(ctx, h, in, "BigBasket check completed", h.sweeper.ScanConfiguredFeeds)
	return out, nil
}

func run[S any](
	ctx context.Context,
	h *TriggerHandler,
	in *TriggerInput,
	message string,
	pass func(context.Context) (S, error),
) (int, TriggerBody[S]) {
	if !h.authorized(in.Authorization) {
		return http.StatusUnauthorized, TriggerBody[S]{Error: "Unauthorized", Timestamp: h.nowFunc().UTC()}
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	stats, err := pass(ctx)
	if err != nil {
		return http.StatusInternalServerError, TriggerBody[S]{
			Error:     err.Error(),
			Timestamp: h.nowFunc().UTC(),
		}
	}

	return http.StatusOK, TriggerBody[S]{
		Success:   true,
		Message:   message,
		Timestamp: h.nowFunc().UTC(),
		Stats:     &stats,
	}
}

func (h *TriggerHandler) authorized(header string) bool {
	if h.secret == "" {
		return true
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

// RegisterTriggerRoutes registers the trigger endpoints for both GET and
// POST with the Huma API.
func RegisterTriggerRoutes(api huma.API, h *TriggerHandler) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		suffix := strings.ToLower(method)

		huma.Register(api, huma.Operation{
			OperationID: "trigger-sweep-" + suffix,
			Method:      method,
			Path:        "/api/v1/sweep",
			Summary:     "Trigger a restock sweep",
			Description: "Checks every catalog entry of every vendor and alerts on restocks.",
			Tags:        []string{"trigger"},
			Errors:      []int{http.StatusUnauthorized, http.StatusInternalServerError},
		}, h.Sweep)

		huma.Register(api, huma.Operation{
			OperationID: "trigger-feed-scan-" + suffix,
			Method:      method,
			Path:        "/api/v1/feed-scan",
			Summary:     "Trigger a feed offer scan",
			Description: "Scans the configured listing trackers and alerts on in-stock offers.",
			Tags:        []string{"trigger"},
			Errors:      []int{http.StatusUnauthorized, http.StatusInternalServerError},
		}, h.FeedScan)
	}
}
