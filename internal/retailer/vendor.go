// Package retailer normalizes raw vendor payloads into availability verdicts.
//
// Each supported vendor format is a Kind. The Kind is selected once when the
// configuration is loaded and travels with the Vendor value, so the sweep never
// branches on vendor names.
package retailer

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// KindID names a vendor response format.
type KindID string

// Supported vendor kinds.
const (
	KindCroma           KindID = "croma"
	KindSamsung         KindID = "samsung"
	KindFlipkart        KindID = "flipkart"
	KindRelianceDigital KindID = "reliance_digital"
	KindIQOO            KindID = "iqoo"
	KindVivo            KindID = "vivo"
	KindGeneric         KindID = "generic"
)

// Kind decodes one vendor's availability response.
type Kind interface {
	ID() KindID
	// RequiresLocation reports whether checks are scoped to a postal code.
	RequiresLocation() bool
	// Evaluate never fails; malformed payloads yield an unavailable verdict.
	Evaluate(code string, payload []byte) Verdict
	// ProductLink builds a link for entries without a configured URL.
	ProductLink(id string) string
}

// Details carries vendor-specific data used only to enrich alert messages.
type Details interface {
	// Notes returns message fragments, each appended on its own line.
	Notes() []string
}

// Verdict is the outcome of evaluating one availability response.
type Verdict struct {
	Available bool
	Details   Details
}

// Notes returns the detail notes, or nil when there are no details.
func (v Verdict) Notes() []string {
	if v.Details == nil {
		return nil
	}
	return v.Details.Notes()
}

// Request identifies a single availability check.
type Request struct {
	Location domain.Location
	Code     string
}

// Strategy performs a vendor-specific availability request. It is
// responsible for its own headers and retries.
type Strategy interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx context.Context, req Request) ([]byte, error)

// Fetch calls f.
func (f StrategyFunc) Fetch(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

// RequestSpec describes the generic request shape of a vendor.
type RequestSpec struct {
	Method  string
	URL     string
	Headers map[string]string
	APIKey  string
	Timeout time.Duration
}

// Vendor is a tracked e-commerce source. It is immutable for the duration
// of a sweep.
type Vendor struct {
	Name      string
	Kind      Kind
	Request   RequestSpec
	Entries   []domain.CatalogEntry
	Locations []domain.Location

	// LocationIndependent forces product-only checks even when the kind
	// would normally be scoped to a postal code.
	LocationIndependent bool

	// Strategy overrides the generic transport when set.
	Strategy Strategy
}

// RequiresLocation reports whether the vendor is checked per location.
func (v *Vendor) RequiresLocation() bool {
	if v.LocationIndependent {
		return false
	}
	return v.kind().RequiresLocation()
}

// Evaluate decodes a raw payload for the given entry code.
func (v *Vendor) Evaluate(code string, payload []byte) Verdict {
	return evaluate(v.kind(), code, payload)
}

// ProductLink returns the entry URL, falling back to the kind's link format.
func (v *Vendor) ProductLink(entry domain.CatalogEntry) string {
	if entry.URL != "" {
		return entry.URL
	}
	return v.kind().ProductLink(entry.ID)
}

func (v *Vendor) kind() Kind {
	if v.Kind == nil {
		return Generic{}
	}
	return v.Kind
}

// Detect reports whether the payload indicates the entry is in stock.
// The location is accepted for parity with the transport signature; no
// current kind inspects it.
func Detect(k Kind, code string, _ domain.Location, payload []byte) bool {
	if k == nil {
		k = Generic{}
	}
	return evaluate(k, code, payload).Available
}

func evaluate(k Kind, code string, payload []byte) Verdict {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return Verdict{}
	}
	return k.Evaluate(code, payload)
}

var kinds = map[KindID]Kind{
	KindCroma:           Croma{},
	KindSamsung:         Samsung{},
	KindFlipkart:        Flipkart{},
	KindRelianceDigital: RelianceDigital{},
	KindIQOO:            Activity{Brand: KindIQOO, Host: "mshop.iqoo.com"},
	KindVivo:            Activity{Brand: KindVivo, Host: "mshop.vivo.com"},
	KindGeneric:         Generic{},
}

// ParseKind looks up a kind by identifier. Spaces, hyphens and case are
// ignored, so "Reliance Digital" resolves to KindRelianceDigital.
func ParseKind(s string) (Kind, bool) {
	key := normalizeKindName(s)
	for id, k := range kinds {
		if normalizeKindName(string(id)) == key {
			return k, true
		}
	}
	return nil, false
}

// KindFor resolves the kind for a vendor. An explicit kind wins; otherwise
// the vendor name is tried, and unrecognized vendors are Generic.
func KindFor(name, explicit string) Kind {
	if explicit != "" {
		if k, ok := ParseKind(explicit); ok {
			return k
		}
	}
	if k, ok := ParseKind(name); ok {
		return k
	}
	return Generic{}
}

func normalizeKindName(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
