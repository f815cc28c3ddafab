package retailer

import (
	"github.com/tidwall/gjson"
)

// FlipkartDetails is the listing summary of a keyed response.
type FlipkartDetails struct {
	Available bool
	Price     string
}

// Notes implements Details.
func (d FlipkartDetails) Notes() []string {
	if d.Price == "" {
		return nil
	}
	return []string{"💰 Price: ₹" + d.Price}
}

// Flipkart decodes responses keyed by product code.
type Flipkart struct{}

// ID implements Kind.
func (Flipkart) ID() KindID { return KindFlipkart }

// RequiresLocation implements Kind.
func (Flipkart) RequiresLocation() bool { return true }

// ProductLink implements Kind.
func (Flipkart) ProductLink(id string) string {
	return "https://www.flipkart.com/product/p?pid=" + id
}

// Evaluate implements Kind.
func (Flipkart) Evaluate(code string, payload []byte) Verdict {
	d := FlipkartAvailability(code, payload)
	return Verdict{Available: d.Available, Details: d}
}

// FlipkartAvailability reads RESPONSE.<code>.listingSummary. The product is
// available when either the availability or the serviceability flag is true.
func FlipkartAvailability(code string, payload []byte) FlipkartDetails {
	var d FlipkartDetails

	response, ok := lookupKey(gjson.GetBytes(payload, "RESPONSE"), code)
	if !ok {
		return d
	}

	listing := response.Get("listingSummary")
	d.Available = listing.Get("available").Type == gjson.True ||
		listing.Get("serviceable").Type == gjson.True

	if price := listing.Get("pricing.finalPrice.decimalValue"); truthy(price) {
		d.Price = price.String()
	}

	return d
}

// lookupKey finds an object member by exact key. Product codes may contain
// characters that are significant in gjson paths, so the path syntax is
// not used here.
func lookupKey(obj gjson.Result, key string) (gjson.Result, bool) {
	if !obj.IsObject() {
		return gjson.Result{}, false
	}

	var found gjson.Result
	var ok bool
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})

	if !ok || !truthy(found) {
		return gjson.Result{}, false
	}
	return found, true
}
