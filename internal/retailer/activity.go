package retailer

import (
	"github.com/tidwall/gjson"
)

const (
	activitySuccess = "1"
	// reservableInStock is the reservable-identifier sentinel for stock on hand.
	reservableInStock = -1
)

// ActivityDetails is the stock verdict of an activity-info response.
type ActivityDetails struct {
	Available bool
}

// Notes implements Details.
func (ActivityDetails) Notes() []string { return nil }

// Activity decodes the activity-info format shared by iQOO and Vivo. Checks
// are product-only.
type Activity struct {
	Brand KindID
	Host  string
}

// ID implements Kind.
func (a Activity) ID() KindID { return a.Brand }

// RequiresLocation implements Kind.
func (Activity) RequiresLocation() bool { return false }

// ProductLink implements Kind.
func (a Activity) ProductLink(id string) string {
	return "https://" + a.Host + "/in/product/" + id
}

// Evaluate implements Kind.
func (Activity) Evaluate(_ string, payload []byte) Verdict {
	d := ActivityAvailability(payload)
	return Verdict{Available: d.Available, Details: d}
}

// ActivityAvailability requires the success sentinel and reports stock when
// any SKU carries the in-stock reservable identifier.
func ActivityAvailability(payload []byte) ActivityDetails {
	root := gjson.ParseBytes(payload)
	success := root.Get("success")
	if success.Type != gjson.String || success.Str != activitySuccess || !truthy(root.Get("data")) {
		return ActivityDetails{}
	}

	skus := root.Get("data.activitySkuList")
	if !skus.IsArray() {
		return ActivityDetails{}
	}
	for _, sku := range skus.Array() {
		id := sku.Get("activityInfo.reservableId")
		if id.Type == gjson.Number && id.Num == reservableInStock {
			return ActivityDetails{Available: true}
		}
	}

	return ActivityDetails{}
}
