package retailer

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Outlet is a serviceable dealer or store.
type Outlet struct {
	StoreName string
	Location  string
	Quantity  string
}

// DeliveryMode is a delivery option carrying an estimated date.
type DeliveryMode struct {
	EstimatedDeliveryDate string
}

// SamsungDetails lists the serviceable fulfillment options.
type SamsungDetails struct {
	LocalDealers  []Outlet
	Stores        []Outlet
	DeliveryModes []DeliveryMode
}

// Available reports whether any dealer, store or delivery mode is present.
func (d SamsungDetails) Available() bool {
	return len(d.LocalDealers) > 0 || len(d.Stores) > 0 || len(d.DeliveryModes) > 0
}

// Notes implements Details.
func (d SamsungDetails) Notes() []string {
	var notes []string

	if len(d.LocalDealers) > 0 {
		dealer := d.LocalDealers[0]
		notes = append(notes, fmt.Sprintf(
			"\n🏪 *Local Dealer Available*\nStore: %s\nLocation: %s\nQuantity: %s",
			dealer.StoreName, dealer.Location, dealer.Quantity,
		))
	}

	if len(d.Stores) > 0 {
		store := d.Stores[0]
		notes = append(notes, fmt.Sprintf(
			"\n🏬 *Store Available*\nStore: %s\nLocation: %s",
			store.StoreName, store.Location,
		))
	}

	if len(d.DeliveryModes) > 0 {
		notes = append(notes, fmt.Sprintf(
			"\n🚚 *Delivery Available*\nEstimated Delivery: %s",
			d.DeliveryModes[0].EstimatedDeliveryDate,
		))
	}

	return notes
}

// Samsung decodes serviceability responses.
type Samsung struct{}

// ID implements Kind.
func (Samsung) ID() KindID { return KindSamsung }

// RequiresLocation implements Kind.
func (Samsung) RequiresLocation() bool { return true }

// ProductLink implements Kind.
func (Samsung) ProductLink(id string) string {
	return "https://www.samsung.com/in/tablets/galaxy-tab-s10/buy/?modelCode=" + id + "INS"
}

// Evaluate implements Kind.
func (Samsung) Evaluate(code string, payload []byte) Verdict {
	d := SamsungAvailability(code, payload)
	return Verdict{Available: d.Available(), Details: d}
}

// SamsungAvailability collects serviceable dealers, stores and dated
// delivery modes from the first element of the response array.
func SamsungAvailability(_ string, payload []byte) SamsungDetails {
	var d SamsungDetails

	root := gjson.ParseBytes(payload)
	if !root.IsArray() {
		return d
	}
	items := root.Array()
	if len(items) == 0 {
		return d
	}

	item := items[0]
	attrs := item.Get("external_attributes")
	if !attrs.IsObject() {
		return d
	}

	d.LocalDealers = serviceableOutlets(attrs.Get("local_dealers"))
	d.Stores = serviceableOutlets(attrs.Get("stores"))

	modes := item.Get("delivery_modes")
	if !modes.IsArray() {
		return d
	}
	for _, mode := range modes.Array() {
		eta := mode.Get("estimated_delivery_date")
		if !truthy(eta) {
			continue
		}
		d.DeliveryModes = append(d.DeliveryModes, DeliveryMode{EstimatedDeliveryDate: eta.String()})
	}

	return d
}

func serviceableOutlets(list gjson.Result) []Outlet {
	if !list.IsArray() {
		return nil
	}

	var outlets []Outlet
	for _, o := range list.Array() {
		if o.Get("serviceable").Type != gjson.True {
			continue
		}
		outlets = append(outlets, Outlet{
			StoreName: text(o.Get("store_name")),
			Location:  text(o.Get("location"), o.Get("city")),
			Quantity:  text(o.Get("quantity")),
		})
	}
	return outlets
}
