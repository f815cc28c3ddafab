package retailer

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Croma fulfillment channels, in the order they are reported.
const (
	ChannelHomeDelivery  = "HDEL"
	ChannelStorePickup   = "STOR"
	ChannelStoreDelivery = "SDEL"
)

var cromaChannels = []string{ChannelHomeDelivery, ChannelStorePickup, ChannelStoreDelivery}

// Assignment is one fulfillment assignment of a Croma promise line.
type Assignment struct {
	Quantity     int
	DeliveryDate string
	FromTime     string
	ToTime       string
}

// ChannelAvailability reports whether a channel can fulfil the order.
type ChannelAvailability struct {
	Available   bool
	Assignments []Assignment
}

// CromaDetails is the per-channel breakdown of an order-promise response.
type CromaDetails struct {
	Channels map[string]ChannelAvailability
}

// Channel returns the availability of a fulfillment channel.
func (d CromaDetails) Channel(name string) ChannelAvailability {
	return d.Channels[name]
}

// Available reports whether any channel has stock.
func (d CromaDetails) Available() bool {
	for _, ch := range cromaChannels {
		if d.Channels[ch].Available {
			return true
		}
	}
	return false
}

// Notes implements Details.
func (d CromaDetails) Notes() []string {
	var notes []string

	if ch := d.Channel(ChannelHomeDelivery); ch.Available {
		a := ch.Assignments[0]
		notes = append(notes, fmt.Sprintf(
			"\n📦 *Home Delivery (HDEL) - Available*\nDelivery Date: %s\nTime: %s - %s\nQuantity: %d",
			orNA(a.DeliveryDate), orNA(a.FromTime), orNA(a.ToTime), a.Quantity,
		))
	}

	if ch := d.Channel(ChannelStorePickup); ch.Available {
		a := ch.Assignments[0]
		notes = append(notes, fmt.Sprintf(
			"\n🏪 *Store Pickup (STOR) - Available*\nQuantity: %d", a.Quantity,
		))
	}

	if ch := d.Channel(ChannelStoreDelivery); ch.Available {
		a := ch.Assignments[0]
		notes = append(notes, fmt.Sprintf(
			"\n🚚 *Store Delivery (SDEL) - Available*\nDelivery Date: %s\nQuantity: %d",
			orNA(a.DeliveryDate), a.Quantity,
		))
	}

	return notes
}

// Croma decodes order-promise responses.
type Croma struct{}

// ID implements Kind.
func (Croma) ID() KindID { return KindCroma }

// RequiresLocation implements Kind.
func (Croma) RequiresLocation() bool { return true }

// ProductLink implements Kind.
func (Croma) ProductLink(id string) string {
	return "https://www.croma.com/product-details?pid=" + id
}

// Evaluate implements Kind.
func (Croma) Evaluate(code string, payload []byte) Verdict {
	d := CromaAvailability(code, payload)
	return Verdict{Available: d.Available(), Details: d}
}

// CromaAvailability extracts the per-channel availability for code. A
// channel is available only when its promise line carries at least one
// assignment with a positive quantity.
func CromaAvailability(code string, payload []byte) CromaDetails {
	d := CromaDetails{Channels: make(map[string]ChannelAvailability, len(cromaChannels))}

	option := gjson.GetBytes(payload, "promise.suggestedOption.option")
	if !option.IsObject() {
		return d
	}

	lines := option.Get("promiseLines.promiseLine")
	if !lines.IsArray() {
		return d
	}

	for _, channel := range cromaChannels {
		line, ok := findPromiseLine(lines, channel, code)
		if !ok {
			continue
		}

		assignments := line.Get("assignments.assignment")
		if !assignments.IsArray() {
			continue
		}

		var valid []Assignment
		for _, a := range assignments.Array() {
			qty := leadingInt(a.Get("quantity"))
			if qty <= 0 {
				continue
			}
			valid = append(valid, Assignment{
				Quantity:     qty,
				DeliveryDate: a.Get("deliveryDate").String(),
				FromTime:     a.Get("fromTime").String(),
				ToTime:       a.Get("toTime").String(),
			})
		}

		if len(valid) > 0 {
			d.Channels[channel] = ChannelAvailability{Available: true, Assignments: valid}
		}
	}

	return d
}

func findPromiseLine(lines gjson.Result, channel, code string) (gjson.Result, bool) {
	for _, l := range lines.Array() {
		if l.Get("fulfillmentType").String() == channel && l.Get("itemID").String() == code {
			return l, true
		}
	}
	return gjson.Result{}, false
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
