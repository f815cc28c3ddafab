// Package feed scans bulk quick-commerce listings for in-stock offers on
// configured products.
package feed

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Item is one product of a listing page. Absent fields are zero values.
type Item struct {
	ID           string
	Desc         string
	USP          string
	Brand        string
	CategorySlug string
	Info         []string
	AbsoluteURL  string

	Availability Availability
	BadgeType    string
	Pricing      Pricing
}

// Availability is the stock block of an item.
type Availability struct {
	Status string
	Button string
	Label  string
}

// Pricing holds the offer-relevant pricing fields of an item.
type Pricing struct {
	OfferBadgeText     string
	AvailableOfferType string

	DiscountText      string
	DiscountAvailable string
	PrimarySP         Price
	SubscriptionPrice Price

	// BankOffers is nil when the item carries no bank_offers object.
	BankOffers *BankOffers

	OfferAvailable string
	OfferSP        Price
	OfferEntryText string
}

// BankOffers is the bank offer block. Attributes counts its keys.
type BankOffers struct {
	Attributes         int
	SavingsText        string
	EffectivePrice     Price
	EffectivePriceText string
}

// Price is a listed amount. Set is false when the field was absent or zero.
type Price struct {
	Value float64
	Set   bool
	// Valid is false when the field was present but not numeric.
	Valid bool
}

// ParseItems collects the products of every tab of a listing response.
func ParseItems(payload []byte) []Item {
	if !gjson.ValidBytes(payload) {
		return nil
	}

	tabs := gjson.GetBytes(payload, "tabs")
	if !tabs.IsArray() {
		return nil
	}

	var items []Item
	for _, tab := range tabs.Array() {
		products := tab.Get("product_info.products")
		if !products.IsArray() {
			continue
		}
		for _, p := range products.Array() {
			items = append(items, parseItem(p))
		}
	}
	return items
}

func parseItem(p gjson.Result) Item {
	it := Item{
		ID:           p.Get("id").String(),
		Desc:         str(p.Get("desc")),
		USP:          str(p.Get("usp")),
		Brand:        str(p.Get("brand.name")),
		CategorySlug: str(p.Get("category.llc_slug")),
		AbsoluteURL:  str(p.Get("absolute_url")),
		Availability: Availability{
			Status: str(p.Get("availability.avail_status")),
			Button: str(p.Get("availability.button")),
			Label:  str(p.Get("availability.label")),
		},
		BadgeType: str(p.Get("sku_badge.type")),
	}

	if info := p.Get("additional_attr.info"); info.IsArray() {
		for _, i := range info.Array() {
			it.Info = append(it.Info, str(i.Get("value")))
		}
	}

	pr := p.Get("pricing")
	it.Pricing = Pricing{
		OfferBadgeText:     str(pr.Get("offer_badge_text")),
		AvailableOfferType: str(pr.Get("available_offer_type")),
		DiscountText:       str(pr.Get("discount.d_text")),
		DiscountAvailable:  str(pr.Get("discount.d_avail")),
		PrimarySP:          price(pr.Get("discount.prim_price.sp")),
		SubscriptionPrice:  price(pr.Get("discount.subscription_price")),
		OfferAvailable:     str(pr.Get("offer.offer_available")),
		OfferSP:            price(pr.Get("offer.offer_sp")),
		OfferEntryText:     str(pr.Get("offer.offer_entry_text")),
	}

	if bank := pr.Get("bank_offers"); bank.IsObject() {
		n := 0
		bank.ForEach(func(_, _ gjson.Result) bool {
			n++
			return true
		})
		it.Pricing.BankOffers = &BankOffers{
			Attributes:         n,
			SavingsText:        str(bank.Get("savings_text")),
			EffectivePrice:     price(bank.Get("effective_price")),
			EffectivePriceText: str(bank.Get("effective_price_text")),
		}
	}

	return it
}

// str returns strings as-is and the raw text of scalars; objects, arrays,
// null and false are empty.
func str(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number, gjson.True:
		return r.Raw
	default:
		return ""
	}
}

func price(r gjson.Result) Price {
	switch r.Type {
	case gjson.Number:
		if r.Num == 0 {
			return Price{}
		}
		return Price{Value: r.Num, Set: true, Valid: true}
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if r.Str == "" {
			return Price{}
		}
		if s == "" {
			return Price{Value: 0, Set: true, Valid: true}
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Price{Set: true}
		}
		return Price{Value: v, Set: true, Valid: true}
	case gjson.True:
		return Price{Value: 1, Set: true, Valid: true}
	default:
		return Price{}
	}
}
