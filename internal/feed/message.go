package feed

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// WebURL prefixes item links in alert messages.
const WebURL = "https://www.bigbasket.com"

// FormatRupees formats an amount with Indian digit grouping, e.g.
// ₹1,23,456.5. Invalid or unset prices render as N/A.
func FormatRupees(p Price) string {
	if !p.Set || !p.Valid || math.IsInf(p.Value, 0) || math.IsNaN(p.Value) {
		return "N/A"
	}
	return "₹" + groupIndian(p.Value)
}

func groupIndian(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 3, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(append(groups, tail), ",")
	}

	if frac != "" {
		whole += "." + frac
	}
	return sign + whole
}

// sellingPrice picks the first set price in display priority.
func sellingPrice(p Pricing) Price {
	candidates := []Price{p.PrimarySP, p.OfferSP}
	if p.BankOffers != nil {
		candidates = append(candidates, p.BankOffers.EffectivePrice)
	}
	candidates = append(candidates, p.SubscriptionPrice)

	for _, c := range candidates {
		if c.Set {
			return c
		}
	}
	return Price{}
}

func offerLines(p Pricing) []string {
	var lines []string

	if p.DiscountText != "" {
		lines = append(lines, "Discount: "+p.DiscountText)
	}
	if p.OfferBadgeText != "" {
		lines = append(lines, "Offer badge: "+p.OfferBadgeText)
	}

	if b := p.BankOffers; b != nil {
		var parts []string
		if b.SavingsText != "" {
			parts = append(parts, b.SavingsText)
		}
		if b.EffectivePriceText != "" && b.EffectivePrice.Set {
			parts = append(parts, b.EffectivePriceText+" "+FormatRupees(b.EffectivePrice))
		}
		if len(parts) > 0 {
			lines = append(lines, "Bank: "+strings.Join(parts, " | "))
		}
	}

	if p.OfferEntryText != "" {
		lines = append(lines, "Promo: "+p.OfferEntryText)
	}

	return lines
}

// BuildMessage renders the alert for an item found on a tracker page.
func BuildMessage(it Item, t domain.FeedTracker, page int, matched *domain.FeedProduct) string {
	lines := []string{
		"🔥 *BigBasket Stock Alert*",
		"Product: " + it.Desc,
	}
	if matched != nil && matched.Name != "" {
		lines = append(lines, "Matched Config: "+matched.Name)
	}

	brand := it.Brand
	if brand == "" {
		brand = "N/A"
	}
	lines = append(lines,
		"Brand: "+brand,
		"Selling price: "+FormatRupees(sellingPrice(it.Pricing)),
	)
	lines = append(lines, offerLines(it.Pricing)...)

	availability := it.Availability.Label
	if availability == "" {
		availability = it.Availability.Button
	}
	if availability == "" {
		availability = "Available"
	}

	lines = append(lines,
		"Availability: "+availability,
		fmt.Sprintf("Query: \"%s\" • Page %d", t.Slug, page),
		"Link: "+WebURL+it.AbsoluteURL,
	)

	return strings.Join(lines, "\n")
}
