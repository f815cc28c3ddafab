package feed

import (
	"regexp"
	"slices"
	"strings"

	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// BrandAllowed reports whether the item brand is in the whitelist,
// ignoring case. An empty whitelist allows every item.
func BrandAllowed(it Item, whitelist []string) bool {
	if len(whitelist) == 0 {
		return true
	}
	brand := strings.ToLower(it.Brand)
	return slices.ContainsFunc(whitelist, func(b string) bool {
		return strings.ToLower(b) == brand
	})
}

// CategoryAllowed reports whether the item category slug is in the
// whitelist. An empty whitelist allows every item.
func CategoryAllowed(it Item, whitelist []string) bool {
	if len(whitelist) == 0 {
		return true
	}
	return slices.Contains(whitelist, it.CategorySlug)
}

// HasOffer reports whether the item carries any promotional offer.
func HasOffer(p Pricing) bool {
	switch {
	case p.OfferBadgeText != "", p.AvailableOfferType != "":
		return true
	case p.DiscountAvailable == "true":
		return true
	case p.BankOffers != nil && p.BankOffers.Attributes > 0:
		return true
	case p.OfferAvailable == "true":
		return true
	default:
		return false
	}
}

// InStock reports whether the item can be bought. A sold-out badge always
// wins over the availability block.
func InStock(it Item) bool {
	badge := strings.ToLower(it.BadgeType)
	if badge == "oos" || strings.Contains(badge, "sold") {
		return false
	}

	if status := strings.TrimSpace(it.Availability.Status); status != "" && status != "000" {
		return true
	}

	button := strings.ToLower(it.Availability.Button)
	if strings.Contains(button, "add") || strings.Contains(button, "buy") {
		return true
	}

	label := strings.ToLower(it.Availability.Label)
	return strings.Contains(label, "available") || strings.Contains(label, "in stock")
}

// Haystack is the lowercase search text of an item.
func Haystack(it Item) string {
	return strings.ToLower(it.Desc + " " + it.USP + " " + strings.Join(it.Info, " "))
}

type compiledProduct struct {
	product  domain.FeedProduct
	patterns []*regexp.Regexp
}

// Matcher decides whether an item is one of the configured products.
// Phrases match as whole words, case-insensitively, with any regular
// expression metacharacters taken literally.
type Matcher struct {
	products []compiledProduct
}

// NewMatcher compiles the phrases of products. Blank phrases never match.
func NewMatcher(products []domain.FeedProduct) *Matcher {
	m := &Matcher{products: make([]compiledProduct, 0, len(products))}
	for _, p := range products {
		cp := compiledProduct{product: p}
		for _, phrase := range p.Phrases() {
			if re := phrasePattern(phrase); re != nil {
				cp.patterns = append(cp.patterns, re)
			}
		}
		m.products = append(m.products, cp)
	}
	return m
}

func phrasePattern(phrase string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.TrimSpace(phrase))
	if quoted == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)\b` + quoted + `\b`)
}

// Match returns the first configured product found in the item text. With
// no configured products every item matches and product is nil.
func (m *Matcher) Match(it Item) (product *domain.FeedProduct, ok bool) {
	if len(m.products) == 0 {
		return nil, true
	}

	haystack := Haystack(it)
	for i := range m.products {
		cp := &m.products[i]
		for _, re := range cp.patterns {
			if re.MatchString(haystack) {
				return &cp.product, true
			}
		}
	}
	return nil, false
}

// Filter applies the tracker filters in order: brand, category, product
// match, stock, offer. It returns the matched product, if any.
func Filter(it Item, t domain.FeedTracker, m *Matcher) (*domain.FeedProduct, bool) {
	if !BrandAllowed(it, t.BrandWhitelist) || !CategoryAllowed(it, t.CategoryWhitelist) {
		return nil, false
	}
	product, ok := m.Match(it)
	if !ok || !InStock(it) || !HasOffer(it.Pricing) {
		return nil, false
	}
	return product, true
}
