package feed_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/feed"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

func TestFormatRupees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price feed.Price
		want  string
	}{
		{price: feed.Price{Value: 999, Set: true, Valid: true}, want: "₹999"},
		{price: feed.Price{Value: 1000, Set: true, Valid: true}, want: "₹1,000"},
		{price: feed.Price{Value: 123456, Set: true, Valid: true}, want: "₹1,23,456"},
		{price: feed.Price{Value: 12345678.5, Set: true, Valid: true}, want: "₹1,23,45,678.5"},
		{price: feed.Price{Value: 79900.125, Set: true, Valid: true}, want: "₹79,900.125"},
		{price: feed.Price{Value: 0, Set: true, Valid: true}, want: "₹0"},
		{price: feed.Price{Set: true}, want: "N/A"},
		{price: feed.Price{}, want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, feed.FormatRupees(tt.price))
		})
	}
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	items := feed.ParseItems([]byte(listingPage))
	require.NotEmpty(t, items)

	tracker := domain.FeedTracker{Slug: "iphone"}
	product := &domain.FeedProduct{Name: "iPhone 17"}

	msg := feed.BuildMessage(items[0], tracker, 2, product)
	lines := strings.Split(msg, "\n")

	assert.Equal(t, []string{
		"🔥 *BigBasket Stock Alert*",
		"Product: Apple iPhone 17 256GB",
		"Matched Config: iPhone 17",
		"Brand: Apple",
		"Selling price: ₹79,900",
		"Discount: 6% OFF",
		"Offer badge: ₹5000 OFF",
		"Bank: Save ₹4,000 | Effective ₹75,900",
		"Availability: Available",
		`Query: "iphone" • Page 2`,
		"Link: https://www.bigbasket.com/pd/40312345/apple-iphone-17/",
	}, lines)
}

func TestBuildMessage_Fallbacks(t *testing.T) {
	t.Parallel()

	it := feed.Item{
		Desc:         "Loose item",
		Availability: feed.Availability{Button: "Add"},
		Pricing: feed.Pricing{
			OfferSP:        feed.Price{Value: 120, Set: true, Valid: true},
			OfferEntryText: "Buy 2 get 1",
		},
	}

	msg := feed.BuildMessage(it, domain.FeedTracker{Slug: "snacks"}, 1, nil)

	assert.NotContains(t, msg, "Matched Config")
	assert.Contains(t, msg, "Brand: N/A")
	assert.Contains(t, msg, "Selling price: ₹120")
	assert.Contains(t, msg, "Promo: Buy 2 get 1")
	assert.Contains(t, msg, "Availability: Add")
}
