package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/engine/mocks"
	"github.com/donaldgifford/restock-tracker/internal/feed"
	notifyMocks "github.com/donaldgifford/restock-tracker/internal/notify/mocks"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

func offerItem(id, desc, brand string) feed.Item {
	return feed.Item{
		ID:           id,
		Desc:         desc,
		Brand:        brand,
		CategorySlug: "dairy",
		Availability: feed.Availability{Status: "A", Button: "Add"},
		Pricing: feed.Pricing{
			OfferBadgeText: "10% OFF",
			PrimarySP:      feed.Price{Value: 90, Set: true, Valid: true},
		},
	}
}

func newFeedEngine(src FeedSource, trackers []domain.FeedTracker, n *notifyMocks.MockNotifier) *Engine {
	return NewEngine(nil, nil, nil,
		WithLogger(quietLogger()),
		WithPacing(Pacing{}),
		WithFeed(src, trackers),
		WithFeedNotifier(n),
	)
}

func TestRunFeedScan_DedupAcrossPages(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockFeedSource(t)
	n := notifyMocks.NewMockNotifier(t)

	tracker := domain.FeedTracker{Slug: "amul-offers", Pages: []int{1, 2}}
	item := offerItem("40001", "Amul Gold Milk 1 L", "Amul")

	src.EXPECT().Configured().Return(true)
	src.EXPECT().FetchPage(mock.Anything, tracker, 1).Return([]feed.Item{item}, nil).Once()
	src.EXPECT().FetchPage(mock.Anything, tracker, 2).Return([]feed.Item{item}, nil).Once()

	var sent string
	n.EXPECT().Send(mock.Anything, mock.Anything).
		Run(func(_ context.Context, text string) { sent = text }).
		Return(nil).
		Once()

	stats, err := newFeedEngine(src, []domain.FeedTracker{tracker}, n).ScanConfiguredFeeds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.FeedScanStats{Pages: 2, Items: 2, Alerts: 1}, stats)
	assert.Contains(t, sent, "🔥 *BigBasket Stock Alert*")
	assert.Contains(t, sent, "Amul Gold Milk 1 L")
	assert.Contains(t, sent, `Query: "amul-offers" • Page 1`)
}

func TestRunFeedScan_NotConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  func(t *testing.T) FeedSource
	}{
		{
			name: "no feed source",
			src:  func(*testing.T) FeedSource { return nil },
		},
		{
			name: "missing credentials",
			src: func(t *testing.T) FeedSource {
				src := mocks.NewMockFeedSource(t)
				src.EXPECT().Configured().Return(false).Once()
				return src
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := notifyMocks.NewMockNotifier(t)
			trackers := []domain.FeedTracker{{Slug: "x"}}

			stats, err := newFeedEngine(tt.src(t), trackers, n).ScanConfiguredFeeds(context.Background())
			require.NoError(t, err)
			assert.Equal(t, domain.FeedScanStats{}, stats)
		})
	}
}

func TestRunFeedScan_PageErrorCounted(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockFeedSource(t)
	n := notifyMocks.NewMockNotifier(t)

	tracker := domain.FeedTracker{Slug: "fruits", Pages: []int{1, 2}}

	src.EXPECT().Configured().Return(true)
	src.EXPECT().FetchPage(mock.Anything, tracker, 1).Return(nil, errors.New("403")).Once()
	src.EXPECT().FetchPage(mock.Anything, tracker, 2).Return(nil, nil).Once()

	stats, err := newFeedEngine(src, []domain.FeedTracker{tracker}, n).ScanConfiguredFeeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FeedScanStats{Pages: 2, Errors: 1}, stats)
}

func TestRunFeedScan_FiltersApplied(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockFeedSource(t)
	n := notifyMocks.NewMockNotifier(t)

	tracker := domain.FeedTracker{
		Slug:           "dairy",
		BrandWhitelist: []string{"amul"},
		Products:       []domain.FeedProduct{{Name: "Gold", Matchers: []string{"gold milk"}}},
	}

	soldOut := offerItem("3", "Amul Gold Milk 500 ml", "Amul")
	soldOut.BadgeType = "OOS"

	noOffer := offerItem("4", "Amul Gold Milk 2 L", "Amul")
	noOffer.Pricing = feed.Pricing{}

	items := []feed.Item{
		offerItem("1", "Nandini Gold Milk", "Nandini"),
		offerItem("2", "Amul Taaza Milk", "Amul"),
		soldOut,
		noOffer,
		offerItem("5", "Amul Gold Milk 1 L", "AMUL"),
	}

	src.EXPECT().Configured().Return(true)
	src.EXPECT().FetchPage(mock.Anything, tracker, 1).Return(items, nil).Once()

	var sent string
	n.EXPECT().Send(mock.Anything, mock.Anything).
		Run(func(_ context.Context, text string) { sent = text }).
		Return(nil).
		Once()

	stats, err := newFeedEngine(src, []domain.FeedTracker{tracker}, n).ScanConfiguredFeeds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.FeedScanStats{Pages: 1, Items: 5, Alerts: 1}, stats)
	assert.Contains(t, sent, "Amul Gold Milk 1 L")
	assert.Contains(t, sent, "Gold")
}

func TestRunFeedScan_ContextCanceled(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockFeedSource(t)
	n := notifyMocks.NewMockNotifier(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := domain.FeedTracker{Slug: "s", Pages: []int{1, 2, 3}}

	src.EXPECT().Configured().Return(true)
	src.EXPECT().FetchPage(mock.Anything, tracker, 1).
		RunAndReturn(func(context.Context, domain.FeedTracker, int) ([]feed.Item, error) {
			cancel()
			return nil, nil
		}).
		Once()

	stats, err := newFeedEngine(src, []domain.FeedTracker{tracker}, n).RunFeedScan(ctx, []domain.FeedTracker{tracker})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Pages)
}
