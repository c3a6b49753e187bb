package changefeed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/logger"
)

const testPrefix = "cb:test"

func newTestRedis(t *testing.T) (*Redis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	feed := NewRedis(client, testPrefix, logger.NewNop())
	t.Cleanup(func() { _ = feed.Close() })
	return feed, client
}

func TestChannelNaming(t *testing.T) {
	assert.Equal(t, "cb:test:court:17", Channel(testPrefix, 17))
	assert.Equal(t, "cb:test:court:*", Pattern(testPrefix))
}

func TestRedis_ScopedDelivery(t *testing.T) {
	ctx := context.Background()
	feed, _ := newTestRedis(t)

	court1, err := feed.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer court1.Close()
	court2, err := feed.Subscribe(ctx, 2)
	require.NoError(t, err)
	defer court2.Close()
	all, err := feed.SubscribeAll(ctx)
	require.NoError(t, err)
	defer all.Close()

	bookingID := int64(9)
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{
		Kind:      domain.ChangeBookingCreated,
		CourtID:   1,
		Date:      "2026-11-02",
		BookingID: &bookingID,
	}))

	got := receive(t, court1)
	assert.Equal(t, domain.ChangeBookingCreated, got.Kind)
	assert.Equal(t, int64(1), got.CourtID)
	assert.Equal(t, "2026-11-02", got.Date)
	require.NotNil(t, got.BookingID)
	assert.Equal(t, bookingID, *got.BookingID)

	assert.Equal(t, int64(1), receive(t, all).CourtID)

	// Событие другого корта не должно прийти в подписку корта 1
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{
		Kind:     domain.ChangeBlockCreated,
		CourtID:  2,
		Date:     "2026-11-02",
		BlockIDs: []int64{4},
	}))
	assert.Equal(t, []int64{4}, receive(t, court2).BlockIDs)
	assert.Equal(t, int64(2), receive(t, all).CourtID)
	assertNoEvent(t, court1)
}

func TestRedis_SkipsMalformedMessages(t *testing.T) {
	ctx := context.Background()
	feed, client := newTestRedis(t)

	sub, err := feed.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, client.Publish(ctx, Channel(testPrefix, 1), "not json").Err())
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{Kind: domain.ChangeBlockRemoved, CourtID: 1, Date: "2026-11-02"}))

	assert.Equal(t, domain.ChangeBlockRemoved, receive(t, sub).Kind)
}

func TestRedis_CloseDrainsSubscription(t *testing.T) {
	ctx := context.Background()
	feed, _ := newTestRedis(t)

	sub, err := feed.Subscribe(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}
