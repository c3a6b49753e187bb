package changefeed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/slots"
	"github.com/m04kA/court-booking-service/pkg/logger"
)

func receive(t *testing.T, sub *Subscription) domain.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return domain.ChangeEvent{}
}

func assertNoEvent(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestMemory_ScopedDelivery(t *testing.T) {
	ctx := context.Background()
	feed := NewMemory(logger.NewNop())

	court1, err := feed.Subscribe(ctx, 1)
	require.NoError(t, err)
	court2, err := feed.Subscribe(ctx, 2)
	require.NoError(t, err)
	all, err := feed.SubscribeAll(ctx)
	require.NoError(t, err)

	ev := domain.ChangeEvent{Kind: domain.ChangeBookingCreated, CourtID: 1, Date: "2026-11-02"}
	require.NoError(t, feed.Publish(ctx, ev))

	assert.Equal(t, ev, receive(t, court1))
	assert.Equal(t, ev, receive(t, all))
	assertNoEvent(t, court2)
}

func TestMemory_CloseReleasesSubscription(t *testing.T) {
	ctx := context.Background()
	feed := NewMemory(logger.NewNop())

	sub, err := feed.Subscribe(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{CourtID: 1}))
	assert.Empty(t, feed.court)
}

func TestMemory_SlowSubscriberDropsEvents(t *testing.T) {
	ctx := context.Background()
	feed := NewMemory(logger.NewNop())
	feed.bufferSize = 1

	sub, err := feed.Subscribe(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{CourtID: 1, Kind: domain.ChangeBlockCreated}))
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{CourtID: 1, Kind: domain.ChangeBlockRemoved}))

	assert.Equal(t, domain.ChangeBlockCreated, receive(t, sub).Kind)
	assertNoEvent(t, sub)
}

func TestMemory_ClosedFeed(t *testing.T) {
	ctx := context.Background()
	feed := NewMemory(nil)

	sub, err := feed.SubscribeAll(ctx)
	require.NoError(t, err)
	require.NoError(t, feed.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.NoError(t, sub.Close())

	assert.ErrorIs(t, feed.Publish(ctx, domain.ChangeEvent{}), ErrClosed)
	_, err = feed.Subscribe(ctx, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestForSession_ReleasesOnCourtSwitch(t *testing.T) {
	ctx := context.Background()
	feed := NewMemory(nil)
	session := slots.NewSession(ForSession(feed))

	court := domain.Court{ID: 1, OpenTime: "08:00", CloseTime: "12:00", SlotDurationMinutes: 60}
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	_, err := session.Activate(ctx, court, date)
	require.NoError(t, err)
	assert.Len(t, feed.court[1], 1)

	court.ID = 2
	_, err = session.Activate(ctx, court, date)
	require.NoError(t, err)
	assert.Empty(t, feed.court[1])
	assert.Len(t, feed.court[2], 1)

	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{CourtID: 2, Date: "2026-11-02", Kind: domain.ChangeBookingCreated}))
	ev := <-session.Events()
	assert.True(t, session.Relevant(ev))

	require.NoError(t, session.Close())
	assert.Empty(t, feed.court)
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "court-booking:court:42", Channel("court-booking", 42))
	assert.Equal(t, "court-booking:court:*", Pattern("court-booking"))
}
