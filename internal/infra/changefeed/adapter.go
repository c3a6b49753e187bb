package changefeed

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/slots"
)

// Feed общий контракт Memory и Redis
type Feed interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
	Subscribe(ctx context.Context, courtID int64) (*Subscription, error)
	SubscribeAll(ctx context.Context) (*Subscription, error)
	Close() error
}

var (
	_ Feed = (*Memory)(nil)
	_ Feed = (*Redis)(nil)
)

// ForSession подключает ленту к slots.Session
func ForSession(f Feed) slots.ChangeFeed {
	return slots.FeedFunc(func(ctx context.Context, courtID int64) (slots.Subscription, error) {
		sub, err := f.Subscribe(ctx, courtID)
		if err != nil {
			return nil, err
		}
		return sub, nil
	})
}
