package court_events

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/infra/changefeed"
)

// Subscriber источник изменений корта
type Subscriber interface {
	Subscribe(ctx context.Context, courtID int64) (*changefeed.Subscription, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
