package changefeed

import (
	"sync"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// Subscription живая подписка на изменения одного корта (или всех кортов).
// Close освобождает ресурсы и закрывает канал событий; повторный вызов безопасен.
type Subscription struct {
	events <-chan domain.ChangeEvent

	once    sync.Once
	closeFn func() error
	err     error
}

func newSubscription(events <-chan domain.ChangeEvent, closeFn func() error) *Subscription {
	return &Subscription{events: events, closeFn: closeFn}
}

// Events канал событий; закрывается после Close
func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

func (s *Subscription) Close() error {
	s.once.Do(func() {
		s.err = s.closeFn()
	})
	return s.err
}
