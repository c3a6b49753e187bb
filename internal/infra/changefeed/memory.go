package changefeed

import (
	"context"
	"sync"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// Memory лента изменений в памяти процесса (один инстанс сервиса, тесты)
type Memory struct {
	mu     sync.RWMutex
	nextID int
	court  map[int64]map[int]chan domain.ChangeEvent
	all    map[int]chan domain.ChangeEvent
	closed bool

	bufferSize int
	logger     Logger
}

func NewMemory(logger Logger) *Memory {
	return &Memory{
		court:      make(map[int64]map[int]chan domain.ChangeEvent),
		all:        make(map[int]chan domain.ChangeEvent),
		bufferSize: defaultBufferSize,
		logger:     logger,
	}
}

// Publish рассылает событие подписчикам корта и подписчикам всех кортов.
// Не блокируется: переполненный подписчик теряет событие.
func (m *Memory) Publish(_ context.Context, ev domain.ChangeEvent) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}

	for id, ch := range m.court[ev.CourtID] {
		m.deliver(ch, ev, id)
	}
	for id, ch := range m.all {
		m.deliver(ch, ev, id)
	}
	return nil
}

func (m *Memory) deliver(ch chan domain.ChangeEvent, ev domain.ChangeEvent, id int) {
	select {
	case ch <- ev:
	default:
		if m.logger != nil {
			m.logger.Warn("changefeed: subscriber %d is full, dropped %s for court %d", id, ev.Kind, ev.CourtID)
		}
	}
}

// Subscribe подписка на изменения одного корта
func (m *Memory) Subscribe(_ context.Context, courtID int64) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	id := m.nextID
	m.nextID++

	ch := make(chan domain.ChangeEvent, m.bufferSize)
	if m.court[courtID] == nil {
		m.court[courtID] = make(map[int]chan domain.ChangeEvent)
	}
	m.court[courtID][id] = ch

	return newSubscription(ch, func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if subs, ok := m.court[courtID]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(m.court, courtID)
			}
		}
		return nil
	}), nil
}

// SubscribeAll подписка на изменения всех кортов
func (m *Memory) SubscribeAll(_ context.Context) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	id := m.nextID
	m.nextID++

	ch := make(chan domain.ChangeEvent, m.bufferSize)
	m.all[id] = ch

	return newSubscription(ch, func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.all[id]; ok {
			delete(m.all, id)
			close(ch)
		}
		return nil
	}), nil
}

// Close закрывает все подписки
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	for courtID, subs := range m.court {
		for _, ch := range subs {
			close(ch)
		}
		delete(m.court, courtID)
	}
	for id, ch := range m.all {
		close(ch)
		delete(m.all, id)
	}
	return nil
}
