// Package smsforwarder sends customers an SMS when their booking is created
// or cancelled. It listens to the change feed of all courts.
package smsforwarder

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/infra/changefeed"
	"github.com/m04kA/court-booking-service/pkg/ptr"
)

// ErrFeedClosed возвращается из Run, когда лента изменений закрылась
var ErrFeedClosed = errors.New("smsforwarder: change feed closed")

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Subscriber interface {
	SubscribeAll(ctx context.Context) (*changefeed.Subscription, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type CourtReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type Metrics interface {
	IncSMS(event, result string)
}

// Worker пересылает изменения бронирований в SMS
type Worker struct {
	feed     Subscriber
	bookings BookingReader
	courts   CourtReader
	sender   Sender
	metrics  Metrics
	log      Logger
}

// NewWorker создает воркер; metrics может быть nil
func NewWorker(feed Subscriber, bookings BookingReader, courts CourtReader, sender Sender, metrics Metrics, log Logger) *Worker {
	return &Worker{
		feed:     feed,
		bookings: bookings,
		courts:   courts,
		sender:   sender,
		metrics:  metrics,
		log:      log,
	}
}

// Run обрабатывает события до отмены ctx или закрытия ленты
func (w *Worker) Run(ctx context.Context) error {
	sub, err := w.feed.SubscribeAll(ctx)
	if err != nil {
		return fmt.Errorf("smsforwarder: subscribe: %w", err)
	}
	defer sub.Close()

	w.log.Info("SMSForwarder: started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("SMSForwarder: stopped")
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return ErrFeedClosed
			}
			if err := w.handle(ctx, ev); err != nil {
				// Ошибка одного сообщения не останавливает воркер
				w.log.Error("SMSForwarder: %s booking=%v court=%d: %v", ev.Kind, ptr.Deref(ev.BookingID), ev.CourtID, err)
			}
		}
	}
}

func (w *Worker) handle(ctx context.Context, ev domain.ChangeEvent) error {
	event, ok := smsEvent(ev)
	if !ok {
		return nil
	}

	booking, err := w.bookings.GetByID(ctx, *ev.BookingID)
	if err != nil {
		w.count(event, "failed")
		return fmt.Errorf("load booking: %w", err)
	}

	court, err := w.courts.GetByID(ctx, booking.CourtID)
	if err != nil {
		w.count(event, "failed")
		return fmt.Errorf("load court: %w", err)
	}

	if err := w.sender.Send(ctx, booking.CustomerPhone, Message(event, booking, court)); err != nil {
		w.count(event, "failed")
		return fmt.Errorf("send: %w", err)
	}

	w.count(event, "sent")
	w.log.Info("SMSForwarder: %s sms sent for booking %s", event, booking.ReferenceCode)
	return nil
}

// smsEvent возвращает тип SMS для события, ok=false если SMS не нужна
func smsEvent(ev domain.ChangeEvent) (string, bool) {
	if ev.BookingID == nil {
		return "", false
	}
	switch ev.Kind {
	case domain.ChangeBookingCreated:
		return "created", true
	case domain.ChangeBookingUpdated:
		if ev.Status != nil && *ev.Status == domain.StatusCancelled {
			return "cancelled", true
		}
	}
	return "", false
}

// Message текст SMS для клиента
func Message(event string, b *domain.Booking, c *domain.Court) string {
	when := fmt.Sprintf("%s %s-%s", b.BookingDate.Format(domain.DateFormat), b.StartTime, b.EndTime)
	if event == "cancelled" {
		return fmt.Sprintf("Booking %s at %s on %s has been cancelled.", b.ReferenceCode, c.Name, when)
	}
	return fmt.Sprintf("Booking %s confirmed: %s on %s. Total %d.", b.ReferenceCode, c.Name, when, b.TotalPrice)
}

func (w *Worker) count(event, result string) {
	if w.metrics != nil {
		w.metrics.IncSMS(event, result)
	}
}
