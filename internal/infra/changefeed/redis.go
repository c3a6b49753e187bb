package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// Redis лента изменений поверх Redis pub/sub, канал на корт: <prefix>:court:<id>
type Redis struct {
	client     *redis.Client
	prefix     string
	bufferSize int
	logger     Logger
}

func NewRedis(client *redis.Client, prefix string, logger Logger) *Redis {
	return &Redis{
		client:     client,
		prefix:     prefix,
		bufferSize: defaultBufferSize,
		logger:     logger,
	}
}

// Channel имя канала корта
func Channel(prefix string, courtID int64) string {
	return fmt.Sprintf("%s:court:%d", prefix, courtID)
}

// Pattern шаблон каналов всех кортов
func Pattern(prefix string) string {
	return prefix + ":court:*"
}

func (r *Redis) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("changefeed: marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, Channel(r.prefix, ev.CourtID), data).Err(); err != nil {
		return fmt.Errorf("changefeed: publish to court %d: %w", ev.CourtID, err)
	}
	return nil
}

// Subscribe подписка на изменения одного корта.
// Возвращается после подтверждения подписки сервером.
func (r *Redis) Subscribe(ctx context.Context, courtID int64) (*Subscription, error) {
	ps := r.client.Subscribe(ctx, Channel(r.prefix, courtID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("changefeed: subscribe to court %d: %w", courtID, err)
	}
	return r.pump(ps), nil
}

// SubscribeAll подписка на изменения всех кортов
func (r *Redis) SubscribeAll(ctx context.Context) (*Subscription, error) {
	ps := r.client.PSubscribe(ctx, Pattern(r.prefix))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("changefeed: subscribe to all courts: %w", err)
	}
	return r.pump(ps), nil
}

func (r *Redis) pump(ps *redis.PubSub) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan domain.ChangeEvent, r.bufferSize)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)

		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					if r.logger != nil {
						r.logger.Warn("changefeed: skip malformed message on %s: %v", msg.Channel, err)
					}
					continue
				}
				select {
				case out <- ev:
				default:
					if r.logger != nil {
						r.logger.Warn("changefeed: subscriber is full, dropped %s for court %d", ev.Kind, ev.CourtID)
					}
				}
			}
		}
	}()

	return newSubscription(out, func() error {
		cancel()
		err := ps.Close()
		<-done
		return err
	})
}

// Close закрывает клиент Redis
func (r *Redis) Close() error {
	return r.client.Close()
}
