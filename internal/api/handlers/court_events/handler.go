package court_events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/domain"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStreamingFailed = "потоковая передача не поддерживается"

	defaultHeartbeat = 25 * time.Second
)

type Handler struct {
	feed      Subscriber
	logger    Logger
	heartbeat time.Duration
}

func NewHandler(feed Subscriber, logger Logger) *Handler {
	return &Handler{
		feed:      feed,
		logger:    logger,
		heartbeat: defaultHeartbeat,
	}
}

// Handle GET /api/v1/courts/{courtId}/events
// Query params: date (опционально, YYYY-MM-DD) - только события этой даты.
//
// Поток Server-Sent Events: каждое изменение корта приходит как
// "event: <kind>" с JSON события в data. Клиент перечитывает сетку слотов
// на дату события. Подписка освобождается при отключении клиента.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(mux.Vars(r)["courtId"], 10, 64)
	if err != nil || courtID <= 0 {
		h.logger.Warn("GET /courts/{id}/events - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(domain.DateFormat, date); err != nil {
			h.logger.Warn("GET /courts/{id}/events - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /courts/{id}/events - ResponseWriter does not support flushing")
		handlers.RespondError(w, http.StatusNotImplemented, msgStreamingFailed)
		return
	}

	ctx := r.Context()
	sub, err := h.feed.Subscribe(ctx, courtID)
	if err != nil {
		h.logger.Error("GET /courts/{id}/events - Failed to subscribe: court_id=%d, error=%v", courtID, err)
		handlers.RespondInternalError(w)
		return
	}
	defer sub.Close()

	// Поток живет дольше WriteTimeout сервера
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": subscribed\n\n")
	flusher.Flush()

	h.logger.Info("GET /courts/{id}/events - Client subscribed: court_id=%d, date=%q", courtID, date)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /courts/{id}/events - Client disconnected: court_id=%d", courtID)
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case ev, ok := <-sub.Events():
			if !ok {
				h.logger.Warn("GET /courts/{id}/events - Feed closed: court_id=%d", courtID)
				return
			}
			if date != "" && ev.Date != date {
				continue
			}
			if err := writeEvent(w, ev); err != nil {
				h.logger.Warn("GET /courts/{id}/events - Write failed: court_id=%d, error=%v", courtID, err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev domain.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
	return err
}
