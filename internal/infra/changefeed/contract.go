// Package changefeed delivers court change events from committers to live
// subscribers. Delivery is best effort: a subscriber that falls behind loses
// events and is expected to re-fetch occupancy.
package changefeed

import "errors"

// ErrClosed возвращается при работе с закрытой лентой
var ErrClosed = errors.New("changefeed: feed is closed")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const defaultBufferSize = 32
