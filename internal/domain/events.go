package domain

import "time"

// ChangeKind identifies what changed on a court
type ChangeKind string

const (
	ChangeBookingCreated ChangeKind = "booking_created"
	ChangeBookingUpdated ChangeKind = "booking_updated"
	ChangeBlockCreated   ChangeKind = "block_created"
	ChangeBlockRemoved   ChangeKind = "block_removed"
)

// ChangeEvent is pushed to subscribers of a court after a commit.
// Date is YYYY-MM-DD; subscribers re-fetch occupancy for that date.
type ChangeEvent struct {
	Kind       ChangeKind     `json:"kind"`
	CourtID    int64          `json:"courtId"`
	Date       string         `json:"date"`
	BookingID  *int64         `json:"bookingId,omitempty"`
	BlockIDs   []int64        `json:"blockIds,omitempty"`
	Status     *BookingStatus `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// IsBookingEvent returns true for booking inserts and updates
func (e ChangeEvent) IsBookingEvent() bool {
	return e.Kind == ChangeBookingCreated || e.Kind == ChangeBookingUpdated
}
