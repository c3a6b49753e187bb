package domain

import (
	"time"

	"github.com/m04kA/court-booking-service/pkg/types"
)

// UnavailabilityBlock is an admin-created interval during which a court
// cannot be booked. Removed wholesale by ID.
type UnavailabilityBlock struct {
	ID        int64
	CourtID   int64
	BlockDate time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    string
	CreatedBy int64
	CreatedAt time.Time
}

// Interval returns the blocked time range
func (b *UnavailabilityBlock) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}
