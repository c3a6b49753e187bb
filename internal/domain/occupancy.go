package domain

import "github.com/m04kA/court-booking-service/pkg/types"

// Interval is a half-open time-of-day range [Start, End)
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains reports whether t lies in [Start, End)
func (i Interval) Contains(t types.TimeString) bool {
	return !t.IsBefore(i.Start) && t.IsBefore(i.End)
}

// BookedInterval is a booking as seen by the occupancy resolver
type BookedInterval struct {
	Interval
	BookingID int64
	Status    BookingStatus
}

// BlockedInterval is an unavailability block as seen by the occupancy resolver
type BlockedInterval struct {
	Interval
	BlockID int64
	Reason  string
}

// Occupancy is a snapshot of bookings and blocks for one court and date
type Occupancy struct {
	Bookings []BookedInterval
	Blocks   []BlockedInterval
}

// NewOccupancy builds a snapshot from stored records
func NewOccupancy(bookings []*Booking, blocks []*UnavailabilityBlock) Occupancy {
	occ := Occupancy{
		Bookings: make([]BookedInterval, 0, len(bookings)),
		Blocks:   make([]BlockedInterval, 0, len(blocks)),
	}
	for _, b := range bookings {
		occ.Bookings = append(occ.Bookings, BookedInterval{
			Interval:  b.Interval(),
			BookingID: b.ID,
			Status:    b.Status,
		})
	}
	for _, b := range blocks {
		occ.Blocks = append(occ.Blocks, BlockedInterval{
			Interval: b.Interval(),
			BlockID:  b.ID,
			Reason:   b.Reason,
		})
	}
	return occ
}
