package slots

import "github.com/m04kA/court-booking-service/internal/domain"

// Resolve annotates a copy of grid with the occupancy snapshot of its date.
//
// A slot is booked if a confirmed booking's [start, end) contains the slot
// start, blocked if a block's [start, end) contains it, available otherwise.
// Booked wins over blocked. The input grid is not modified, so repeated calls
// on the same snapshot give identical results.
func Resolve(grid []Slot, occ domain.Occupancy) []Slot {
	resolved := make([]Slot, len(grid))

	for i, slot := range grid {
		slot.State = StateAvailable
		slot.BlockID = 0
		slot.BlockReason = ""

		if isBooked(slot, occ.Bookings) {
			slot.State = StateBooked
		} else if block, ok := findBlock(slot, occ.Blocks); ok {
			slot.State = StateBlocked
			slot.BlockID = block.BlockID
			slot.BlockReason = block.Reason
		}

		resolved[i] = slot
	}

	return resolved
}

func isBooked(slot Slot, bookings []domain.BookedInterval) bool {
	for _, b := range bookings {
		// Пустой статус - снимок, где хранилище уже отфильтровало отмененные
		if b.Status != "" && b.Status != domain.StatusConfirmed {
			continue
		}
		if b.Contains(slot.Start) {
			return true
		}
	}
	return false
}

func findBlock(slot Slot, blocks []domain.BlockedInterval) (domain.BlockedInterval, bool) {
	for _, b := range blocks {
		if b.Contains(slot.Start) {
			return b, true
		}
	}
	return domain.BlockedInterval{}, false
}

// Counts summarizes a resolved grid
type Counts struct {
	Available int
	Booked    int
	Blocked   int
}

func Count(grid []Slot) Counts {
	var c Counts
	for _, s := range grid {
		switch {
		case s.IsAvailable():
			c.Available++
		case s.IsBooked():
			c.Booked++
		case s.IsBlocked():
			c.Blocked++
		}
	}
	return c
}
