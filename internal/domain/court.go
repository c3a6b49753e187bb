package domain

import (
	"time"

	"github.com/m04kA/court-booking-service/pkg/types"
)

// Court represents a bookable court of an institution
type Court struct {
	ID                  int64
	InstitutionID       int64
	Name                string
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
	PricePerSlot        int64
	Enabled             bool
	SportIDs            []int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasValidHours returns true if opening time is before closing time and the
// slot duration is positive
func (c *Court) HasValidHours() bool {
	return c.OpenTime.IsBefore(c.CloseTime) && c.SlotDurationMinutes > 0
}

// SupportsSport returns true if the sport is played on this court
func (c *Court) SupportsSport(sportID int64) bool {
	for _, id := range c.SportIDs {
		if id == sportID {
			return true
		}
	}
	return false
}

// DefaultSport returns the only sport of the court, if it has exactly one
func (c *Court) DefaultSport() (int64, bool) {
	if len(c.SportIDs) != 1 {
		return 0, false
	}
	return c.SportIDs[0], true
}

// Institution owns courts and is managed by its admins
type Institution struct {
	ID       int64
	Name     string
	AdminIDs []int64
}

// IsAdmin returns true if the user manages the institution
func (i *Institution) IsAdmin(userID int64) bool {
	for _, id := range i.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
