package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes     = 60
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinCustomerNameLength       = 2
	MaxCustomerNameLength       = 100
	MaxBlockReasonLength        = 500
	MaxCancellationReasonLength = 500
	MaxCourtNameLength          = 200
	MaxAdvanceBookingDays       = 365
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ReferenceCodePrefix prefix of human-readable booking references (CB-7F3A9C21)
const ReferenceCodePrefix = "CB-"
