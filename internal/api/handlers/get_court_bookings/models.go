package get_court_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день; from/to задают период и игнорируются при заданной date.
func ToServiceRequest(courtID, userID int64, query url.Values) (*models.GetCourtBookingsRequest, error) {
	req := &models.GetCourtBookingsRequest{
		UserID:  userID,
		CourtID: courtID,
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		var err error
		if req.StartDate, err = parseOptionalDate(query.Get("from")); err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		if req.EndDate, err = parseOptionalDate(query.Get("to")); err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
	}

	if s := query.Get("includeInactive"); s != "" {
		includeInactive, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
