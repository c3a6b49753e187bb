package list_courts

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/service/courts/models"
)

type CourtService interface {
	GetByInstitution(ctx context.Context, institutionID int64, includeDisabled bool) (*models.CourtListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
