package booking

import (
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// NewReferenceCode генерирует код брони вида CB-7F3A9C21
func NewReferenceCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.ReferenceCodePrefix + strings.ToUpper(id[:8])
}
