package directory

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is a tenant of the booking platform. Integration names the
// appointment system of record configured for the clinic ("manual",
// "gesden", "klinicare"); an empty value means the in-house scheduler.
type Clinic struct {
	ID             uuid.UUID
	Name           string
	Integration    string
	NotifyEmail    string
	WhatsAppNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Doctor struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityRule is a recurring weekly window in which a doctor accepts
// appointments. Times are wall-clock "HH:MM"; DayOfWeek follows time.Weekday
// numbering (0 = Sunday). A doctor may carry several rules per weekday,
// e.g. a split morning/afternoon schedule.
type AvailabilityRule struct {
	DoctorID  uuid.UUID
	DayOfWeek int
	StartTime string
	EndTime   string
}

type ServiceCatalogEntry struct {
	ClinicID        uuid.UUID
	Name            string
	DurationMinutes int
	PriceCents      int
}
