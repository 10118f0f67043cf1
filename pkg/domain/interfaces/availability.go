package interfaces

import (
	"context"

	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
)

// AvailabilityQuery describes a slot search against the scheduling
// system. FacilityCode is optional; dates are YYYY-MM-DD.
type AvailabilityQuery struct {
	Specialty    string
	FacilityCode string
	DateFrom     string
	DateTo       string
}

// AvailabilityService is the narrow contract to the surrounding
// scheduling system. The assistant consumes it through the function
// registry; it is not redesigned here.
type AvailabilityService interface {
	// SearchAvailability returns bookable slots matching the query.
	SearchAvailability(ctx context.Context, query AvailabilityQuery) ([]model.AvailabilitySlot, error)

	// ConfirmAppointment books the given slot for the subject.
	ConfirmAppointment(ctx context.Context, availabilityID types.AvailabilityID, subjectID string) (*model.AppointmentConfirmation, error)
}
