package availability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Service is an in-memory scheduling backend. It stands in for the
// institutional scheduling system during development and tests.
type Service struct {
	mu            sync.Mutex
	slots         map[types.AvailabilityID]model.AvailabilitySlot
	booked        map[types.AvailabilityID]string
	nextApptID    int64
	confirmFormat string
}

var _ interfaces.AvailabilityService = &Service{}

type Option func(*Service)

// WithSlots seeds the service with bookable slots.
func WithSlots(slots ...model.AvailabilitySlot) Option {
	return func(s *Service) {
		for _, slot := range slots {
			s.slots[slot.AvailabilityID] = slot
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		slots:      map[types.AvailabilityID]model.AvailabilitySlot{},
		booked:     map[types.AvailabilityID]string{},
		nextApptID: 1,
		confirmFormat: "Su cita de %s fue confirmada para el %s a las %s. " +
			"Recibirá un correo con las indicaciones de acceso a la teleconsulta.",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) SearchAvailability(ctx context.Context, query interfaces.AvailabilityQuery) ([]model.AvailabilitySlot, error) {
	if query.Specialty == "" {
		return nil, goerr.New("specialty is required")
	}

	specialty := strings.ToUpper(strings.TrimSpace(query.Specialty))

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]model.AvailabilitySlot, 0)
	for id, slot := range s.slots {
		if _, taken := s.booked[id]; taken {
			continue
		}
		if strings.ToUpper(slot.Specialty) != specialty {
			continue
		}
		if query.FacilityCode != "" && slot.FacilityCode != query.FacilityCode {
			continue
		}
		// Dates are YYYY-MM-DD, so lexical order is chronological order.
		if query.DateFrom != "" && slot.Date < query.DateFrom {
			continue
		}
		if query.DateTo != "" && slot.Date > query.DateTo {
			continue
		}
		matches = append(matches, slot)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date < matches[j].Date
		}
		if matches[i].StartTime != matches[j].StartTime {
			return matches[i].StartTime < matches[j].StartTime
		}
		return matches[i].AvailabilityID < matches[j].AvailabilityID
	})
	return matches, nil
}

func (s *Service) ConfirmAppointment(ctx context.Context, availabilityID types.AvailabilityID, subjectID string) (*model.AppointmentConfirmation, error) {
	if subjectID == "" {
		return nil, goerr.New("subject ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[availabilityID]
	if !ok {
		return nil, goerr.New("availability slot not found",
			goerr.V("availabilityID", availabilityID),
		)
	}
	if holder, taken := s.booked[availabilityID]; taken {
		return nil, goerr.New("availability slot already booked",
			goerr.V("availabilityID", availabilityID),
			goerr.V("subjectID", holder),
		)
	}

	s.booked[availabilityID] = subjectID
	appointmentID := types.AppointmentID(s.nextApptID)
	s.nextApptID++

	return &model.AppointmentConfirmation{
		AppointmentID: appointmentID,
		Message:       fmt.Sprintf(s.confirmFormat, slot.Specialty, slot.Date, slot.StartTime),
	}, nil
}
