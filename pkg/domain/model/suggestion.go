package model

import (
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// AvailabilitySuggestion is a model-proposed appointment slot, extracted
// from assistant output via the function-calling round trip. Alternatives
// carry lower-ranked proposals of the same shape.
type AvailabilitySuggestion struct {
	AvailabilityID types.AvailabilityID     `json:"availabilityId"`
	Specialty      string                   `json:"specialty"`
	ProviderID     int64                    `json:"providerId,omitempty"`
	ProviderName   string                   `json:"providerName"`
	FacilityName   string                   `json:"facilityName"`
	FacilityCode   string                   `json:"facilityCode,omitempty"`
	Date           string                   `json:"date"`
	StartTime      string                   `json:"startTime"`
	EndTime        string                   `json:"endTime"`
	Channel        types.AttentionChannel   `json:"channel"`
	Confidence     float64                  `json:"confidence"`
	Rationale      string                   `json:"rationale,omitempty"`
	Alternatives   []AvailabilitySuggestion `json:"alternatives,omitempty"`
}

// Validate checks suggestion invariants
func (s *AvailabilitySuggestion) Validate() error {
	if s.Specialty == "" {
		return goerr.New("suggestion specialty is required")
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return goerr.New("suggestion confidence must be within [0,1]",
			goerr.V("confidence", s.Confidence),
		)
	}
	for i := range s.Alternatives {
		if err := s.Alternatives[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid alternative suggestion",
				goerr.V("index", i),
			)
		}
	}
	return nil
}

// AvailabilitySlot is one bookable slot as reported by the scheduling
// system. It is the raw search result that suggestions are built from.
type AvailabilitySlot struct {
	AvailabilityID types.AvailabilityID   `json:"availabilityId"`
	Specialty      string                 `json:"specialty"`
	ProviderID     int64                  `json:"providerId,omitempty"`
	ProviderName   string                 `json:"providerName"`
	FacilityName   string                 `json:"facilityName"`
	FacilityCode   string                 `json:"facilityCode,omitempty"`
	Date           string                 `json:"date"`
	StartTime      string                 `json:"startTime"`
	EndTime        string                 `json:"endTime"`
	Channel        types.AttentionChannel `json:"channel"`
}

// AppointmentConfirmation is the scheduling system's answer to a booking
// request.
type AppointmentConfirmation struct {
	AppointmentID types.AppointmentID `json:"appointmentId"`
	Message       string              `json:"message"`
}
