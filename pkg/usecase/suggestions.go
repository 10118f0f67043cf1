package usecase

import (
	"context"
	"encoding/json"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/service/functions"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// maxSuggestions caps how many ranked slots are surfaced per turn.
const maxSuggestions = 3

// suggestionsFromInvocations turns the searchAvailability results
// recorded during the tool round trip into ranked suggestions. The last
// successful search wins, since it reflects the model's final query.
func suggestionsFromInvocations(ctx context.Context, invocations []interfaces.ToolInvocation) []model.AvailabilitySuggestion {
	var slots []model.AvailabilitySlot
	for _, inv := range invocations {
		if inv.Name != functions.FuncSearchAvailability || inv.Error != "" {
			continue
		}

		var result struct {
			Slots []model.AvailabilitySlot `json:"slots"`
		}
		if err := json.Unmarshal([]byte(inv.Result), &result); err != nil {
			logging.From(ctx).Warn("unparsable search result in tool invocation",
				"error", err.Error(),
			)
			continue
		}
		slots = result.Slots
	}

	if len(slots) == 0 {
		return nil
	}
	if len(slots) > maxSuggestions {
		slots = slots[:maxSuggestions]
	}

	suggestions := make([]model.AvailabilitySuggestion, 0, len(slots))
	for i, slot := range slots {
		confidence := 0.9 - 0.15*float64(i)
		if confidence < 0.1 {
			confidence = 0.1
		}
		suggestions = append(suggestions, model.AvailabilitySuggestion{
			AvailabilityID: slot.AvailabilityID,
			Specialty:      slot.Specialty,
			ProviderID:     slot.ProviderID,
			ProviderName:   slot.ProviderName,
			FacilityName:   slot.FacilityName,
			FacilityCode:   slot.FacilityCode,
			Date:           slot.Date,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			Channel:        slot.Channel,
			Confidence:     confidence,
		})
	}
	return suggestions
}

// parseConfirmation decodes the confirmAppointment function result. A
// result the model round trip cannot produce in the agreed shape is a
// provider-side failure, not a function failure.
func parseConfirmation(result string) (*model.AppointmentConfirmation, error) {
	var confirmation model.AppointmentConfirmation
	if err := json.Unmarshal([]byte(result), &confirmation); err != nil {
		return nil, goerr.Wrap(types.ErrLLMService, "unparsable confirmation result",
			goerr.V("result", result),
		)
	}
	if confirmation.AppointmentID == 0 {
		return nil, goerr.Wrap(types.ErrLLMService, "confirmation without appointment ID",
			goerr.V("result", result),
		)
	}
	return &confirmation, nil
}
