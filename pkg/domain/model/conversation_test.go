package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestNewConversationContext(t *testing.T) {
	t.Run("starts ACTIVE with fresh session id", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 99)

		gt.S(t, ctx.SessionID.String()).NotEqual("")
		gt.Value(t, ctx.State).Equal(types.StateActive)
		gt.Value(t, ctx.Kind).Equal(types.KindAvailabilitySearch)
		gt.Value(t, ctx.SubjectID).Equal("12345678")
		gt.Value(t, ctx.ActorID).Equal(int64(99))
		gt.Bool(t, ctx.StartedAt.IsZero()).False()
		gt.Array(t, ctx.Messages).Length(0)
	})

	t.Run("session ids do not repeat", func(t *testing.T) {
		a := model.NewConversationContext(types.KindGeneral, "", 0)
		b := model.NewConversationContext(types.KindGeneral, "", 0)
		gt.Value(t, a.SessionID).NotEqual(b.SessionID)
	})
}

func TestConversationContext_AddMessage(t *testing.T) {
	t.Run("appends in order and refreshes last interaction", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		before := ctx.LastInteractionAt

		time.Sleep(time.Millisecond)
		ctx.AddMessage(model.NewUserMessage("Necesito una cita de cardiología"))
		ctx.AddMessage(model.NewAssistantMessage("Claro, ¿qué fechas le vienen bien?"))

		gt.Array(t, ctx.Messages).Length(2)
		gt.Value(t, ctx.Messages[0].Role).Equal(types.RoleUser)
		gt.Value(t, ctx.Messages[1].Role).Equal(types.RoleAssistant)
		gt.Bool(t, ctx.LastInteractionAt.After(before)).True()
	})
}

func TestConversationContext_TransitionTo(t *testing.T) {
	t.Run("active moves to completed", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		gt.NoError(t, ctx.TransitionTo(types.StateCompleted))
		gt.Value(t, ctx.State).Equal(types.StateCompleted)
	})

	t.Run("terminal state rejects further transitions", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		gt.NoError(t, ctx.TransitionTo(types.StateTimeout))

		err := ctx.TransitionTo(types.StateCompleted)
		gt.Error(t, err)
		gt.Value(t, ctx.State).Equal(types.StateTimeout)
	})
}

func TestConversationContext_Suggestions(t *testing.T) {
	suggestions := []model.AvailabilitySuggestion{
		{
			AvailabilityID: 501,
			Specialty:      "CARDIOLOGIA",
			ProviderName:   "Dra. Rojas",
			FacilityName:   "CENATE Lima",
			Date:           "2026-09-08",
			StartTime:      "09:00",
			EndTime:        "09:20",
			Channel:        types.ChannelRemoteVisit,
			Confidence:     0.9,
		},
	}

	t.Run("round trips through the metadata bag", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		ctx.SetSuggestions(suggestions)

		got := ctx.Suggestions()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].Specialty).Equal("CARDIOLOGIA")
		gt.Value(t, got[0].Confidence).Equal(0.9)
	})

	t.Run("survives JSON serialization of the whole context", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		ctx.SetSuggestions(suggestions)

		data, err := json.Marshal(ctx)
		gt.NoError(t, err).Required()

		var restored model.ConversationContext
		gt.NoError(t, json.Unmarshal(data, &restored)).Required()

		got := restored.Suggestions()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].AvailabilityID).Equal(types.AvailabilityID(501))
		gt.Value(t, got[0].Channel).Equal(types.ChannelRemoteVisit)
	})

	t.Run("empty bag yields nil", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		gt.Array(t, ctx.Suggestions()).Length(0)
	})
}

func TestConversationContext_Clone(t *testing.T) {
	t.Run("mutating the clone leaves the original intact", func(t *testing.T) {
		ctx := model.NewConversationContext(types.KindAvailabilitySearch, "12345678", 1)
		ctx.AddMessage(model.NewUserMessage("hola"))
		ctx.Metadata["marker"] = "original"

		clone := ctx.Clone()
		clone.AddMessage(model.NewAssistantMessage("buenas"))
		clone.Metadata["marker"] = "clone"
		clone.Messages[0].Content = "edited"

		gt.Array(t, ctx.Messages).Length(1)
		gt.Value(t, ctx.Messages[0].Content).Equal("hola")
		gt.Value(t, ctx.Metadata["marker"]).Equal("original")
	})
}

func TestAvailabilitySuggestion_Validate(t *testing.T) {
	t.Run("accepts confidence bounds", func(t *testing.T) {
		for _, c := range []float64{0, 0.5, 1} {
			s := model.AvailabilitySuggestion{Specialty: "CARDIOLOGIA", Confidence: c}
			gt.NoError(t, s.Validate())
		}
	})

	t.Run("rejects out-of-range confidence", func(t *testing.T) {
		s := model.AvailabilitySuggestion{Specialty: "CARDIOLOGIA", Confidence: 1.2}
		gt.Error(t, s.Validate())
	})

	t.Run("rejects missing specialty", func(t *testing.T) {
		s := model.AvailabilitySuggestion{Confidence: 0.5}
		gt.Error(t, s.Validate())
	})

	t.Run("validates alternatives recursively", func(t *testing.T) {
		s := model.AvailabilitySuggestion{
			Specialty:  "CARDIOLOGIA",
			Confidence: 0.8,
			Alternatives: []model.AvailabilitySuggestion{
				{Specialty: "CARDIOLOGIA", Confidence: -0.1},
			},
		}
		gt.Error(t, s.Validate())
	})
}
