package types_test

import (
	"testing"

	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestConversationKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind types.ConversationKind
		want bool
	}{
		{
			name: "valid availability search",
			kind: types.KindAvailabilitySearch,
			want: true,
		},
		{
			name: "valid general",
			kind: types.KindGeneral,
			want: true,
		},
		{
			name: "invalid kind",
			kind: types.ConversationKind("SOMETHING_ELSE"),
			want: false,
		},
		{
			name: "empty kind",
			kind: types.ConversationKind(""),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.kind.IsValid()).True()
			} else {
				gt.B(t, tt.kind.IsValid()).False()
			}
		})
	}
}

func TestConversationState_Transitions(t *testing.T) {
	t.Run("active can move to every terminal state", func(t *testing.T) {
		gt.B(t, types.StateActive.CanTransitionTo(types.StateCompleted)).True()
		gt.B(t, types.StateActive.CanTransitionTo(types.StateTimeout)).True()
		gt.B(t, types.StateActive.CanTransitionTo(types.StateError)).True()
	})

	t.Run("active cannot re-enter active", func(t *testing.T) {
		gt.B(t, types.StateActive.CanTransitionTo(types.StateActive)).False()
	})

	t.Run("terminal states admit no transition", func(t *testing.T) {
		for _, s := range []types.ConversationState{
			types.StateCompleted,
			types.StateTimeout,
			types.StateError,
		} {
			gt.B(t, s.IsTerminal()).True()
			for _, next := range types.AllConversationStates() {
				gt.B(t, s.CanTransitionTo(next)).False()
			}
		}
	})

	t.Run("invalid target state is rejected", func(t *testing.T) {
		gt.B(t, types.StateActive.CanTransitionTo(types.ConversationState("GONE"))).False()
	})
}

func TestParseConversationState(t *testing.T) {
	t.Run("parses valid state", func(t *testing.T) {
		state, err := types.ParseConversationState("ACTIVE")
		gt.NoError(t, err).Required()
		gt.Value(t, state).Equal(types.StateActive)
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		_, err := types.ParseConversationState("HIBERNATING")
		gt.Error(t, err)
	})
}

func TestMessageRole(t *testing.T) {
	t.Run("all roles are valid", func(t *testing.T) {
		for _, r := range types.AllMessageRoles() {
			gt.B(t, r.IsValid()).True()
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := types.ParseMessageRole("NARRATOR")
		gt.Error(t, err)
	})
}

func TestNewSessionID(t *testing.T) {
	t.Run("generates unique non-empty ids", func(t *testing.T) {
		a := types.NewSessionID()
		b := types.NewSessionID()
		gt.S(t, a.String()).NotEqual("")
		gt.Value(t, a).NotEqual(b)
	})
}
