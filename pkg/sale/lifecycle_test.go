package sale

import (
	"testing"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
)

func TestHappyPathTransitions(t *testing.T) {
	steps := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusScheduled, ActionPublish, StatusLive},
		{StatusLive, ActionFinalize, StatusFinalizing},
		{StatusFinalizing, ActionCommit, StatusClaimOpen},
		{StatusClaimOpen, ActionOnchainFinalized, StatusFinalized},
	}
	for _, s := range steps {
		got, err := NextStatus(s.from, s.action)
		if err != nil {
			t.Fatalf("NextStatus(%s, %s): %v", s.from, s.action, err)
		}
		if got != s.want {
			t.Fatalf("NextStatus(%s, %s) = %s, want %s", s.from, s.action, got, s.want)
		}
	}
}

func TestRejectsOutOfOrderTransition(t *testing.T) {
	_, err := NextStatus(StatusScheduled, ActionFinalize)
	if apperrors.KindOf(err) != apperrors.InvalidStateTransition {
		t.Fatalf("kind = %v, want InvalidStateTransition", apperrors.KindOf(err))
	}
}

func TestRejectsRepeatedTransition(t *testing.T) {
	if _, err := NextStatus(StatusLive, ActionPublish); apperrors.KindOf(err) != apperrors.InvalidStateTransition {
		t.Fatalf("republish: kind = %v, want InvalidStateTransition", apperrors.KindOf(err))
	}
}

func TestTerminalStateAcceptsNoTransition(t *testing.T) {
	_, err := NextStatus(StatusFinalized, ActionPublish)
	if apperrors.KindOf(err) != apperrors.InvalidStateTransition {
		t.Fatalf("kind = %v, want InvalidStateTransition", apperrors.KindOf(err))
	}
}

func TestTicketTypeMutationOnlyInScheduled(t *testing.T) {
	if err := RequireTicketTypeMutationAllowed(StatusScheduled); err != nil {
		t.Fatalf("scheduled should allow mutation: %v", err)
	}
	for _, st := range []Status{StatusLive, StatusFinalizing, StatusClaimOpen, StatusFinalized} {
		if err := RequireTicketTypeMutationAllowed(st); apperrors.KindOf(err) != apperrors.InvalidStateForTicketTypeMutation {
			t.Fatalf("status %s: kind = %v, want InvalidStateForTicketTypeMutation", st, apperrors.KindOf(err))
		}
	}
}
