package sale

import "github.com/ghostpass-protocol/saleengine/pkg/apperrors"

// Action names a requested lifecycle transition.
type Action string

const (
	ActionPublish          Action = "publish"
	ActionFinalize         Action = "finalize"
	ActionCommit           Action = "commit"
	ActionOnchainFinalized Action = "onchain_finalized"
)

// transitions encodes the state machine of §4.7:
//
//	scheduled --publish--> live --finalize--> finalizing --commit--> claim_open --onchain_finalized--> finalized
var transitions = map[Status]map[Action]Status{
	StatusScheduled:  {ActionPublish: StatusLive},
	StatusLive:       {ActionFinalize: StatusFinalizing},
	StatusFinalizing: {ActionCommit: StatusClaimOpen},
	StatusClaimOpen:  {ActionOnchainFinalized: StatusFinalized},
}

// NextStatus returns the state current transitions to under action, or an
// InvalidStateTransition error if that move is not in the state machine.
// It is pure: it never mutates current and carries no side effects, so
// callers can use it to validate a move before attempting the transactional
// write that performs it.
func NextStatus(current Status, action Action) (Status, error) {
	byAction, ok := transitions[current]
	if !ok {
		return "", apperrors.Newf(apperrors.InvalidStateTransition, "",
			"sale in state %q accepts no transitions", current)
	}
	next, ok := byAction[action]
	if !ok {
		return "", apperrors.Newf(apperrors.InvalidStateTransition, "",
			"action %q not allowed from state %q", action, current)
	}
	return next, nil
}

// TicketTypeMutationAllowed reports whether ticket types may be created or
// modified while a sale is in status. Per §4.7, this is true only in
// scheduled.
func TicketTypeMutationAllowed(status Status) bool {
	return status == StatusScheduled
}

// RequireTicketTypeMutationAllowed is the guard form used by handlers that
// mutate ticket types.
func RequireTicketTypeMutationAllowed(status Status) error {
	if TicketTypeMutationAllowed(status) {
		return nil
	}
	return apperrors.Newf(apperrors.InvalidStateForTicketTypeMutation, "",
		"ticket types cannot be mutated while sale is %q", status)
}
