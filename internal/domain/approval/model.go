package approval

import (
	"time"

	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
)

// Approval tracks an offer's position in the review state machine:
// Draft -> PendingReview -> {Approved, RevisionRequested, Rejected}.
// Approved and Rejected are terminal.
type Approval struct {
	OfferID     string              `json:"offer_id"`
	SubjectKind types.SubjectKind   `json:"subject_kind"`
	State       types.ApprovalState `json:"state"`
	Revisions   int                 `json:"revisions"`
	SubmittedAt time.Time           `json:"submitted_at"`

	types.BaseModel
}

var transitions = map[types.ApprovalState][]types.ApprovalState{
	types.ApprovalStateDraft: {
		types.ApprovalStatePendingReview,
	},
	types.ApprovalStatePendingReview: {
		types.ApprovalStateApproved,
		types.ApprovalStateRevisionRequested,
		types.ApprovalStateRejected,
	},
	types.ApprovalStateRevisionRequested: {
		types.ApprovalStatePendingReview,
	},
}

// CanTransitionTo checks whether moving to the target state is legal
func (a *Approval) CanTransitionTo(target types.ApprovalState) error {
	for _, allowed := range transitions[a.State] {
		if allowed == target {
			return nil
		}
	}
	return ierr.NewErrorf("cannot transition from %s to %s", a.State, target).
		WithHint("The requested review transition is not allowed from the current state").
		WithReportableDetails(map[string]interface{}{
			"offer_id": a.OfferID,
			"from":     a.State,
			"to":       target,
		}).
		Mark(ierr.ErrInvalidOperation)
}

// RequestRevision applies a revision-requested transition. When the revision
// counter would exceed the subject kind's cap the approval is force rejected
// instead.
func (a *Approval) RequestRevision() (forcedReject bool, err error) {
	if err := a.CanTransitionTo(types.ApprovalStateRevisionRequested); err != nil {
		return false, err
	}

	if a.Revisions+1 > a.SubjectKind.MaxRevisions() {
		a.State = types.ApprovalStateRejected
		return true, nil
	}

	a.Revisions++
	a.State = types.ApprovalStateRevisionRequested
	return false, nil
}

// Validate validates the approval
func (a *Approval) Validate() error {
	if a.OfferID == "" {
		return ierr.NewError("offer_id is required").
			WithHint("Offer ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := a.SubjectKind.Validate(); err != nil {
		return err
	}
	return nil
}
