package types

import (
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

// CommissionEntryStatus is the ledger lifecycle of a commission entry.
// Draft entries are replaceable while an offer is under review; a final
// entry is immutable.
type CommissionEntryStatus string

const (
	CommissionEntryStatusDraft CommissionEntryStatus = "draft"
	CommissionEntryStatusFinal CommissionEntryStatus = "final"
)

// ApprovalState is the review state of an offer in the approval workflow
type ApprovalState string

const (
	ApprovalStateDraft             ApprovalState = "draft"
	ApprovalStatePendingReview     ApprovalState = "pending_review"
	ApprovalStateApproved          ApprovalState = "approved"
	ApprovalStateRevisionRequested ApprovalState = "revision_requested"
	ApprovalStateRejected          ApprovalState = "rejected"
)

// IsTerminal reports whether no further transitions are allowed from the state
func (s ApprovalState) IsTerminal() bool {
	return s == ApprovalStateApproved || s == ApprovalStateRejected
}

// SubjectKind is the kind of entity under review. It determines how many
// revision rounds are allowed before the subject is force rejected.
type SubjectKind string

const (
	SubjectKindCompany SubjectKind = "company"
	SubjectKindOffer   SubjectKind = "offer"
)

// Validate validates the subject kind
func (k SubjectKind) Validate() error {
	switch k {
	case SubjectKindCompany, SubjectKindOffer:
		return nil
	default:
		return ierr.NewErrorf("invalid subject kind: %s", k).
			WithHint("Subject kind must be one of company, offer").
			Mark(ierr.ErrValidation)
	}
}

// MaxRevisions returns the revision cap for the subject kind
func (k SubjectKind) MaxRevisions() int {
	if k == SubjectKindCompany {
		return 3
	}
	return 2
}
