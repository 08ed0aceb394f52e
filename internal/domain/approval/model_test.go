package approval

import (
	"testing"
	"time"

	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApproval(kind types.SubjectKind, state types.ApprovalState) *Approval {
	return &Approval{
		OfferID:     "offer_1",
		SubjectKind: kind,
		State:       state,
		SubmittedAt: time.Now().UTC(),
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    types.ApprovalState
		to      types.ApprovalState
		allowed bool
	}{
		{"draft to pending", types.ApprovalStateDraft, types.ApprovalStatePendingReview, true},
		{"draft to approved skips review", types.ApprovalStateDraft, types.ApprovalStateApproved, false},
		{"pending to approved", types.ApprovalStatePendingReview, types.ApprovalStateApproved, true},
		{"pending to revision", types.ApprovalStatePendingReview, types.ApprovalStateRevisionRequested, true},
		{"pending to rejected", types.ApprovalStatePendingReview, types.ApprovalStateRejected, true},
		{"revision back to pending", types.ApprovalStateRevisionRequested, types.ApprovalStatePendingReview, true},
		{"revision straight to approved", types.ApprovalStateRevisionRequested, types.ApprovalStateApproved, false},
		{"approved is terminal", types.ApprovalStateApproved, types.ApprovalStatePendingReview, false},
		{"rejected is terminal", types.ApprovalStateRejected, types.ApprovalStatePendingReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApproval(types.SubjectKindCompany, tt.from).CanTransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, ierr.IsInvalidOperation(err))
			}
		})
	}
}

func TestRequestRevisionIncrementsCounter(t *testing.T) {
	a := newApproval(types.SubjectKindCompany, types.ApprovalStatePendingReview)

	forced, err := a.RequestRevision()
	require.NoError(t, err)
	assert.False(t, forced)
	assert.Equal(t, 1, a.Revisions)
	assert.Equal(t, types.ApprovalStateRevisionRequested, a.State)
}

func TestRequestRevisionCapCompany(t *testing.T) {
	a := newApproval(types.SubjectKindCompany, types.ApprovalStatePendingReview)

	for i := 0; i < 3; i++ {
		forced, err := a.RequestRevision()
		require.NoError(t, err)
		assert.False(t, forced, "revision %d should be within the cap", i+1)
		a.State = types.ApprovalStatePendingReview
	}

	forced, err := a.RequestRevision()
	require.NoError(t, err)
	assert.True(t, forced)
	assert.Equal(t, types.ApprovalStateRejected, a.State)
	assert.Equal(t, 3, a.Revisions)
}

func TestRequestRevisionCapOffer(t *testing.T) {
	a := newApproval(types.SubjectKindOffer, types.ApprovalStatePendingReview)

	for i := 0; i < 2; i++ {
		forced, err := a.RequestRevision()
		require.NoError(t, err)
		assert.False(t, forced)
		a.State = types.ApprovalStatePendingReview
	}

	forced, err := a.RequestRevision()
	require.NoError(t, err)
	assert.True(t, forced)
	assert.Equal(t, types.ApprovalStateRejected, a.State)
}

func TestRequestRevisionFromDraftFails(t *testing.T) {
	a := newApproval(types.SubjectKindCompany, types.ApprovalStateDraft)

	_, err := a.RequestRevision()
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
	assert.Equal(t, 0, a.Revisions)
}
