package testutil

import (
	"context"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/approval"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

// InMemoryApprovalStore implements approval.Repository
type InMemoryApprovalStore struct {
	*InMemoryStore[*approval.Approval]
}

// NewInMemoryApprovalStore creates a new in-memory approval store
func NewInMemoryApprovalStore() *InMemoryApprovalStore {
	return &InMemoryApprovalStore{
		InMemoryStore: NewInMemoryStore[*approval.Approval](),
	}
}

func copyApproval(a *approval.Approval) *approval.Approval {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}

func (s *InMemoryApprovalStore) Create(ctx context.Context, a *approval.Approval) error {
	if a == nil {
		return ierr.NewError("approval cannot be nil").
			WithHint("Approval cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, a.OfferID, copyApproval(a)); err != nil {
		return ierr.WithError(err).
			WithHint("An approval already exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": a.OfferID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryApprovalStore) Get(ctx context.Context, offerID string) (*approval.Approval, error) {
	a, err := s.InMemoryStore.Get(ctx, offerID)
	if err != nil {
		return nil, ierr.NewError("approval not found").
			WithHint("No approval exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyApproval(a), nil
}

func (s *InMemoryApprovalStore) Update(ctx context.Context, a *approval.Approval) error {
	if _, err := s.InMemoryStore.Get(ctx, a.OfferID); err != nil {
		return ierr.NewError("approval not found").
			WithHint("No approval exists for this offer").
			Mark(ierr.ErrNotFound)
	}
	s.InMemoryStore.Set(ctx, a.OfferID, copyApproval(a))
	return nil
}
