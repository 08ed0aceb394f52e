package service

import (
	"context"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	domainModifier "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

// ModifierService manages pricing modifiers and runs the adjustment chain
type ModifierService interface {
	UpsertModifier(ctx context.Context, id string, req *dto.UpsertModifierRequest) (*dto.ModifierResponse, error)
	GetModifier(ctx context.Context, id string) (*dto.ModifierResponse, error)
	ListModifiers(ctx context.Context) (*dto.ListModifiersResponse, error)
	ApplyModifiers(ctx context.Context, req *dto.ApplyModifiersRequest) (*dto.ApplyModifiersResponse, error)
}

type modifierService struct {
	ServiceParams
}

// NewModifierService creates a pricing modifier service
func NewModifierService(params ServiceParams) ModifierService {
	return &modifierService{ServiceParams: params}
}

func (s *modifierService) UpsertModifier(ctx context.Context, id string, req *dto.UpsertModifierRequest) (*dto.ModifierResponse, error) {
	if id == "" {
		return nil, ierr.NewError("id is required").
			WithHint("Modifier ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := req.ToModifier(ctx, id)
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.ModifierRepo.Upsert(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("pricing modifier upserted",
		"modifier_id", m.ID,
		"kind", m.Kind,
		"value", m.Value,
		"categories", m.ApplicableCategories)

	return dto.NewModifierResponse(m), nil
}

func (s *modifierService) GetModifier(ctx context.Context, id string) (*dto.ModifierResponse, error) {
	m, err := s.ModifierRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewModifierResponse(m), nil
}

func (s *modifierService) ListModifiers(ctx context.Context) (*dto.ListModifiersResponse, error) {
	modifiers, err := s.ModifierRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ModifierResponse, 0, len(modifiers))
	for _, m := range modifiers {
		items = append(items, dto.NewModifierResponse(m))
	}
	return &dto.ListModifiersResponse{Items: items, Total: len(items)}, nil
}

// ApplyModifiers prices a base amount through the active modifiers for the
// category. Display adjustment only; commission amounts never pass through
// here.
func (s *modifierService) ApplyModifiers(ctx context.Context, req *dto.ApplyModifiersRequest) (*dto.ApplyModifiersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	modifiers, err := s.ModifierRepo.ListActiveByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	result := domainModifier.Apply(req.BasePrice, req.Category, modifiers)
	return dto.NewApplyModifiersResponse(result), nil
}
