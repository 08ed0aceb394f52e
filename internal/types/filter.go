package types

import (
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/samber/lo"
)

const (
	filterDefaultLimit = 50
	filterMaxLimit     = 1000
)

// QueryFilter holds the common pagination and ordering options shared by all
// list endpoints
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit"`
	Offset *int    `json:"offset,omitempty" form:"offset"`
	Sort   *string `json:"sort,omitempty" form:"sort"`
	Order  *string `json:"order,omitempty" form:"order"`
}

// NewDefaultQueryFilter returns a QueryFilter with sane defaults
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(filterDefaultLimit),
		Offset: lo.ToPtr(0),
	}
}

// NewNoLimitQueryFilter returns a QueryFilter without pagination
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(0),
	}
}

// Validate validates the filter options
func (f *QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 0 || *f.Limit > filterMaxLimit) {
		return ierr.NewErrorf("limit must be between 0 and %d", filterMaxLimit).
			WithHint("Invalid pagination limit").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must be non-negative").
			WithHint("Invalid pagination offset").
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != "asc" && *f.Order != "desc" {
		return ierr.NewError("order must be asc or desc").
			WithHint("Invalid sort order").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return filterDefaultLimit
	}
	return *f.Limit
}

// GetOffset implements BaseFilter interface
func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// ListResponse is the standard envelope for list endpoints
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse creates a list response envelope
func NewListResponse[T any](items []T, total, limit, offset int) ListResponse[T] {
	return ListResponse[T]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
