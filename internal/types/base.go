package types

import (
	"context"
	"time"
)

// Status is the row level lifecycle status shared by all persisted entities.
// It is orthogonal to domain specific states like a rate rule's active flag
// or a commission entry's draft/final status.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// BaseModel carries the audit columns shared by all persisted entities
type BaseModel struct {
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// GetDefaultBaseModel returns a BaseModel stamped with the current time and
// the acting operator from the context
func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	userID := GetUserID(ctx)
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
}
