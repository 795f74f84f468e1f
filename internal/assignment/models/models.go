// Package models defines the plan assignment record.
package models

import (
	"time"

	id "plangate/pkg/domain"
)

// Metadata keys written by the assignment service.
const (
	MetadataChangeReason       = "change_reason"
	MetadataPreviousAssignment = "previous_assignment_id"
)

// Assignment binds a user to a plan at a point in time. The per-user history
// is append-only and permanent; "current assignment" is the most recently
// appended entry.
type Assignment struct {
	ID             id.AssignmentID `json:"assignmentId"`
	UserID         id.UserID       `json:"userId"`
	PlanID         id.PlanID       `json:"planId"`
	AppliedAt      time.Time       `json:"appliedAt"`
	EffectiveRoles []string        `json:"effectiveRoles"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
}
