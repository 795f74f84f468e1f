// Package domain provides identifier primitives shared across modules.
package domain

import "github.com/google/uuid"

// UserID identifies a user. Users are owned by an external identity system,
// so the value is treated as opaque.
type UserID string

func (id UserID) String() string { return string(id) }
func (id UserID) IsNil() bool    { return id == "" }

// PlanID identifies a plan definition.
type PlanID string

func (id PlanID) String() string { return string(id) }
func (id PlanID) IsNil() bool    { return id == "" }

// AssignmentID identifies one entry in a user's plan assignment history.
type AssignmentID string

// NewAssignmentID returns a fresh random assignment identifier.
func NewAssignmentID() AssignmentID { return AssignmentID(uuid.NewString()) }

func (id AssignmentID) String() string { return string(id) }
func (id AssignmentID) IsNil() bool    { return id == "" }

// EventID identifies an audit log entry.
type EventID string

// NewEventID returns a fresh random event identifier.
func NewEventID() EventID { return EventID(uuid.NewString()) }

func (id EventID) String() string { return string(id) }
func (id EventID) IsNil() bool    { return id == "" }
