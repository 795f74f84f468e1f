// Package auditlog captures the platform's audit trail: login attempts,
// module/feature accesses, user block state changes, billing activity and
// plan access decisions. Entries are immutable once appended; the read side
// reduces them into administrative metrics.
package auditlog

import (
	"time"

	id "plangate/pkg/domain"
)

// EventType discriminates the payload kind carried by an entry.
type EventType string

const (
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
	EventModuleAccessed  EventType = "module_accessed"
	EventFeatureAccessed EventType = "feature_accessed"
	EventUserBlocked     EventType = "user_blocked"
	EventUserUnblocked   EventType = "user_unblocked"
	EventInvoiceCreated  EventType = "invoice_created"
	EventInvoiceUpdated  EventType = "invoice_updated"
	EventFinancial       EventType = "financial_event"
	EventPlanDecision    EventType = "plan_decision"
)

// DeviceInfo describes the client device, parsed from its User-Agent.
type DeviceInfo struct {
	UserAgent string `json:"userAgent,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	Mobile    bool   `json:"mobile,omitempty"`
}

// Context carries where and how the event happened.
type Context struct {
	IPAddress string      `json:"ipAddress,omitempty"`
	Device    *DeviceInfo `json:"device,omitempty"`
}

// Payload is the event-kind specific data. The set of implementations is
// closed; each entry carries exactly the shape its type promises, so readers
// never poke at untyped fields across kinds.
type Payload interface {
	isPayload()
}

// LoginPayload accompanies login_succeeded and login_failed entries.
type LoginPayload struct {
	Method string `json:"method"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// AccessPayload accompanies module_accessed and feature_accessed entries.
type AccessPayload struct {
	Path      string `json:"path,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// BlockPayload accompanies user_blocked and user_unblocked entries.
type BlockPayload struct {
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// InvoicePayload accompanies invoice_created and invoice_updated entries.
type InvoicePayload struct {
	InvoiceID string `json:"invoiceId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

// FinancialPayload accompanies financial_event entries. Amounts are cents.
type FinancialPayload struct {
	Category    string `json:"category"`
	ReferenceID string `json:"referenceId,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

// DecisionPayload accompanies plan_decision entries emitted by the access
// decision engine.
type DecisionPayload struct {
	PlanID       id.PlanID      `json:"planId"`
	RBACDecision bool           `json:"rbacDecision"`
	PlanDecision string         `json:"planDecision"`
	Reason       string         `json:"reason"`
	Usage        *UsageDetail   `json:"usage,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
}

// UsageDetail mirrors the usage fields attached to limit-bound decisions.
type UsageDetail struct {
	Limit    int    `json:"limit"`
	Consumed int    `json:"consumed"`
	Period   string `json:"period"`
}

func (LoginPayload) isPayload()     {}
func (AccessPayload) isPayload()    {}
func (BlockPayload) isPayload()     {}
func (InvoicePayload) isPayload()   {}
func (FinancialPayload) isPayload() {}
func (DecisionPayload) isPayload()  {}

// Entry is one immutable audit record.
type Entry struct {
	ID         id.EventID `json:"eventId"`
	Type       EventType  `json:"type"`
	TenantID   string     `json:"tenantId,omitempty"`
	UserID     id.UserID  `json:"userId,omitempty"`
	Module     string     `json:"module,omitempty"`
	Feature    string     `json:"feature,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
	Context    Context    `json:"context"`
	Payload    Payload    `json:"payload,omitempty"`
}

// ModuleUsage is one bucket of the module access aggregation.
type ModuleUsage struct {
	Module string `json:"module"`
	Count  int    `json:"count"`
}

// UnknownModule is the bucket for access entries without a module name.
const UnknownModule = "unknown"

// UserStatusBreakdown counts users by their latest block/unblock state.
type UserStatusBreakdown struct {
	Blocked int `json:"blocked"`
	Active  int `json:"active"`
}
