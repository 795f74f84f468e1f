package auditlog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mssola/useragent"

	"plangate/internal/auditlog/metrics"
	id "plangate/pkg/domain"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/requestcontext"
)

// Service is the audit recorder. Every Record method validates its input,
// stamps identity and client context, and appends exactly one entry.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures optional Service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("audit store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CommonInput carries the fields shared by every recorded event. Client
// context left empty is filled from the request context when present.
type CommonInput struct {
	TenantID   string
	UserID     id.UserID
	Module     string
	Feature    string
	IPAddress  string
	UserAgent  string
	OccurredAt time.Time
}

type LoginAttemptInput struct {
	CommonInput
	Success bool
	Method  string
	Email   string
	Reason  string
}

type ModuleAccessInput struct {
	CommonInput
	Path      string
	Operation string
}

type UserBlockInput struct {
	CommonInput
	Blocked   bool
	Reason    string
	ExpiresAt *time.Time
}

type InvoiceEventInput struct {
	CommonInput
	Created   bool
	InvoiceID string
	Amount    int64
	Currency  string
	Status    string
}

type FinancialEventInput struct {
	CommonInput
	Category    string
	ReferenceID string
	Amount      int64
	Currency    string
	Description string
}

func (s *Service) RecordLoginAttempt(ctx context.Context, in LoginAttemptInput) (*Entry, error) {
	t := EventLoginFailed
	if in.Success {
		t = EventLoginSucceeded
	}
	if in.Method == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "login method is required")
	}
	return s.append(ctx, t, in.CommonInput, LoginPayload{
		Method: in.Method,
		Email:  in.Email,
		Reason: in.Reason,
	})
}

func (s *Service) RecordModuleAccess(ctx context.Context, in ModuleAccessInput) (*Entry, error) {
	if in.Module == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "module is required")
	}
	t := EventModuleAccessed
	if in.Feature != "" {
		t = EventFeatureAccessed
	}
	return s.append(ctx, t, in.CommonInput, AccessPayload{
		Path:      in.Path,
		Operation: in.Operation,
	})
}

func (s *Service) RecordUserBlock(ctx context.Context, in UserBlockInput) (*Entry, error) {
	if in.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}
	t := EventUserUnblocked
	if in.Blocked {
		t = EventUserBlocked
	}
	return s.append(ctx, t, in.CommonInput, BlockPayload{
		Reason:    in.Reason,
		ExpiresAt: in.ExpiresAt,
	})
}

func (s *Service) RecordInvoiceEvent(ctx context.Context, in InvoiceEventInput) (*Entry, error) {
	if in.InvoiceID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invoice id is required")
	}
	t := EventInvoiceUpdated
	if in.Created {
		t = EventInvoiceCreated
	}
	return s.append(ctx, t, in.CommonInput, InvoicePayload{
		InvoiceID: in.InvoiceID,
		Amount:    in.Amount,
		Currency:  in.Currency,
		Status:    in.Status,
	})
}

func (s *Service) RecordFinancialEvent(ctx context.Context, in FinancialEventInput) (*Entry, error) {
	if in.Category == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "financial category is required")
	}
	return s.append(ctx, EventFinancial, in.CommonInput, FinancialPayload{
		Category:    in.Category,
		ReferenceID: in.ReferenceID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
	})
}

func (s *Service) append(ctx context.Context, t EventType, common CommonInput, payload Payload) (*Entry, error) {
	entry := &Entry{
		ID:         id.NewEventID(),
		Type:       t,
		TenantID:   common.TenantID,
		UserID:     common.UserID,
		Module:     common.Module,
		Feature:    common.Feature,
		OccurredAt: common.OccurredAt,
		Context:    clientContext(ctx, common),
		Payload:    payload,
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = requestcontext.Now(ctx)
	}

	if err := s.store.Append(ctx, entry); err != nil {
		metrics.AppendFailures.Inc()
		s.logger.ErrorContext(ctx, "failed to append audit entry",
			"type", string(t),
			"user_id", entry.UserID.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}

	metrics.EntriesAppended.WithLabelValues(string(t)).Inc()
	s.logger.InfoContext(ctx, "audit entry recorded",
		"event_id", entry.ID.String(),
		"type", string(t),
		"user_id", entry.UserID.String(),
		"module", entry.Module,
	)
	return entry, nil
}

// clientContext prefers explicit input values and falls back to whatever the
// transport middleware stashed in the request context.
func clientContext(ctx context.Context, common CommonInput) Context {
	ip := common.IPAddress
	if ip == "" {
		ip = requestcontext.ClientIP(ctx)
	}
	ua := common.UserAgent
	if ua == "" {
		ua = requestcontext.UserAgent(ctx)
	}
	return Context{
		IPAddress: ip,
		Device:    parseDevice(ua),
	}
}

func parseDevice(raw string) *DeviceInfo {
	if raw == "" {
		return nil
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	if version != "" {
		browser = browser + " " + version
	}
	return &DeviceInfo{
		UserAgent: raw,
		Browser:   browser,
		OS:        ua.OS(),
		Mobile:    ua.Mobile(),
	}
}
