package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"plangate/internal/auditlog"
	id "plangate/pkg/domain"
	"plangate/pkg/platform/httputil"
)

// AuditHandler exposes the audit recorders to trusted internal callers
// (login service, API gateway, billing workers).
type AuditHandler struct {
	service *auditlog.Service
	logger  *slog.Logger
}

func NewAuditHandler(service *auditlog.Service, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{service: service, logger: logger}
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Post("/audit/logins", h.recordLogin)
	r.Post("/audit/module-access", h.recordModuleAccess)
	r.Post("/audit/user-blocks", h.recordUserBlock)
	r.Post("/audit/invoices", h.recordInvoice)
	r.Post("/audit/financial", h.recordFinancial)
}

// commonFields is the request-side mirror of auditlog.CommonInput.
type commonFields struct {
	TenantID string    `json:"tenantId,omitempty"`
	UserID   id.UserID `json:"userId,omitempty"`
	Module   string    `json:"module,omitempty"`
	Feature  string    `json:"feature,omitempty"`
}

func (c commonFields) toInput() auditlog.CommonInput {
	return auditlog.CommonInput{
		TenantID: c.TenantID,
		UserID:   c.UserID,
		Module:   c.Module,
		Feature:  c.Feature,
	}
}

type recordedResponse struct {
	EventID    id.EventID         `json:"eventId"`
	Type       auditlog.EventType `json:"type"`
	OccurredAt time.Time          `json:"occurredAt"`
}

func writeRecorded(w http.ResponseWriter, entry *auditlog.Entry) {
	httputil.WriteJSON(w, http.StatusCreated, recordedResponse{
		EventID:    entry.ID,
		Type:       entry.Type,
		OccurredAt: entry.OccurredAt,
	})
}

type loginRequest struct {
	commonFields
	Success bool   `json:"success"`
	Method  string `json:"method"`
	Email   string `json:"email,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (h *AuditHandler) recordLogin(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[loginRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.RecordLoginAttempt(r.Context(), auditlog.LoginAttemptInput{
		CommonInput: req.toInput(),
		Success:     req.Success,
		Method:      req.Method,
		Email:       req.Email,
		Reason:      req.Reason,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeRecorded(w, entry)
}

type moduleAccessRequest struct {
	commonFields
	Path      string `json:"path,omitempty"`
	Operation string `json:"operation,omitempty"`
}

func (h *AuditHandler) recordModuleAccess(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[moduleAccessRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.RecordModuleAccess(r.Context(), auditlog.ModuleAccessInput{
		CommonInput: req.toInput(),
		Path:        req.Path,
		Operation:   req.Operation,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeRecorded(w, entry)
}

type userBlockRequest struct {
	commonFields
	Blocked   bool       `json:"blocked"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *AuditHandler) recordUserBlock(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[userBlockRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.RecordUserBlock(r.Context(), auditlog.UserBlockInput{
		CommonInput: req.toInput(),
		Blocked:     req.Blocked,
		Reason:      req.Reason,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeRecorded(w, entry)
}

type invoiceRequest struct {
	commonFields
	Created   bool   `json:"created"`
	InvoiceID string `json:"invoiceId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status,omitempty"`
}

func (h *AuditHandler) recordInvoice(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[invoiceRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.RecordInvoiceEvent(r.Context(), auditlog.InvoiceEventInput{
		CommonInput: req.toInput(),
		Created:     req.Created,
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      req.Status,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeRecorded(w, entry)
}

type financialRequest struct {
	commonFields
	Category    string `json:"category"`
	ReferenceID string `json:"referenceId,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

func (h *AuditHandler) recordFinancial(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[financialRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.RecordFinancialEvent(r.Context(), auditlog.FinancialEventInput{
		CommonInput: req.toInput(),
		Category:    req.Category,
		ReferenceID: req.ReferenceID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeRecorded(w, entry)
}
