package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
	"github.com/nmueses/secaudit/internal/service/account"
	"github.com/nmueses/secaudit/internal/transport/middleware"
	"github.com/nmueses/secaudit/pkg/ctxutil"
)

type accountService interface {
	Create(ctx context.Context, adminID uuid.UUID, input account.CreateInput) (*domain.Account, error)
	Update(ctx context.Context, adminID, id uuid.UUID, input account.UpdateInput, ip, userAgent string) (*domain.Account, error)
	Delete(ctx context.Context, adminID, id uuid.UUID) error
	Lock(ctx context.Context, adminID, id uuid.UUID, ip, userAgent string) error
	Unlock(ctx context.Context, adminID, id uuid.UUID, ip, userAgent string) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

type reportService interface {
	GenerateDailyReport(ctx context.Context) (*domain.DailyReport, error)
	Send(ctx context.Context, adminID uuid.UUID) (*domain.DailyReport, error)
	MonitorAccounts(ctx context.Context) ([]domain.AccountActivity, error)
}

type eventService interface {
	List(ctx context.Context, f domain.EventFilter) ([]domain.SecurityEvent, error)
}

type ledgerService interface {
	All(ctx context.Context) ([]domain.AdminAction, error)
	ByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.AdminAction, error)
	ByAffectedAccount(ctx context.Context, accountID uuid.UUID) ([]domain.AdminAction, error)
}

// accessRecorder writes the ACCESS_DENIED event when a non-admin
// reaches an admin endpoint.
type accessRecorder interface {
	Record(ctx context.Context, kind domain.EventKind, accountID *uuid.UUID, ip, userAgent, description string) (domain.SecurityEvent, error)
}

// AdminHandler serves the admin REST endpoints. All routes require an
// authenticated admin.
type AdminHandler struct {
	accounts accountService
	reports  reportService
	events   eventService
	actions  ledgerService
	access   accessRecorder
	log      *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	accounts accountService,
	reports reportService,
	events eventService,
	actions ledgerService,
	access accessRecorder,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		reports:  reports,
		events:   events,
		actions:  actions,
		access:   access,
		log:      logger.With("handler", "admin"),
	}
}

// requireAdmin returns the authenticated admin's id, or writes the
// error response and returns false. A denied attempt by an
// authenticated non-admin is recorded in the security event log.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := ctxutil.AccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		if _, err := h.access.Record(r.Context(), domain.EventAccessDenied, &id, clientIP(r), userAgent(r),
			"Attempt to access an administrative endpoint without the admin role"); err != nil {
			h.log.ErrorContext(r.Context(), "record access denied", slog.String("error", err.Error()))
		}
		writeError(w, http.StatusForbidden, "admin access required")
		return uuid.Nil, false
	}
	return id, true
}

type createAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateAccountRequest struct {
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Password *string `json:"password,omitempty"`
}

// ListAccounts handles GET /admin/accounts.
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateAccount handles POST /admin/accounts.
func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.accounts.Create(r.Context(), adminID, account.CreateInput{
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(created))
}

// GetAccount handles GET /admin/accounts/{id}.
func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(a))
}

// UpdateAccount handles PUT /admin/accounts/{id}.
func (h *AdminHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.accounts.Update(r.Context(), adminID, id, account.UpdateInput{
		Username: req.Username,
		Role:     domain.Role(req.Role),
		Password: req.Password,
	}, clientIP(r), userAgent(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(updated))
}

// DeleteAccount handles DELETE /admin/accounts/{id}.
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Delete(r.Context(), adminID, id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LockAccount handles POST /admin/accounts/{id}/lock.
func (h *AdminHandler) LockAccount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Lock(r.Context(), adminID, id, clientIP(r), userAgent(r)); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "locked"})
}

// UnlockAccount handles POST /admin/accounts/{id}/unlock.
func (h *AdminHandler) UnlockAccount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Unlock(r.Context(), adminID, id, clientIP(r), userAgent(r)); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unlocked"})
}

// DailyReport handles GET /admin/report.
func (h *AdminHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	rep, err := h.reports.GenerateDailyReport(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// SendReport handles POST /admin/report/send.
func (h *AdminHandler) SendReport(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Send(r.Context(), adminID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// Monitor handles GET /admin/monitor.
func (h *AdminHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	activity, err := h.reports.MonitorAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

// ListEvents handles GET /admin/events?kind=&account_id=&limit=.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	var filter domain.EventFilter
	if v := r.URL.Query().Get("kind"); v != "" {
		kind := domain.EventKind(v)
		filter.Kind = &kind
	}
	if v := r.URL.Query().Get("account_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid account_id")
			return
		}
		filter.AccountID = &id
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	events, err := h.events.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// ListActions handles GET /admin/actions?admin_id=&account_id=.
func (h *AdminHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	ctx := r.Context()
	var (
		actions []domain.AdminAction
		err     error
	)
	switch {
	case r.URL.Query().Get("admin_id") != "":
		var id uuid.UUID
		id, err = uuid.Parse(r.URL.Query().Get("admin_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid admin_id")
			return
		}
		actions, err = h.actions.ByAdmin(ctx, id)
	case r.URL.Query().Get("account_id") != "":
		var id uuid.UUID
		id, err = uuid.Parse(r.URL.Query().Get("account_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid account_id")
			return
		}
		actions, err = h.actions.ByAffectedAccount(ctx, id)
	default:
		actions, err = h.actions.All(ctx)
	}
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, actions)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return uuid.Nil, false
	}
	return id, true
}
