package payrollhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/audit"
	"payday/internal/domain/payroll"
	"payday/internal/domain/settings"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type Handler struct {
	store   payroll.StoreAPI
	service *payroll.Service
	audit   *audit.Service
}

func NewHandler(db *pgxpool.Pool) *Handler {
	store := payroll.NewStore(db)
	return &Handler{store: store, service: payroll.NewService(store), audit: audit.New(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/settle", h.handleSettle)
		r.Get("/records", h.handleListRecords)
		r.Get("/records/{recordID}", h.handleGetRecord)
	})
}

type settlePayload struct {
	EmployeeID string `json:"employeeId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Force      bool   `json:"force"`
}

func (h *Handler) handleSettle(w http.ResponseWriter, r *http.Request) {
	var payload settlePayload
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}
	if (payload.Year == 0) != (payload.Month == 0) || payload.Month < 0 || payload.Month > 12 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "year and month must be given together", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.service.Settle(r.Context(), payroll.SettleRequest{
		EmployeeID: payload.EmployeeID,
		Year:       payload.Year,
		Month:      payload.Month,
		Force:      payload.Force,
	})

	var partial *payroll.PartialFailureError
	switch {
	case err == nil:
		h.recordAudit(r, "payroll.settle", payload, result)
		api.Success(w, result, middleware.GetRequestID(r.Context()))
	case errors.As(err, &partial):
		// Some employees settled, some did not. The settled records are
		// persisted; report each outcome so the caller can retry the rest.
		h.recordAudit(r, "payroll.settle.partial", payload, result)
		api.FailWithDetails(w, http.StatusMultiStatus, "partial_failure", partial.Error(), result.Outcomes, middleware.GetRequestID(r.Context()))
	case errors.Is(err, payroll.ErrEmptyInput):
		api.Fail(w, http.StatusBadRequest, "empty_input", "no attendance records to settle", middleware.GetRequestID(r.Context()))
	case errors.Is(err, payroll.ErrMissingEmployeeID):
		api.Fail(w, http.StatusBadRequest, "missing_employee_id", "attendance records have no employee attribution", middleware.GetRequestID(r.Context()))
	case errors.Is(err, settings.ErrUnavailable), errors.Is(err, payroll.ErrMissingSettings):
		api.Fail(w, http.StatusConflict, "settings_unavailable", "payroll settings not configured", middleware.GetRequestID(r.Context()))
	case errors.Is(err, payroll.ErrDuplicateSettlement):
		api.FailWithDetails(w, http.StatusConflict, "duplicate_settlement", "salary record already exists for this period", result.Outcomes, middleware.GetRequestID(r.Context()))
	default:
		log.Printf("settlement failed: %v", err)
		api.FailWithDetails(w, http.StatusInternalServerError, "settlement_failed", "settlement failed", result.Outcomes, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	year, month, err := shared.ParsePeriod(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	records, err := h.store.ListSalaryRecords(r.Context(), year, month, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "records_list_failed", "failed to list salary records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	rec, err := h.store.GetSalaryRecord(r.Context(), recordID)
	if errors.Is(err, payroll.ErrRecordNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "record_read_failed", "failed to read salary record", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action string, payload settlePayload, result payroll.SettleResult) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.audit.Record(r.Context(), user.UserID, action, "salary_record", "",
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload, result); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
