package reportshandler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/payroll"
	"payday/internal/domain/reports"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type Handler struct {
	store   payroll.StoreAPI
	service *reports.Service
}

func NewHandler(db *pgxpool.Pool) *Handler {
	store := payroll.NewStore(db)
	return &Handler{store: store, service: reports.NewService(store)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/payroll/records/{recordID}/payslip", h.handlePayslip)
		r.Get("/reports/register", h.handleRegister)
	})
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payslip-%s-%04d-%02d.pdf"`, rec.EmployeeID, rec.SalaryYear, rec.SalaryMonth))
	if err := h.service.RenderPayslipPDF(w, rec); err != nil {
		// Headers are already out; the truncated body is the only signal.
		log.Printf("payslip render failed for %s: %v", recordID, err)
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	year, month, err := shared.ParsePeriod(r)
	if err != nil || year == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "year and month query parameters are required", middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.store.ListSalaryRecords(r.Context(), year, month, 1000, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to build salary register", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.service.Register(records), middleware.GetRequestID(r.Context()))
}
