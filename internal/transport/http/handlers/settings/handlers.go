package settingshandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/audit"
	"payday/internal/domain/settings"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type Handler struct {
	store *settings.Store
	audit *audit.Service
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{store: settings.NewStore(db), audit: audit.New(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleRead)
		r.Put("/", h.handleUpdate)
	})
}

func (h *Handler) handleRead(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.Read(r.Context())
	if errors.Is(err, settings.ErrUnavailable) {
		api.Fail(w, http.StatusNotFound, "settings_unavailable", "payroll settings not configured", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_read_failed", "failed to read payroll settings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cfg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload settings.Payroll
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.BaseHourlyRate <= 0 || payload.OT1Multiplier <= 0 || payload.OT2Multiplier <= 0 || payload.BaseMonthSalary <= 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "rates and base salary must be positive", middleware.GetRequestID(r.Context()))
		return
	}

	before, readErr := h.store.Read(r.Context())
	if err := h.store.Update(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update payroll settings", middleware.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	var beforeValue any
	if readErr == nil {
		beforeValue = before
	}
	if err := h.audit.Record(r.Context(), user.UserID, "settings.payroll.update", "payroll_settings", "1",
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), beforeValue, payload); err != nil {
		log.Printf("audit settings.payroll.update failed: %v", err)
	}

	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}
