package attendancehandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/attendance"
	"payday/internal/domain/audit"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type Handler struct {
	store   *attendance.Store
	service *attendance.Service
	audit   *audit.Service
}

func NewHandler(db *pgxpool.Pool, service *attendance.Service) *Handler {
	return &Handler{store: attendance.NewStore(db), service: service, audit: audit.New(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{recordID}", h.handleUpdate)
		r.Delete("/{recordID}", h.handleDelete)
	})
}

// RegisterDeviceRoutes mounts the scanner endpoint, which authenticates
// with a device key instead of a user token.
func (h *Handler) RegisterDeviceRoutes(r chi.Router, deviceKey string) {
	r.With(middleware.RequireDeviceKey(deviceKey)).Post("/attendance/punch", h.handlePunch)
}

type punchRequest struct {
	Barcode   string `json:"barcode"`
	DeviceID  string `json:"deviceId"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) handlePunch(w http.ResponseWriter, r *http.Request) {
	var payload punchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Barcode == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "barcode is required", middleware.GetRequestID(r.Context()))
		return
	}

	var at time.Time
	if payload.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Timestamp)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "timestamp must be RFC3339", middleware.GetRequestID(r.Context()))
			return
		}
		at = parsed
	}

	result, err := h.service.Punch(r.Context(), payload.Barcode, payload.DeviceID, at)
	if errors.Is(err, attendance.ErrUnknownBarcode) {
		api.Fail(w, http.StatusNotFound, "unknown_barcode", "barcode does not match an active employee", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "punch_failed", "failed to record punch", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	records, err := h.store.List(r.Context(), r.URL.Query().Get("employeeId"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

type recordPayload struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	ClockIn    string `json:"clockIn"`
	ClockOut   string `json:"clockOut"`
	IsHoliday  bool   `json:"isHoliday"`
}

func (p recordPayload) validate() (string, bool) {
	if _, err := shared.ParseDate(p.Date); err != nil || p.Date == "" {
		return "date must be YYYY-MM-DD", false
	}
	if !shared.ValidClock(p.ClockIn) || !shared.ValidClock(p.ClockOut) {
		return "clockIn and clockOut must be HH:MM", false
	}
	return "", true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if reason, ok := payload.validate(); !ok {
		api.Fail(w, http.StatusBadRequest, "validation_error", reason, middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.store.Create(r.Context(), attendance.Record{
		EmployeeID: payload.EmployeeID,
		Date:       payload.Date,
		ClockIn:    payload.ClockIn,
		ClockOut:   payload.ClockOut,
		IsHoliday:  payload.IsHoliday,
		Source:     attendance.SourceManual,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_create_failed", "failed to create attendance record", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, "attendance.create", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if reason, ok := payload.validate(); !ok {
		api.Fail(w, http.StatusBadRequest, "validation_error", reason, middleware.GetRequestID(r.Context()))
		return
	}

	before, err := h.store.Get(r.Context(), recordID)
	if errors.Is(err, attendance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_update_failed", "failed to update attendance record", middleware.GetRequestID(r.Context()))
		return
	}

	err = h.store.Update(r.Context(), attendance.Record{
		ID:         recordID,
		EmployeeID: payload.EmployeeID,
		Date:       payload.Date,
		ClockIn:    payload.ClockIn,
		ClockOut:   payload.ClockOut,
		IsHoliday:  payload.IsHoliday,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_update_failed", "failed to update attendance record", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, "attendance.update", recordID, before, payload)
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	before, err := h.store.Get(r.Context(), recordID)
	if errors.Is(err, attendance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err == nil {
		err = h.store.Delete(r.Context(), recordID)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_delete_failed", "failed to delete attendance record", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, "attendance.delete", recordID, before, nil)
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.audit.Record(r.Context(), user.UserID, action, "attendance_record", entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
