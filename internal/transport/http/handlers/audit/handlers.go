package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/audit"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type Handler struct {
	audit *audit.Service
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{audit: audit.New(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAdmin).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	events, err := h.audit.List(r.Context(), r.URL.Query().Get("action"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
