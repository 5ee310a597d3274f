package authhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/auth"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
)

type Handler struct {
	DB     *pgxpool.Pool
	Secret string
}

func NewHandler(db *pgxpool.Pool, secret string) *Handler {
	return &Handler{DB: db, Secret: secret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	var id, role, hash string
	err := h.DB.QueryRow(r.Context(), `
    SELECT id, role, password_hash
    FROM users
    WHERE email = $1
  `, payload.Email).Scan(&id, &role, &hash)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: id, Email: payload.Email, Role: role}, 8*time.Hour)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"token": token, "role": role}, middleware.GetRequestID(r.Context()))
}
