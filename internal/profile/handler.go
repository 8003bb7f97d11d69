package profile

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eventosys/eventosys/internal/platform/httpx"
	"github.com/eventosys/eventosys/internal/shared"
)

// Handler exposes role and department administration over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers profile administration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/{id}/role", h.changeRole)
	r.Put("/{id}/department", h.assignDepartment)
}

type rolePayload struct {
	Role string `json:"role" validate:"required,oneof=admin manager viewer"`
}

type departmentPayload struct {
	DepartmentID int64 `json:"department_id" validate:"min=0"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var payload rolePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid role")
		return
	}

	actor := shared.PrincipalFromContext(r.Context())
	if err := h.service.ChangeRole(r.Context(), actor, userID, payload.Role); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("role changed",
		slog.Int64("actor_id", actor.ID),
		slog.Int64("user_id", userID),
		slog.String("role", payload.Role))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assignDepartment(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var payload departmentPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid department")
		return
	}

	actor := shared.PrincipalFromContext(r.Context())
	if err := h.service.AssignDepartment(r.Context(), actor, userID, payload.DepartmentID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
