// Package audithttp exposes the read-only audit query API.
package audithttp

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eventosys/eventosys/internal/audit"
	"github.com/eventosys/eventosys/internal/platform/httpx"
	"github.com/eventosys/eventosys/internal/policy"
	"github.com/eventosys/eventosys/internal/shared"
)

// Handler serves audit listings to administrators.
type Handler struct {
	logger   *slog.Logger
	service  *audit.Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *audit.Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers audit routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/logs", h.listLogs)
}

type listParams struct {
	From     string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To       string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	UserID   int64  `validate:"min=0"`
	Action   string `validate:"omitempty,max=100"`
	Page     int    `validate:"min=0"`
	PageSize int    `validate:"min=0,max=100"`
}

type recordResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

type listResponse struct {
	Records  []recordResponse `json:"records"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasNext  bool             `json:"has_next"`
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if !policy.CanPerform(principal, policy.ManageUsers) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "access denied")
		return
	}

	q := r.URL.Query()
	params := listParams{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Action: q.Get("action"),
	}
	params.UserID, _ = strconv.ParseInt(q.Get("user_id"), 10, 64)
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	if err := h.validate.Struct(params); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid query parameters")
		return
	}

	filters := audit.QueryFilters{
		UserID:   params.UserID,
		Action:   params.Action,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	if params.From != "" {
		filters.From, _ = time.Parse(time.RFC3339, params.From)
	}
	if params.To != "" {
		filters.To, _ = time.Parse(time.RFC3339, params.To)
	}
	if raw := q.Get("success"); raw != "" {
		success := raw == "true" || raw == "1"
		filters.Success = &success
	}

	result, err := h.service.Query(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit query", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	records := make([]recordResponse, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, recordResponse{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Action:    rec.Action,
			Resource:  rec.Resource,
			IPAddress: rec.IPAddress,
			UserAgent: rec.UserAgent,
			Success:   rec.Success,
			CreatedAt: rec.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Records:  records,
		Page:     result.Paging.Page,
		PageSize: result.Paging.PageSize,
		HasNext:  result.Paging.HasNext,
	})
}
