package audithandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"permits/internal/domain/audit"
	"permits/internal/domain/auth"
	"permits/internal/transport/http/api"
	"permits/internal/transport/http/middleware"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/events", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	action := strings.TrimSpace(query.Get("action"))

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_limit", "limit must be a number", middleware.GetRequestID(r.Context()))
			return
		}
		limit = parsed
	}

	events, err := h.Service.List(r.Context(), action, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, map[string]any{"events": events}, middleware.GetRequestID(r.Context()))
}
