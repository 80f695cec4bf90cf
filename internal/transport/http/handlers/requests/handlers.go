package requestshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"permits/internal/domain/audit"
	"permits/internal/domain/auth"
	"permits/internal/domain/requests"
	"permits/internal/platform/metrics"
	"permits/internal/transport/http/api"
	"permits/internal/transport/http/middleware"
	"permits/internal/transport/http/shared"
)

const maxBulkIDs = 200

type Handler struct {
	Service  *requests.Service
	Audit    *audit.Service
	Metrics  *metrics.Collector
	PageSize int
}

func NewHandler(service *requests.Service, auditSvc *audit.Service, collector *metrics.Collector, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = requests.DefaultPageSize
	}
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector, PageSize: pageSize}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/requests", func(r chi.Router) {
		r.With(middleware.RequireAuth).Post("/permits", h.handleCreatePermit)
		r.With(middleware.RequireAuth).Post("/equipment", h.handleCreateEquipment)
		r.With(middleware.RequireAuth).Get("/zones", h.handleListZones)
		r.With(middleware.RequireAuth).Get("/history/{code}", h.handleHistory)

		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/grouped", h.handleGrouped)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/weekly", h.handleWeekly)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/weekly/{date}/breakdown", h.handleDayBreakdown)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/stats", h.handleStats)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/bulk", h.handleBulk)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/{requestID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{requestID}/status", h.handleUpdateStatus)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{requestID}/notification", h.handleUpdateNotification)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{requestID}", h.handleDelete)
	})
}

type permitPayload struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Dates       []string `json:"dates"`
	Time        string   `json:"time"`
	NoveltyType string   `json:"noveltyType"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
}

type equipmentPayload struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Zone        string `json:"zone"`
	Description string `json:"description"`
}

type statusPayload struct {
	Status    string `json:"status"`
	Respuesta string `json:"respuesta"`
}

type notificationPayload struct {
	Status string `json:"status"`
}

type bulkPayload struct {
	IDs       []string `json:"ids"`
	Status    string   `json:"status"`
	Respuesta string   `json:"respuesta"`
}

func (h *Handler) handleCreatePermit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload permitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Code == "" {
		payload.Code = user.Code
	}
	if payload.Name == "" {
		payload.Name = user.Name
	}

	v := shared.NewValidator()
	v.Required("code", payload.Code, "employee code is required")
	v.Required("name", payload.Name, "employee name is required")
	v.Required("noveltyType", payload.NoveltyType, "novelty type is required")
	if payload.NoveltyType != "" && !requests.IsPermitSubtype(payload.NoveltyType) {
		v.Add("noveltyType", "unknown novelty type")
	}
	if len(payload.Dates) == 0 {
		v.Add("dates", "at least one date is required")
	}
	dates, ok := shared.ParseDateList(payload.Dates)
	if !ok {
		v.Add("dates", "dates must use the YYYY-MM-DD format")
	} else if len(payload.Dates) > 0 && len(dates) == 0 {
		v.Add("dates", "at least one date is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreatePermit(r.Context(), requests.PermitInput{
		Code:        strings.TrimSpace(payload.Code),
		Name:        strings.TrimSpace(payload.Name),
		Phone:       strings.TrimSpace(payload.Phone),
		Dates:       dates,
		Time:        strings.TrimSpace(payload.Time),
		NoveltyType: payload.NoveltyType,
		Description: payload.Description,
		Files:       payload.Files,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_create_failed", "failed to create request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload equipmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Code == "" {
		payload.Code = user.Code
	}
	if payload.Name == "" {
		payload.Name = user.Name
	}

	v := shared.NewValidator()
	v.Required("code", payload.Code, "employee code is required")
	v.Required("name", payload.Name, "employee name is required")
	v.Required("type", payload.Type, "postulation type is required")
	if payload.Type != "" && !requests.IsEquipmentSubtype(payload.Type) {
		v.Add("type", "unknown postulation type")
	}
	v.Required("zone", payload.Zone, "zone is required")
	if payload.Zone != "" && !requests.ValidZone(payload.Zone) {
		v.Add("zone", "unknown zone")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateEquipment(r.Context(), requests.EquipmentInput{
		Code:        strings.TrimSpace(payload.Code),
		Name:        strings.TrimSpace(payload.Name),
		Type:        payload.Type,
		Zone:        payload.Zone,
		Description: payload.Description,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_create_failed", "failed to create request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListZones(w http.ResponseWriter, r *http.Request) {
	api.Success(w, requests.Zones, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, all, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "request_get_failed", "failed to load request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

// handleGrouped serves the pending-request management view: one tab per
// category, grouped by employee code, filtered, sorted, and paged.
func (h *Handler) handleGrouped(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	tab := requests.KindPermit
	if strings.EqualFold(query.Get("tab"), "equipment") {
		tab = requests.KindEquipment
	}

	filter := requests.Filter{
		Subtype:   query.Get("subtype"),
		Code:      query.Get("code"),
		Zone:      query.Get("zone"),
		SortOrder: query.Get("sort"),
	}
	if query.Has("week") {
		start := requests.WeekStart(time.Now(), shared.ParseOffset(r, "week"))
		filter.WeekStart = start
		filter.WeekEnd = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	} else if query.Has("from") || query.Has("to") {
		v := shared.NewValidator()
		from, fromOK := v.Date("from", query.Get("from"))
		to, toOK := v.Date("to", query.Get("to"))
		if fromOK && toOK {
			v.DateOrder("from", from, "to", to)
		}
		if v.Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}
		filter.WeekStart = from
		filter.WeekEnd = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	page, total, err := h.Service.Grouped(r.Context(), tab, filter, shared.ParsePage(r), h.PageSize)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_group_failed", "failed to group requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"groups":     page.Items,
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
		"totalItems": page.TotalItems,
		"total":      total,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	week, err := h.Service.Weekly(r.Context(), time.Now(), shared.ParseOffset(r, "week"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "weekly_failed", "failed to build weekly summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, week, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDayBreakdown(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must use the YYYY-MM-DD format", middleware.GetRequestID(r.Context()))
		return
	}

	all, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "weekly_failed", "failed to build day breakdown", middleware.GetRequestID(r.Context()))
		return
	}

	var dayReqs []requests.Request
	for _, req := range all {
		for _, raw := range req.Dates {
			if strings.TrimSpace(raw) == date {
				dayReqs = append(dayReqs, req)
				break
			}
		}
	}
	api.Success(w, requests.BreakdownDay(dayReqs), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = requests.PeriodAll
	}
	stats, err := h.Service.Stats(r.Context(), period, time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to build stats", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "requestID")

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), id, payload.Status, payload.Respuesta)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "request_not_found", "request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, requests.ErrInvalidStatus):
			api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be approved or rejected", middleware.GetRequestID(r.Context()))
		case errors.Is(err, requests.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "already_decided", "request has already been decided", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "status_update_failed", "failed to update status", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Metrics.RecordDecision()
	if err := h.Audit.Record(r.Context(), user.Code, "request.decide", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit request.decide failed", "err", err)
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestID")

	var payload notificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if strings.TrimSpace(payload.Status) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "notification status is required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateNotificationStatus(r.Context(), id, payload.Status); err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "notification_update_failed", "failed to update notification status", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": id, "notificationStatus": payload.Status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "requestID")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "request_delete_failed", "failed to delete request", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.Code, "request.delete", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit request.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

// handleBulk decides a batch of requests sequentially. Individual
// failures are reported per item; the batch never aborts midway.
func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload bulkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	if len(payload.IDs) == 0 {
		v.Add("ids", "at least one request id is required")
	}
	if len(payload.IDs) > maxBulkIDs {
		v.Add("ids", "too many request ids in a single batch")
	}
	v.Enum("status", payload.Status, []string{requests.StatusApproved, requests.StatusRejected}, "status must be approved or rejected")
	v.Required("status", payload.Status, "status is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.BulkDecide(r.Context(), payload.IDs, payload.Status, payload.Respuesta, nil)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "bulk_failed", "bulk action interrupted", middleware.GetRequestID(r.Context()))
		return
	}

	h.Metrics.RecordBulkRun()
	if err := h.Audit.Record(r.Context(), user.Code, "request.bulk", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{
		"status":    payload.Status,
		"requested": len(payload.IDs),
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}); err != nil {
		slog.Warn("audit request.bulk failed", "err", err)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	code := chi.URLParam(r, "code")

	if user.Role != auth.RoleAdmin && user.Code != code {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another employee's history", middleware.GetRequestID(r.Context()))
		return
	}

	history, err := h.Service.History(r.Context(), code)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "history_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}
