package exportshandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"permits/internal/domain/auth"
	"permits/internal/domain/exports"
	"permits/internal/domain/requests"
	"permits/internal/transport/http/api"
	"permits/internal/transport/http/middleware"
)

type Handler struct {
	Service *requests.Service
}

func NewHandler(service *requests.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/exports", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/requests.csv", h.handleCSV)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/requests.xlsx", h.handleExcel)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/requests.pdf", h.handlePDF)
	})
}

func (h *Handler) rows(r *http.Request) ([]exports.Row, error) {
	all, err := h.Service.List(r.Context())
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" {
		filtered := all[:0]
		for _, req := range all {
			if req.Status == status {
				filtered = append(filtered, req)
			}
		}
		all = filtered
	}
	return exports.Flatten(all), nil
}

func exportFilename(ext string) string {
	return "solicitudes-" + time.Now().Format("2006-01-02") + "." + ext
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rows(r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export requests", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("csv")+`"`)
	if err := exports.WriteCSV(w, rows); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export requests", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleExcel(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rows(r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export requests", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("xlsx")+`"`)
	if err := exports.WriteExcel(w, rows); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export requests", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rows(r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export requests", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("pdf")+`"`)
	if err := exports.WritePDF(w, rows); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export requests", middleware.GetRequestID(r.Context()))
	}
}
