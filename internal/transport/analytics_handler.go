package transport

import (
	"net/http"

	"sales-management/internal/middleware"
	"sales-management/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AnalyticsHandler serves sales aggregates to admins
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/kpi", h.KPI)
		r.Get("/sales/monthly", h.MonthlySales)
		r.Get("/products/best-sellers", h.BestSellers)
		r.Get("/categories", h.CategoryStats)
	})
}

func (h *AnalyticsHandler) KPI(w http.ResponseWriter, r *http.Request) {
	kpi, err := h.analyticsService.KPI(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toKPIResponse(kpi))
}

func (h *AnalyticsHandler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	months, err := h.analyticsService.MonthlySales(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(months, toMonthlySalesResponse))
}

// BestSellers accepts ?limit=, clamped by the service
func (h *AnalyticsHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultBestSellersLimit)
	products, err := h.analyticsService.BestSellers(r.Context(), limit)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(products, toProductSalesResponse))
}

func (h *AnalyticsHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsService.CategoryStats(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(stats, toCategorySalesResponse))
}
