package transport

import (
	"net/http"

	"sales-management/internal/middleware"
	"sales-management/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SaleHandler handles HTTP requests for sales and their lines
type SaleHandler struct {
	saleService     service.SaleService
	saleLineService service.SaleLineService
	logger          *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, saleLineService service.SaleLineService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService:     saleService,
		saleLineService: saleLineService,
		logger:          logger,
	}
}

// RegisterRoutes registers the sale and sale line routes. Only deleting a sale needs an admin;
// whether a caller may record a sale is decided by the seller's role.
func (h *SaleHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/page", h.Page)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/lines", h.ListLines)
		r.With(requireAdmin).Delete("/{id}", h.Delete)
	})

	r.Get("/sale-lines/{id}", h.GetLine)
}

// Create records a sale with its lines
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	callerRole, hasRole := middleware.GetUserRole(r.Context())
	if !ok || !hasRole {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	in, err := toCreateSaleInput(req, callerID, callerRole)
	if err != nil {
		h.logger.Warn("Sale for another user refused",
			zap.Int64("caller_id", callerID),
			zap.Int64("user_id", req.UserID),
		)
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	sale, err := h.saleService.Create(r.Context(), in)
	if err != nil {
		h.logger.Info("Sale rejected",
			zap.Int64("user_id", in.UserID),
			zap.Int("lines", len(in.Lines)),
			zap.Error(err),
		)
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Sale created",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("user_id", sale.UserID),
		zap.Int("lines", len(sale.Lines)),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toSaleResponse(sale))
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	sale, err := h.saleService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toSaleResponse(sale))
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.GetAll(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(sales, toSaleResponse))
}

func (h *SaleHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.saleService.GetPaginated(r.Context(), page, size)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toPageResponse(result, toSaleResponse))
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.saleService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Sale deleted", zap.Int64("sale_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaleHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	lines, err := h.saleLineService.ListBySale(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toSaleLineResponses(lines))
}

func (h *SaleHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	line, err := h.saleLineService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toSaleLineResponse(*line))
}
