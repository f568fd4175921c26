package transport

import (
	"net/http"

	"sales-management/internal/middleware"
	"sales-management/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the product routes. Reads are open to any caller, writes need an admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/page", h.Page)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), toProductInput(req))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAll(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(products, toProductResponse))
}

func (h *ProductHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.productService.GetPaginated(r.Context(), page, size)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toPageResponse(result, toProductResponse))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, toProductInput(req))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}
