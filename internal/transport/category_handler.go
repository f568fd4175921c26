package transport

import (
	"net/http"

	"sales-management/internal/middleware"
	"sales-management/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers the category routes. Reads are open to any caller, writes need an admin.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/categories", func(r chi.Router) {
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

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), toCategoryInput(req))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", category.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.GetAll(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(categories, toCategoryResponse))
}

// Page lists categories; ?sort= accepts id or name
func (h *CategoryHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.categoryService.GetPaginated(r.Context(), page, size, r.URL.Query().Get("sort"))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toPageResponse(result, toCategoryResponse))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, toCategoryInput(req))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Category deleted", zap.Int64("category_id", id))
	w.WriteHeader(http.StatusNoContent)
}
