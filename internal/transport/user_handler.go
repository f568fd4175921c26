package transport

import (
	"net/http"

	"sales-management/internal/middleware"
	"sales-management/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user administration
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the user routes; all of them require an admin
func (h *UserHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/page", h.Page)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.Create(r.Context(), toUserInput(req.Username, req.Email, req.Password, req.Role))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	middleware.RespondWithJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, mapAll(users, toUserResponse))
}

func (h *UserHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.userService.GetPaginated(r.Context(), page, size)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toPageResponse(result, toUserResponse))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id, toUserInput(req.Username, req.Email, req.Password, req.Role))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("User updated", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("User deleted", zap.Int64("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}
