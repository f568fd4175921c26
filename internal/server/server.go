package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sales-management/internal/config"
	"sales-management/internal/database"
	custommiddleware "sales-management/internal/middleware"
	"sales-management/internal/repository"
	"sales-management/internal/service"
	"sales-management/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Repositories
	pool := db.DB()
	txManager := repository.NewTxManager(pool)
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	saleLineRepo := repository.NewSaleLineRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	// Services
	userService := service.NewUserService(userRepo, saleRepo, txManager)
	authService := service.NewAuthService(userService, userRepo, cfg.JWT.Secret, cfg.JWT.AccessTTL())
	categoryService := service.NewCategoryService(categoryRepo, productRepo, txManager)
	productService := service.NewProductService(productRepo, categoryRepo, saleLineRepo, txManager)
	saleService := service.NewSaleService(saleRepo, saleLineRepo, userRepo, productRepo, txManager,
		service.SaleOptions{AllowEmpty: cfg.Sales.AllowEmpty})
	saleLineService := service.NewSaleLineService(saleLineRepo, saleRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)

	srv := &Server{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var limit func(http.Handler) http.Handler
	if cfg.Redis.Enabled {
		srv.redis = newRedisClient(cfg.Redis, logger)
		if srv.redis != nil {
			limit = custommiddleware.RateLimitMiddleware(srv.redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
				KeyPrefix:         "rate_limit:auth",
			}, logger)
		}
	}

	router.Route("/api", func(r chi.Router) {
		transport.NewAuthHandler(authService, cfg.JWT.AccessTTL(), logger).RegisterRoutes(r, authMiddleware, limit)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			transport.NewUserHandler(userService, logger).RegisterRoutes(r, requireAdmin)
			transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(r, requireAdmin)
			transport.NewProductHandler(productService, logger).RegisterRoutes(r, requireAdmin)
			transport.NewSaleHandler(saleService, saleLineService, logger).RegisterRoutes(r, requireAdmin)
			transport.NewAnalyticsHandler(analyticsService, logger).RegisterRoutes(r, requireAdmin)
		})
	})

	srv.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv
}

// newRedisClient connects to Redis, returning nil when it is unreachable
func newRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		client.Close()
		return nil
	}

	logger.Info("Rate limiting enabled", zap.String("addr", cfg.Addr()))
	return client
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
