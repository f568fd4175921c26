package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// corsOptions lists what browser clients of the API may send and read
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{
			chimw.RequestIDHeader,
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After",
		},
		// bearer tokens travel in headers, never cookies
		AllowCredentials: false,
		MaxAge:           600,
	}
}

// CORSMiddleware allows the configured origins, or any origin in development
func CORSMiddleware(allowedOrigins []string, isDevelopment bool) func(http.Handler) http.Handler {
	origins := allowedOrigins
	if isDevelopment || len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(corsOptions(origins))
}

// DefaultMiddlewareStack returns the chi middleware every route shares
func DefaultMiddlewareStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		chimw.CleanPath,
		chimw.Compress(5, "application/json"),
	}
}
