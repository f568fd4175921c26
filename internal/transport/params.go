package transport

import (
	"net/http"
	"strconv"

	"sales-management/internal/domain"

	"github.com/go-chi/chi/v5"
)

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidInput("invalid id")
	}
	return id, nil
}

// queryInt reads an integer query parameter, returning def when absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// pageParams reads the zero-based page index and page size
func pageParams(r *http.Request) (page, size int) {
	return queryInt(r, "page", 0), queryInt(r, "size", domain.DefaultPageSize)
}
