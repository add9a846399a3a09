// Package http wires the REST surface: routing, middleware and the JSON
// response envelope shared by every endpoint.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/inventory-api/docs"
	"github.com/rogerio-castellano/inventory-api/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-api/internal/http/ratelimit"
)

// RouterConfig carries the optional pieces of the router.
type RouterConfig struct {
	Logger  zerolog.Logger
	Limiter *ratelimit.VisitorLimiter // nil disables rate limiting
}

// NewRouter builds the chi router with all API routes mounted under /api/v1.
func NewRouter(h *handlers.Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(cfg.Logger))
	if cfg.Limiter != nil {
		r.Use(RateLimit(cfg.Limiter))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "error", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusMethodNotAllowed, "error", "method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "server running",
			"docs":    "docs available on /swagger/index.html",
			"time":    time.Now().UTC(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.CreateProductHandler)
			r.Get("/", h.GetProductsHandler)
			r.Post("/import", h.ImportProductsHandler)
			r.Get("/{id}", h.GetProductByIDHandler)
			r.Put("/{id}", h.UpdateProductHandler)
			r.Delete("/{id}", h.DeleteProductHandler)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/low-stock", h.GetLowStockHandler)
			r.Put("/{id}/stock/increase", h.IncreaseStockHandler)
			r.Put("/{id}/stock/decrease", h.DecreaseStockHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	return r
}

func writeEnvelope(w http.ResponseWriter, code int, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status, "message": message})
}
