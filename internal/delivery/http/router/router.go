package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reyesayala/wa-network-request-compare/internal/delivery/http/handler"
	"github.com/reyesayala/wa-network-request-compare/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/compare", h.HandleCompare)
	mux.HandleFunc("GET /api/score", h.HandleGetScore)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
