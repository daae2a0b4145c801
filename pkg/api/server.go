package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/typeforge/typeforge/pkg/forge"
	"github.com/typeforge/typeforge/pkg/httputil"
	"github.com/typeforge/typeforge/pkg/observability"
)

// Server exposes the type-forging pipeline over HTTP.
type Server struct {
	service *forge.Service
	router  *mux.Router
	log     *logrus.Logger
}

// NewServer creates the HTTP server around a forge service. The registry
// backs the /metrics endpoint and may be nil to disable it.
func NewServer(service *forge.Service, log *logrus.Logger, metrics *observability.Metrics, registry *prometheus.Registry) *Server {
	if log == nil {
		log = logrus.New()
	}
	s := &Server{
		service: service,
		router:  mux.NewRouter(),
		log:     log,
	}
	s.router.Use(httputil.RecoveryMiddleware(log))
	s.router.Use(httputil.LoggingMiddleware(log))
	s.router.Use(httputil.MetricsMiddleware(metrics))
	s.setupRoutes(registry)
	return s
}

func (s *Server) setupRoutes(registry *prometheus.Registry) {
	// Type generation and instantiation
	s.router.HandleFunc("/api/v1/types", s.generateType).Methods("POST")
	s.router.HandleFunc("/api/v1/instances", s.materializeInstance).Methods("POST")

	// Cache introspection and reset
	s.router.HandleFunc("/api/v1/cache/stats", s.cacheStats).Methods("GET")
	s.router.HandleFunc("/api/v1/cache", s.resetCache).Methods("DELETE")

	s.router.HandleFunc("/health", s.health).Methods("GET")
	if registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}
