package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/metrics"
	healthuc "github.com/kailas-cloud/placebook/internal/usecase/health"
	"github.com/kailas-cloud/placebook/internal/validation"
)

// searchResource is the resource that also serves GET /search.
const searchResource = "places"

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options configures the HTTP API.
type Options struct {
	Logger             *zap.Logger
	Health             HealthChecker
	Search             Searcher      // nil disables search routes
	Usage              UsageReporter // nil disables GET /usage
	Uploader           Uploader // nil disables attachments
	APIKeys            []string
	AllowedOrigins     []string
	MaxMultipartMemory int64
}

// Server is the HTTP API over the resource services.
type Server struct {
	logger             *zap.Logger
	health             HealthChecker
	search             Searcher
	usage              UsageReporter
	uploader           Uploader
	apiKeys            []string
	allowedOrigins     []string
	maxMultipartMemory int64
	resources          []Resource
	validate           *validation.Validator
	errorHandlers      []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(opts Options, resources ...Resource) *Server {
	s := &Server{
		logger:             opts.Logger,
		health:             opts.Health,
		search:             opts.Search,
		usage:              opts.Usage,
		uploader:           opts.Uploader,
		apiKeys:            opts.APIKeys,
		allowedOrigins:     opts.AllowedOrigins,
		maxMultipartMemory: opts.MaxMultipartMemory,
		resources:          resources,
		validate:           validation.New(),
		errorHandlers:      defaultErrorHandlers(),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxMultipartMemory <= 0 {
		s.maxMultipartMemory = DefaultMaxMultipartMemory
	}
	return s
}

// Handler builds the router with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "X-API-Key", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Tagging-Tokens", "X-Tagging-Cache"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	r.Use(APIKeyAuth(s.apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "No static resource "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Request method '"+r.Method+"' is not supported")
	})

	r.Get("/health", s.healthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/error", s.errorPage)
	if s.usage != nil {
		r.Get("/usage", s.usageReport)
	}

	r.Route("/api", func(api chi.Router) {
		if s.search != nil {
			api.Post("/search", s.searchBody)
		}
		for _, res := range s.resources {
			res := res
			api.Route("/"+res.Path(), func(sub chi.Router) {
				if s.search != nil && res.Path() == searchResource {
					sub.Get("/search", s.searchPlaces)
				}
				res.register(sub, s)
			})
		}
	})

	return r
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}})
		return
	}

	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// errorPage handles /error?status=NNN by rendering the envelope for that status.
func (s *Server) errorPage(w http.ResponseWriter, r *http.Request) {
	status := http.StatusInternalServerError

	var requested *int
	err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &requested)
	if err == nil && requested != nil && *requested >= 400 && *requested <= 599 {
		status = *requested
	}

	msg := http.StatusText(status)
	if status == http.StatusNotFound {
		msg = "Resource not found"
	}
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	writeError(w, status, msg)
}
