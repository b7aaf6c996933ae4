// Package api exposes the dual-create orchestrator over HTTP.
package api

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
	"github.com/Revivalution/jn-dual-create/internal/monitoring"
)

const defaultBodyLimit = 1 << 20

// Orchestrator is the slice of dualcreate.Orchestrator the handlers need.
type Orchestrator interface {
	DualCreate(ctx context.Context, tenant dualcreate.Tenant, contact dualcreate.ContactInput, job dualcreate.JobInput) (*dualcreate.Result, error)
	AddJob(ctx context.Context, tenant dualcreate.Tenant, in dualcreate.AddJobInput) (*dualcreate.Result, error)
}

// Config configures the HTTP boundary.
type Config struct {
	// AppToken is the shared secret expected in x-app-token. An empty token
	// rejects every write request.
	AppToken string
	// FallbackAPIKey is used when a request carries no x-jn-api-key.
	FallbackAPIKey string
	AllowedOrigins []string
	BodyLimitBytes int64
	Now            func() time.Time
}

// Server routes requests to the orchestrator.
type Server struct {
	orch     Orchestrator
	cfg      Config
	validate *validator.Validate
	router   chi.Router
}

// NewServer builds the router.
func NewServer(orch Orchestrator, cfg Config) *Server {
	if cfg.BodyLimitBytes <= 0 {
		cfg.BodyLimitBytes = defaultBodyLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		orch:     orch,
		cfg:      cfg,
		validate: newValidator(),
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerAppToken, headerAPIKey, headerUserEmail, headerUserName, headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		for _, prefix := range []string{"/jn", "/api"} {
			r.Post(prefix+"/create-customer-and-job", s.handleCreateCustomerAndJob)
			r.Post(prefix+"/add-job", s.handleAddJob)
		}
	})

	s.router = r
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
