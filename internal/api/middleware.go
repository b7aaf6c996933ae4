package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
	"github.com/Revivalution/jn-dual-create/internal/monitoring"
)

const (
	headerAppToken  = "x-app-token"
	headerAPIKey    = "x-jn-api-key"
	headerUserEmail = "x-user-email"
	headerUserName  = "x-user-name"
	headerRequestID = "X-Request-ID"

	maxRequestIDLen = 64
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	tenantKey
)

// requestID propagates a caller-supplied X-Request-ID or mints a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// logger returns the global logger annotated with the request id.
func logger(ctx context.Context) *zap.Logger {
	return zap.L().With(zap.String("request_id", requestIDFrom(ctx)))
}

// requestLog logs one line per request and records HTTP metrics. Headers and
// bodies are never logged.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		monitoring.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		monitoring.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())

		logger(r.Context()).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", duration),
		)
	})
}

// authenticate checks the shared app token and resolves the tenant
// credential before any CRM call is made.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(headerAppToken)
		if s.cfg.AppToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AppToken)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
			return
		}

		apiKey := strings.TrimSpace(r.Header.Get(headerAPIKey))
		if apiKey == "" {
			apiKey = s.cfg.FallbackAPIKey
		}
		if apiKey == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing x-jn-api-key header"})
			return
		}

		tenant := dualcreate.Tenant{
			APIKey: apiKey,
			Actor: dualcreate.Actor{
				Email: strings.TrimSpace(r.Header.Get(headerUserEmail)),
				Name:  strings.TrimSpace(r.Header.Get(headerUserName)),
			},
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantKey, tenant)))
	})
}

func tenantFrom(ctx context.Context) dualcreate.Tenant {
	t, _ := ctx.Value(tenantKey).(dualcreate.Tenant)
	return t
}
