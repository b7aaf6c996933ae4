package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/dualcreate"
	"github.com/Revivalution/jn-dual-create/internal/resilience"
	"github.com/Revivalution/jn-dual-create/pkg/jobnimbus"
)

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Status  int    `json:"status,omitempty"`
}

type notFoundBody struct {
	Error     string `json:"error"`
	ContactID string `json:"contactId"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

// bind decodes the JSON body into dst and validates it, writing a 4xx
// response and returning false on failure.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.BodyLimitBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "Request body too large"})
		case errors.Is(err, io.EOF):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Request body is required"})
		default:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		}
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request", Details: fieldErrors(verrs)})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request"})
		return false
	}
	return true
}

func fieldErrors(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
	}
	return out
}

// writeError maps orchestration failures to HTTP responses. Upstream CRM
// failures surface the CRM status and raw body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger(r.Context())

	switch {
	case errors.Is(err, dualcreate.ErrMissingDisplayName):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Contact displayName or firstName/lastName is required"})
		return
	case errors.Is(err, dualcreate.ErrMissingContactID):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "contactId is required"})
		return
	case errors.Is(err, dualcreate.ErrContactNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Contact not found"})
		return
	}

	log.Error("api: orchestration failed", zap.Error(err))

	var apiErr *jobnimbus.APIError
	switch {
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "JobNimbus request failed",
			Details: upstreamDetails(apiErr.Body),
			Status:  apiErr.StatusCode,
		})
	case errors.Is(err, dualcreate.ErrMissingIdentifier):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "JobNimbus response carried no record id"})
	default:
		body := errorBody{Error: "JobNimbus request failed"}
		if cause := resilience.NetworkCause(err); cause != "" {
			body.Details = cause
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

// upstreamDetails returns body as JSON when it parses, else as a string.
func upstreamDetails(body string) any {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		return v
	}
	return body
}
