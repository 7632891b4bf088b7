package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/platform/metrics"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps the domain error taxonomy onto HTTP status codes. Only
// the boundary knows about transport codes; the core never encodes them.
func respondError(w http.ResponseWriter, log *logger.Logger, m *metrics.Manager, route string, err error) {
	var status int
	var kind string
	body := errorResponse{Error: err.Error()}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status, kind = http.StatusBadRequest, "invalid_input"
		body.Error = validationErr.Reason
		body.Field = validationErr.Field
	case errors.Is(err, domain.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrInvalidID):
		status, kind = http.StatusBadRequest, "invalid_id"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		status, kind = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		status, kind = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrDuplicateUsername):
		status, kind = http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrUpstream):
		status, kind = http.StatusBadGateway, "upstream_failure"
	case errors.Is(err, domain.ErrRepository):
		status, kind = http.StatusInternalServerError, "repository"
		body.Error = "internal server error"
		log.Error("Repository failure at HTTP boundary", zap.String("route", route), zap.Error(err))
	default:
		status, kind = http.StatusInternalServerError, "internal"
		body.Error = "internal server error"
		log.Error("Unhandled error at HTTP boundary", zap.String("route", route), zap.Error(err))
	}

	if m != nil {
		m.HTTPErrorsTotal.WithLabelValues(route, kind).Inc()
	}
	respondJSON(w, status, body)
}
