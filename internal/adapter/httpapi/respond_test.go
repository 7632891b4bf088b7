package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Validation", domain.NewValidationError("price", "price must be a positive number"), http.StatusBadRequest},
		{"InvalidID", fmt.Errorf("%w: %q", domain.ErrInvalidID, "bad"), http.StatusBadRequest},
		{"Unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"InvalidCredentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"NotFound", domain.ErrNotFound, http.StatusNotFound},
		{"DuplicateEmail", domain.ErrDuplicateEmail, http.StatusConflict},
		{"DuplicateUsername", domain.ErrDuplicateUsername, http.StatusConflict},
		{"Upstream", fmt.Errorf("%w: geocoding: timeout", domain.ErrUpstream), http.StatusBadGateway},
		{"Repository", fmt.Errorf("%w: db findone failed: connection reset", domain.ErrRepository), http.StatusInternalServerError},
		{"Unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			respondError(rec, logger.NewNop(), nil, "test", tc.err)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusInternalServerError {
				// Persistence details never leak to the client.
				assert.Contains(t, rec.Body.String(), "internal server error")
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}
