package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/usecase"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const principalCtxKey = contextKey("principal")

// principalFrom returns the authenticated principal attached to the
// request, or nil for anonymous requests.
func principalFrom(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(principalCtxKey).(*domain.Principal)
	return principal
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the resolved principal to the request context.
func RequireAuth(identity *usecase.IdentityUsecase, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondError(w, log, nil, r.URL.Path, domain.ErrUnauthenticated)
				return
			}

			principal, err := identity.PrincipalFromToken(r.Context(), token)
			if err != nil {
				respondError(w, log, nil, r.URL.Path, domain.ErrUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
