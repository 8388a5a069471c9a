package http

import (
	"net/http"

	"ledger/internal/auth"
	"ledger/internal/core"
	applog "ledger/internal/log"
)

// requireAuth verifies the bearer token and puts its principal in the
// request context. Every failure is a 401 before the handler runs.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			UnauthorizedError("Authentication required").Write(w)
			return
		}

		p, err := s.tokens.Verify(raw)
		if err != nil {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).DebugContext(r.Context(), "Token rejected",
				applog.FieldError, err.Error())
			UnauthorizedError("Invalid token").Write(w)
			return
		}

		if s.revoked != nil && p.TokenID != "" {
			revoked, err := s.revoked.IsRevoked(r.Context(), p.TokenID)
			if err != nil {
				writeError(w, r, err, "Error verifying token", applog.ComponentAuth)
				return
			}
			if revoked {
				UnauthorizedError("Invalid token").Write(w)
				return
			}
		}

		ctx := auth.WithPrincipal(r.Context(), p)
		ctx = applog.WithLogger(ctx, applog.FromContext(ctx).With(applog.FieldUserID, p.UserID))
		next(w, r.WithContext(ctx))
	}
}

// principal returns the caller placed in the context by requireAuth.
func principal(r *http.Request) core.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}
