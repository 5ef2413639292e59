package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RBACAuthorization enforces role requirements on admin-only routes.
// Ownership checks (owner-or-admin operations) live in the services, where
// the record owner is known.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func writeForbidden(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// RequireAdmin guards list-all, stats and review routes.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := UserFromContext(r.Context())
			if !ok || identity == nil {
				writeForbidden(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !identity.IsAdmin() {
				ra.logger.WarnContext(r.Context(), "access denied: admin role required",
					"user_id", identity.ID,
					"role", identity.Role)
				writeForbidden(w, http.StatusForbidden, "admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
