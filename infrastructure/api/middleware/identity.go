package middleware

import (
	"context"
	"net/http"
)

// UserHeader carries the external user identity injected by the upstream
// gateway. The API trusts it as-is; authentication happens upstream.
const UserHeader = "X-User-ID"

type contextKey string

const externalIDKey contextKey = "external_user_id"

// Identity extracts the external user ID header into the request context.
// Requests without the header are rejected before reaching a handler.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			externalID := r.Header.Get(UserHeader)
			if externalID == "" {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error": UserHeader + " header is required",
				})
				return
			}
			ctx := context.WithValue(r.Context(), externalIDKey, externalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExternalID returns the external user ID stored by Identity, or "".
func ExternalID(ctx context.Context) string {
	if id, ok := ctx.Value(externalIDKey).(string); ok {
		return id
	}
	return ""
}
