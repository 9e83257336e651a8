package middleware

import (
	"net/http"
	"strings"

	"github.com/studyloop/studyloop-api/internal/api/shared"
)

// UserKeyHeader is the request header that identifies the caller's state.
// Every planning route is scoped to exactly one user key.
const UserKeyHeader = "X-User-Key"

// maxUserKeyLength caps the accepted key length. Keys are opaque client
// identifiers, not credentials.
const maxUserKeyLength = 128

// UserKeyMiddleware extracts the user key from the request header and stores
// it in the request context. Requests without a usable key are rejected with
// 400 before reaching any handler.
func UserKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userKey := strings.TrimSpace(r.Header.Get(UserKeyHeader))
		if userKey == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Missing "+UserKeyHeader+" header")
			return
		}
		if len(userKey) > maxUserKeyLength {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"User key too long")
			return
		}

		ctx := shared.WithUserKey(r.Context(), userKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
