package security

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/globalcontainerexchange/gce-api/internal/common"
)

// AdminTokenHeader carries the static operator token.
const AdminTokenHeader = "X-Admin-Token"

// AdminToken guards operator endpoints with a shared static token. An empty
// Token disables the guarded routes entirely.
type AdminToken struct {
	Token string
}

// Middleware rejects requests whose token does not match.
func (a AdminToken) Middleware(next http.Handler) http.Handler {
	expected := strings.TrimSpace(a.Token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if expected == "" {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "not found", nil)
			return
		}
		got := strings.TrimSpace(r.Header.Get(AdminTokenHeader))
		if got == "" {
			if auth := r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
				got = strings.TrimSpace(auth[7:])
			}
		}
		if !constantTimeEqual(got, expected) {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid admin token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func constantTimeEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
