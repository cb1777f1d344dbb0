package middleware

import (
	"net/http"
	"time"

	"dossier/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context so all operations within the request observe
// the same "now". Audit entries and persistence timestamps line up.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
