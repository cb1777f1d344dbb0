package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"dossier/pkg/requestcontext"
)

// RequireOperatorToken gates admin routes behind the X-Operator-Token
// header, checked against a bcrypt hash so the plaintext token never
// lives in configuration.
func RequireOperatorToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tokenHash == "" {
				logger.WarnContext(ctx, "operator token not configured, admin routes disabled",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "operator token required")
				return
			}

			token := r.Header.Get("X-Operator-Token")
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				logger.WarnContext(ctx, "operator token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "operator token required")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithOperator(ctx, true)))
		})
	}
}
