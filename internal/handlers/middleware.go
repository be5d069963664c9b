package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/dailydiet/apiserver/internal/auth"
	"github.com/rs/zerolog/log"
)

// RequireAuth verifies the bearer credential and binds the token's subject
// into the request context. It never touches storage and issues nothing.
//
// The scheme word in front of the credential is discarded without being
// checked against "Bearer"; clients of the original API rely on that.
func RequireAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			var credential string
			if fields := strings.Fields(header); len(fields) > 1 {
				credential = fields[1]
			}

			subject, err := tokens.Verify(credential)
			if err != nil {
				log.Debug().
					Str("reason", auth.FailureReason(err)).
					Str("path", r.URL.Path).
					Msg("token rejected")
				writeError(w, http.StatusUnauthorized, "Token invalid")
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
