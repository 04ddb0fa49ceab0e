package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cardmachineworks/taxreporter/api/responses"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
)

// OperatorAuth gates report endpoints behind a static bearer token.
func OperatorAuth(logg *logger.Logger, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "operator token not configured"))
				return
			}

			header := r.Header.Get("Authorization")
			supplied, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || supplied == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "invalid operator token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
