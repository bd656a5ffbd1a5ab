package middleware

import (
	"net/http"
	"strings"

	"github.com/zatekoja/zomavan/pkg/requestid"
)

const maxRequestIDLength = 128

// RequestIDMiddleware reuses the caller's X-Request-ID or assigns a new one,
// stores it in the request context and echoes it in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestid.Header))
		if id == "" || len(id) > maxRequestIDLength {
			id = requestid.New()
		}

		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.NewContext(r.Context(), id)))
	})
}
