package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"chemistflow/internal/httpresponse"
)

// Recovery converts a panic in the handler chain into a 500 InternalError
// response instead of crashing the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestIDFromRequest(r)
				log.Printf("panic [request_id=%s]: %v\n%s", requestID, err, debug.Stack())

				if w.Header().Get("Content-Type") == "" {
					httpresponse.Error(w, http.StatusInternalServerError, "InternalError", "internal server error")
				}
			}
		}()

		next.ServeHTTP(w, r)
	})
}
