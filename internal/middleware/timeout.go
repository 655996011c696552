package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"chemistflow/internal/httpresponse"
)

// Timeout bounds request handling to the given duration, responding with
// 408 if the handler hasn't finished by then. The handler goroutine is
// left running to completion; Go has no way to forcibly preempt it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			r = r.WithContext(ctx)

			go func() {
				defer func() {
					if err := recover(); err != nil {
						log.Printf("panic in timeout handler [request_id=%s]: %v", GetRequestIDFromRequest(r), err)
					}
				}()
				next.ServeHTTP(w, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case <-ctx.Done():
				if w.Header().Get("Content-Type") == "" {
					httpresponse.Error(w, http.StatusRequestTimeout, "RequestTimeout", "request timeout")
				}
				return
			}
		})
	}
}
