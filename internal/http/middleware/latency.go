package middleware

import (
	"net/http"
	"time"
)

// Latency delays every product API request by d before it is handled. A
// request whose context ends while waiting is not served.
func Latency(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isOperationalPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			t := time.NewTimer(d)
			defer t.Stop()

			select {
			case <-r.Context().Done():
				return
			case <-t.C:
			}

			next.ServeHTTP(w, r)
		})
	}
}
