package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit creates rate limiting middleware keyed by client IP. The public
// widget and webhook routes carry no verified tenant to key on.
func RateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(windowLength.Seconds()))

	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", retryAfter)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)
}
