package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns the permissive CORS middleware used by the widget and
// webhook endpoints. Preflight requests are answered with 200.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization",
			"Api-Key",
			"Content-Type",
			"Client-Info",
			"X-Correlation-ID",
		},
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         300,
	})
}
