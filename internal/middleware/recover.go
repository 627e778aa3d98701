package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
)

// Recoverer turns panics into a 500 whose body still carries a
// visitor-safe apology in the response field.
func Recoverer(log *logger.Logger, apology string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic while handling request",
					zap.String("path", r.URL.Path),
					zap.String("correlation_id", GetCorrelationID(r.Context())),
					zap.String("panic", fmt.Sprint(rec)),
					zap.ByteString("stack", debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(&model.ErrorResponse{
					Error:    "internal server error",
					Message:  "an unexpected error occurred",
					Response: apology,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
