package middleware

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request with status, size and latency
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				fields := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", chimiddleware.GetReqID(r.Context()),
				}
				switch {
				case ww.Status() >= http.StatusInternalServerError:
					logger.Error("Request failed", fields...)
				case ww.Status() >= http.StatusBadRequest:
					logger.Warn("Request rejected", fields...)
				default:
					logger.Info("Request", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
