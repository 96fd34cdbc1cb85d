package slogx

import (
	"log/slog"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingMiddleware logs every request with method, path, status and
// duration, on the same pattern as a unary server interceptor.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := Default()
		ctx := r.Context()

		method := slog.String("method", r.Method)
		path := slog.String("path", r.URL.Path)
		logger.Debug(ctx, "start handling request", method, path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		after := time.Since(start)

		durAttr := slog.Duration("duration", after)
		statusAttr := slog.Int("status", rec.status)
		if rec.status >= http.StatusInternalServerError {
			logger.Error(ctx, "finish with server error", method, path, statusAttr, durAttr)
		} else {
			logger.Info(ctx, "finish handling request", method, path, statusAttr, durAttr)
		}
	})
}
