package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ProcessTimeHeader carries the handler time in seconds.
const ProcessTimeHeader = "X-Process-Time"

// responseWriter wraps http.ResponseWriter to capture status code and to
// stamp the processing time header before the headers are flushed.
type responseWriter struct {
	http.ResponseWriter
	start       time.Time
	statusCode  int
	written     int64
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, start: time.Now(), statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.statusCode = code
	rw.Header().Set(ProcessTimeHeader, strconv.FormatFloat(time.Since(rw.start).Seconds(), 'f', 6, 64))
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging returns middleware that logs each request with structured JSON
// output. Requests slower than slowThreshold are logged at warn level; a zero
// threshold disables the distinction.
func Logging(logger *zap.Logger, slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)
			slot := &identitySlot{}
			if id, ok := IdentityFromContext(r.Context()); ok {
				slot.id, slot.set = id, true
			}
			r = r.WithContext(context.WithValue(r.Context(), identitySlotKey, slot))

			next.ServeHTTP(rw, r)

			duration := time.Since(rw.start)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rw.statusCode),
				zap.Int64("bytes", rw.written),
				zap.Duration("duration", duration),
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			}
			if slot.set {
				fields = append(fields,
					zap.String("identity", string(slot.id.Kind)),
					zap.String("subject", slot.id.Subject))
			}

			if slowThreshold > 0 && duration > slowThreshold {
				logger.Warn("slow http request", fields...)
				return
			}
			logger.Info("http request", fields...)
		})
	}
}
