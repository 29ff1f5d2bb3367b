package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
)

// withLogging writes one access line per request. Client errors are logged
// at warn level and server errors at error level so a failing sync batch
// stands out from routine polling.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		logger.FromRequest(r).WithLevel(accessLevel(rec.status)).
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Str("content_encoding", r.Header.Get("Content-Encoding")).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Int("size", rec.size).
			Send()
	})
}

func accessLevel(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// statusRecorder remembers the status and body size a handler wrote.
type statusRecorder struct {
	http.ResponseWriter

	status int
	size   int
}

// WriteHeader forwards the first call only.
func (w *statusRecorder) WriteHeader(statusCode int) {
	if w.status != 0 {
		return
	}
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
