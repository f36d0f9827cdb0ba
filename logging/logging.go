// Package logging configures the logrus logger used by the server and provides the
// per-request log entry: the request logger middleware stores an entry tagged with the
// request id in the context, and anything handling that request (error responses in
// particular) logs through FromContext so its lines can be correlated.
package logging

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/user/ems-go/config"
)

type contextKey string

const entryContextKey contextKey = "log_entry"

// New builds a logger from cfg writing to out.
// Unknown levels fall back to info.
func New(cfg *config.LogConfig, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// NewContext returns a copy of ctx carrying entry.
func NewContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, entryContextKey, entry)
}

// FromContext returns the request's log entry, or an entry on the standard logger
// when the request did not pass through RequestLogger.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(entryContextKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// RequestLogger logs one line per request with its status, size and duration.
// It must run after chi's middleware.RequestID so the id is available.
func RequestLogger(l *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := l.WithFields(logrus.Fields{
				"req_id": middleware.GetReqID(r.Context()),
				"method": r.Method,
				"path":   r.URL.Path,
			})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(NewContext(r.Context(), entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := logrus.Fields{
				"status":   status,
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
				"ip":       r.RemoteAddr,
			}
			switch {
			case status >= http.StatusInternalServerError:
				entry.WithFields(fields).Error("request completed")
			case status >= http.StatusBadRequest:
				entry.WithFields(fields).Warn("request completed")
			default:
				entry.WithFields(fields).Info("request completed")
			}
		})
	}
}
